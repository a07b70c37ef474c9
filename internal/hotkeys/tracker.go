package hotkeys

import "hotkeyd/internal/input"

// Tracker records which modifiers are currently held.
//
// Tracker is not safe for concurrent use. It belongs to the hook context and
// is only touched from there. It starts empty and is never seeded from the
// OS, so a modifier already held when the daemon starts is invisible until it
// is released and pressed again.
type Tracker struct {
	held input.ModifierSet
}

// Press marks m as held. Pressing a held modifier is a no-op.
func (t *Tracker) Press(m input.Modifier) {
	t.held = t.held.With(m)
}

// Release marks m as released. Releasing an absent modifier is a no-op.
func (t *Tracker) Release(m input.Modifier) {
	t.held = t.held.Without(m)
}

// Snapshot returns the held set by value.
func (t *Tracker) Snapshot() input.ModifierSet {
	return t.held
}
