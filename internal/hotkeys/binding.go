package hotkeys

import (
	"errors"
	"fmt"
	"strings"

	"hotkeyd/internal/input"
)

// ErrNoModifier is returned for a combination without any modifier key.
var ErrNoModifier = errors.New("at least one modifier is required")

// comboSeparator joins the tokens of a combination string ("left-shift + q").
const comboSeparator = "+"

// Bind is a modifier set plus one trigger key. It is comparable and is used
// directly as the binding table's map key.
type Bind struct {
	Modifiers input.ModifierSet
	Key       input.Key
}

// NewBind builds a Bind from explicit members.
func NewBind(key input.Key, mods ...input.Modifier) Bind {
	return Bind{Modifiers: input.NewModifierSet(mods...), Key: key}
}

// String returns the canonical combination, modifiers in discriminant order.
func (b Bind) String() string {
	if b.Modifiers.IsEmpty() {
		return b.Key.String()
	}
	return b.Modifiers.String() + " " + comboSeparator + " " + b.Key.String()
}

// ParseBind parses a combination such as "left-shift + q".
// Tokens are case-insensitive and surrounding whitespace is ignored.
func ParseBind(combo string) (Bind, error) {
	raw := strings.TrimSpace(combo)
	if raw == "" {
		return Bind{}, errors.New("bind is empty")
	}

	var (
		mods   input.ModifierSet
		key    input.Key
		hasKey bool
	)
	for _, part := range strings.Split(raw, comboSeparator) {
		token := strings.TrimSpace(part)
		if token == "" {
			return Bind{}, fmt.Errorf("empty key token in bind %q", raw)
		}
		if m, ok := input.ParseModifier(token); ok {
			if mods.Has(m) {
				return Bind{}, fmt.Errorf("modifier %q repeated in bind %q", token, raw)
			}
			mods = mods.With(m)
			continue
		}
		k, ok := input.ParseKey(token)
		if !ok {
			return Bind{}, fmt.Errorf("unknown key %q in bind %q", token, raw)
		}
		if hasKey {
			return Bind{}, fmt.Errorf("bind %q has more than one non-modifier key (%s, %s)", raw, key, k)
		}
		key = k
		hasKey = true
	}

	if !hasKey {
		return Bind{}, fmt.Errorf("bind %q has no non-modifier key", raw)
	}
	if mods.IsEmpty() {
		return Bind{}, fmt.Errorf("bind %q: %w", raw, ErrNoModifier)
	}
	return Bind{Modifiers: mods, Key: key}, nil
}
