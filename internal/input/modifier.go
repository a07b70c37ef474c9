package input

import (
	"math/bits"
	"strings"
)

// Modifier identifies a modifier key. Left and right variants are distinct.
type Modifier uint8

const (
	ModifierUnknown Modifier = iota
	LeftShift
	RightShift
	LeftControl
	RightControl
	LeftOption
	RightOption
	LeftCommand
	RightCommand
	Function

	modifierCount
)

// modifierNames holds the canonical config name of each modifier followed by
// accepted aliases. Index 0 of each entry is what String and binding
// normalization print.
var modifierNames = [modifierCount][]string{
	ModifierUnknown: {"unknown-modifier"},
	LeftShift:       {"left-shift", "shift-left", "lshift"},
	RightShift:      {"right-shift", "shift-right", "rshift"},
	LeftControl:     {"left-ctrl", "left-control", "control-left", "lctrl"},
	RightControl:    {"right-ctrl", "right-control", "control-right", "rctrl"},
	LeftOption:      {"left-option", "left-alt", "alt", "lalt"},
	RightOption:     {"right-option", "right-alt", "alt-gr", "ralt"},
	LeftCommand:     {"left-command", "left-cmd", "left-super", "left-meta", "meta-left", "lcmd"},
	RightCommand:    {"right-command", "right-cmd", "right-super", "right-meta", "meta-right", "rcmd"},
	Function:        {"fn", "function"},
}

var modifierByName = func() map[string]Modifier {
	out := make(map[string]Modifier, int(modifierCount)*4)
	for m := LeftShift; m < modifierCount; m++ {
		for _, name := range modifierNames[m] {
			out[name] = m
		}
	}
	return out
}()

// ParseModifier resolves a config token such as "left-shift".
func ParseModifier(name string) (Modifier, bool) {
	m, ok := modifierByName[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// String returns the canonical config name.
func (m Modifier) String() string {
	if m >= modifierCount {
		return modifierNames[ModifierUnknown][0]
	}
	return modifierNames[m][0]
}

// Valid reports whether m is a known modifier.
func (m Modifier) Valid() bool {
	return m > ModifierUnknown && m < modifierCount
}

// Modifiers returns every known modifier in discriminant order.
func Modifiers() []Modifier {
	out := make([]Modifier, 0, modifierCount-1)
	for m := LeftShift; m < modifierCount; m++ {
		out = append(out, m)
	}
	return out
}

// ModifierAliases returns the canonical name and aliases accepted for m.
func ModifierAliases(m Modifier) []string {
	if !m.Valid() {
		return nil
	}
	return append([]string(nil), modifierNames[m]...)
}

// ModifierSet is an unordered set of modifiers stored as a bitmask, so two sets
// with the same members compare equal regardless of insertion order.
type ModifierSet uint16

// NewModifierSet builds a set from mods. Invalid modifiers are ignored.
func NewModifierSet(mods ...Modifier) ModifierSet {
	var s ModifierSet
	for _, m := range mods {
		s = s.With(m)
	}
	return s
}

// With returns s with m added.
func (s ModifierSet) With(m Modifier) ModifierSet {
	if !m.Valid() {
		return s
	}
	return s | 1<<m
}

// Without returns s with m removed.
func (s ModifierSet) Without(m Modifier) ModifierSet {
	if !m.Valid() {
		return s
	}
	return s &^ (1 << m)
}

// Has reports whether m is in s.
func (s ModifierSet) Has(m Modifier) bool {
	return m.Valid() && s&(1<<m) != 0
}

// Len returns the number of members.
func (s ModifierSet) Len() int {
	return bits.OnesCount16(uint16(s))
}

// IsEmpty reports whether no modifier is present.
func (s ModifierSet) IsEmpty() bool {
	return s == 0
}

// Members returns the modifiers in canonical (discriminant) order.
func (s ModifierSet) Members() []Modifier {
	out := make([]Modifier, 0, s.Len())
	for m := LeftShift; m < modifierCount; m++ {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// String joins the canonical names with " + ".
func (s ModifierSet) String() string {
	members := s.Members()
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.String()
	}
	return strings.Join(names, " + ")
}
