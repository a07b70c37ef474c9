//go:build windows

package hook

import "hotkeyd/internal/input"

// Low-level keyboard hook messages (wParam).
const (
	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105
)

// Low-level hooks report sided virtual-key codes for modifiers.
var vkModifiers = map[uint32]input.Modifier{
	0xA0: input.LeftShift,
	0xA1: input.RightShift,
	0xA2: input.LeftControl,
	0xA3: input.RightControl,
	0xA4: input.LeftOption,
	0xA5: input.RightOption,
	0x5B: input.LeftCommand,
	0x5C: input.RightCommand,
}

var vkKeys = func() map[uint32]input.Key {
	m := map[uint32]input.Key{
		0x20: input.KeySpace,
		0x0D: input.KeyReturn,
		0x09: input.KeyTab,
		0x1B: input.KeyEscape,
		0x08: input.KeyBackspace,
		0x2E: input.KeyDelete,
		0x2D: input.KeyInsert,
		0x24: input.KeyHome,
		0x23: input.KeyEnd,
		0x21: input.KeyPageUp,
		0x22: input.KeyPageDown,
		0x26: input.KeyArrowUp,
		0x28: input.KeyArrowDown,
		0x25: input.KeyArrowLeft,
		0x27: input.KeyArrowRight,
		0x14: input.KeyCapsLock,
		0x2C: input.KeyPrintScreen,
		0xBD: input.KeyMinus,
		0xBB: input.KeyEqual,
		0xDB: input.KeyLeftBracket,
		0xDD: input.KeyRightBracket,
		0xDC: input.KeyBackslash,
		0xBA: input.KeySemicolon,
		0xDE: input.KeyQuote,
		0xC0: input.KeyBackquote,
		0xBC: input.KeyComma,
		0xBE: input.KeyPeriod,
		0xBF: input.KeySlash,
	}
	for i := range uint32(26) {
		m['A'+i] = input.KeyA + input.Key(i)
	}
	for i := range uint32(10) {
		m['0'+i] = input.Key0 + input.Key(i)
	}
	for i := range uint32(20) {
		m[0x70+i] = input.KeyF1 + input.Key(i)
	}
	return m
}()

// vkTranslator turns hook callbacks into events. The low-level hook does not
// flag auto-repeat, so held keys are tracked to mark repeats.
type vkTranslator struct {
	held map[uint32]bool
}

func newVKTranslator() *vkTranslator {
	return &vkTranslator{held: make(map[uint32]bool)}
}

func (t *vkTranslator) translate(msg uintptr, vk uint32) input.Event {
	var down bool
	switch msg {
	case wmKeyDown, wmSysKeyDown:
		down = true
	case wmKeyUp, wmSysKeyUp:
	default:
		return input.Other()
	}

	if m, ok := vkModifiers[vk]; ok {
		if down {
			return input.ModifierDown(m)
		}
		return input.ModifierUp(m)
	}
	k, ok := vkKeys[vk]
	if !ok {
		return input.Other()
	}
	if !down {
		delete(t.held, vk)
		return input.KeyUp(k)
	}
	ev := input.KeyDown(k)
	ev.Repeat = t.held[vk]
	t.held[vk] = true
	return ev
}

// vkMenuMask is an unassigned virtual key. Windows opens the Start menu when
// a Win key goes down and up with nothing in between, so a combination the
// handler swallowed is followed by this key while Win is still held.
const vkMenuMask = 0xE8

// winMasker decides when the menu mask key must be injected: once per Win
// hold, at the first event blocked while a Win key is down.
type winMasker struct {
	left, right bool
	masked      bool
}

func (m *winMasker) observe(ev input.Event, d input.Decision) bool {
	switch ev.Kind {
	case input.EventModifierDown, input.EventModifierUp:
		down := ev.Kind == input.EventModifierDown
		switch ev.Modifier {
		case input.LeftCommand:
			m.left = down
		case input.RightCommand:
			m.right = down
		}
		if !m.left && !m.right {
			m.masked = false
		}
	}
	if d != input.Block || m.masked || !(m.left || m.right) {
		return false
	}
	m.masked = true
	return true
}
