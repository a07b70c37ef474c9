//go:build darwin

package hook

import "hotkeyd/internal/input"

// macEventKind is the subset of CGEventType the tap subscribes to.
type macEventKind uint8

const (
	macKeyDown macEventKind = iota
	macKeyUp
	macFlagsChanged
)

// Device-dependent modifier bits of CGEventFlags (NX_DEVICE*KEYMASK) plus
// the secondary-fn flag.
const (
	nxDeviceLCtlKeyMask   = 0x00000001
	nxDeviceLShiftKeyMask = 0x00000002
	nxDeviceRShiftKeyMask = 0x00000004
	nxDeviceLCmdKeyMask   = 0x00000008
	nxDeviceRCmdKeyMask   = 0x00000010
	nxDeviceLAltKeyMask   = 0x00000020
	nxDeviceRAltKeyMask   = 0x00000040
	nxDeviceRCtlKeyMask   = 0x00002000
	cgEventFlagMaskFn     = 0x00800000
)

type macModifier struct {
	modifier input.Modifier
	mask     uint64
}

// macModifiers maps virtual keycodes of modifier keys to their flag bit.
var macModifiers = map[uint16]macModifier{
	56: {input.LeftShift, nxDeviceLShiftKeyMask},
	60: {input.RightShift, nxDeviceRShiftKeyMask},
	59: {input.LeftControl, nxDeviceLCtlKeyMask},
	62: {input.RightControl, nxDeviceRCtlKeyMask},
	58: {input.LeftOption, nxDeviceLAltKeyMask},
	61: {input.RightOption, nxDeviceRAltKeyMask},
	55: {input.LeftCommand, nxDeviceLCmdKeyMask},
	54: {input.RightCommand, nxDeviceRCmdKeyMask},
	63: {input.Function, cgEventFlagMaskFn},
}

// macKeys maps ANSI virtual keycodes (kVK_*).
var macKeys = map[uint16]input.Key{
	0: input.KeyA, 11: input.KeyB, 8: input.KeyC, 2: input.KeyD, 14: input.KeyE,
	3: input.KeyF, 5: input.KeyG, 4: input.KeyH, 34: input.KeyI, 38: input.KeyJ,
	40: input.KeyK, 37: input.KeyL, 46: input.KeyM, 45: input.KeyN, 31: input.KeyO,
	35: input.KeyP, 12: input.KeyQ, 15: input.KeyR, 1: input.KeyS, 17: input.KeyT,
	32: input.KeyU, 9: input.KeyV, 13: input.KeyW, 7: input.KeyX, 16: input.KeyY,
	6: input.KeyZ,

	29: input.Key0, 18: input.Key1, 19: input.Key2, 20: input.Key3, 21: input.Key4,
	23: input.Key5, 22: input.Key6, 26: input.Key7, 28: input.Key8, 25: input.Key9,

	122: input.KeyF1, 120: input.KeyF2, 99: input.KeyF3, 118: input.KeyF4,
	96: input.KeyF5, 97: input.KeyF6, 98: input.KeyF7, 100: input.KeyF8,
	101: input.KeyF9, 109: input.KeyF10, 103: input.KeyF11, 111: input.KeyF12,
	105: input.KeyF13, 107: input.KeyF14, 113: input.KeyF15, 106: input.KeyF16,
	64: input.KeyF17, 79: input.KeyF18, 80: input.KeyF19, 90: input.KeyF20,

	49:  input.KeySpace,
	36:  input.KeyReturn,
	48:  input.KeyTab,
	53:  input.KeyEscape,
	51:  input.KeyBackspace,
	117: input.KeyDelete,
	114: input.KeyInsert,
	115: input.KeyHome,
	119: input.KeyEnd,
	116: input.KeyPageUp,
	121: input.KeyPageDown,
	126: input.KeyArrowUp,
	125: input.KeyArrowDown,
	123: input.KeyArrowLeft,
	124: input.KeyArrowRight,
	57:  input.KeyCapsLock,
	27:  input.KeyMinus,
	24:  input.KeyEqual,
	33:  input.KeyLeftBracket,
	30:  input.KeyRightBracket,
	42:  input.KeyBackslash,
	41:  input.KeySemicolon,
	39:  input.KeyQuote,
	50:  input.KeyBackquote,
	43:  input.KeyComma,
	47:  input.KeyPeriod,
	44:  input.KeySlash,
}

// translateMac maps one tap callback. Modifier presses arrive as
// flags-changed events whose device bit tells press from release. Caps lock
// toggles arrive the same way and are reported as Other.
func translateMac(kind macEventKind, keycode uint16, flags uint64, repeat bool) input.Event {
	switch kind {
	case macFlagsChanged:
		mod, ok := macModifiers[keycode]
		if !ok {
			return input.Other()
		}
		if flags&mod.mask != 0 {
			return input.ModifierDown(mod.modifier)
		}
		return input.ModifierUp(mod.modifier)
	case macKeyDown, macKeyUp:
		k, ok := macKeys[keycode]
		if !ok {
			return input.Other()
		}
		if kind == macKeyUp {
			return input.KeyUp(k)
		}
		ev := input.KeyDown(k)
		ev.Repeat = repeat
		return ev
	default:
		return input.Other()
	}
}
