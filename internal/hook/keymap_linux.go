//go:build linux

package hook

import (
	"github.com/holoplot/go-evdev"

	"hotkeyd/internal/input"
)

// evdev key values.
const (
	evdevRelease = 0
	evdevPress   = 1
	evdevRepeat  = 2
)

var evdevModifiers = map[evdev.EvCode]input.Modifier{
	evdev.KEY_LEFTSHIFT:  input.LeftShift,
	evdev.KEY_RIGHTSHIFT: input.RightShift,
	evdev.KEY_LEFTCTRL:   input.LeftControl,
	evdev.KEY_RIGHTCTRL:  input.RightControl,
	evdev.KEY_LEFTALT:    input.LeftOption,
	evdev.KEY_RIGHTALT:   input.RightOption,
	evdev.KEY_LEFTMETA:   input.LeftCommand,
	evdev.KEY_RIGHTMETA:  input.RightCommand,
	evdev.KEY_FN:         input.Function,
}

var evdevKeys = map[evdev.EvCode]input.Key{
	evdev.KEY_A: input.KeyA, evdev.KEY_B: input.KeyB, evdev.KEY_C: input.KeyC,
	evdev.KEY_D: input.KeyD, evdev.KEY_E: input.KeyE, evdev.KEY_F: input.KeyF,
	evdev.KEY_G: input.KeyG, evdev.KEY_H: input.KeyH, evdev.KEY_I: input.KeyI,
	evdev.KEY_J: input.KeyJ, evdev.KEY_K: input.KeyK, evdev.KEY_L: input.KeyL,
	evdev.KEY_M: input.KeyM, evdev.KEY_N: input.KeyN, evdev.KEY_O: input.KeyO,
	evdev.KEY_P: input.KeyP, evdev.KEY_Q: input.KeyQ, evdev.KEY_R: input.KeyR,
	evdev.KEY_S: input.KeyS, evdev.KEY_T: input.KeyT, evdev.KEY_U: input.KeyU,
	evdev.KEY_V: input.KeyV, evdev.KEY_W: input.KeyW, evdev.KEY_X: input.KeyX,
	evdev.KEY_Y: input.KeyY, evdev.KEY_Z: input.KeyZ,

	evdev.KEY_0: input.Key0, evdev.KEY_1: input.Key1, evdev.KEY_2: input.Key2,
	evdev.KEY_3: input.Key3, evdev.KEY_4: input.Key4, evdev.KEY_5: input.Key5,
	evdev.KEY_6: input.Key6, evdev.KEY_7: input.Key7, evdev.KEY_8: input.Key8,
	evdev.KEY_9: input.Key9,

	evdev.KEY_F1: input.KeyF1, evdev.KEY_F2: input.KeyF2, evdev.KEY_F3: input.KeyF3,
	evdev.KEY_F4: input.KeyF4, evdev.KEY_F5: input.KeyF5, evdev.KEY_F6: input.KeyF6,
	evdev.KEY_F7: input.KeyF7, evdev.KEY_F8: input.KeyF8, evdev.KEY_F9: input.KeyF9,
	evdev.KEY_F10: input.KeyF10, evdev.KEY_F11: input.KeyF11, evdev.KEY_F12: input.KeyF12,
	evdev.KEY_F13: input.KeyF13, evdev.KEY_F14: input.KeyF14, evdev.KEY_F15: input.KeyF15,
	evdev.KEY_F16: input.KeyF16, evdev.KEY_F17: input.KeyF17, evdev.KEY_F18: input.KeyF18,
	evdev.KEY_F19: input.KeyF19, evdev.KEY_F20: input.KeyF20,

	evdev.KEY_SPACE:      input.KeySpace,
	evdev.KEY_ENTER:      input.KeyReturn,
	evdev.KEY_TAB:        input.KeyTab,
	evdev.KEY_ESC:        input.KeyEscape,
	evdev.KEY_BACKSPACE:  input.KeyBackspace,
	evdev.KEY_DELETE:     input.KeyDelete,
	evdev.KEY_INSERT:     input.KeyInsert,
	evdev.KEY_HOME:       input.KeyHome,
	evdev.KEY_END:        input.KeyEnd,
	evdev.KEY_PAGEUP:     input.KeyPageUp,
	evdev.KEY_PAGEDOWN:   input.KeyPageDown,
	evdev.KEY_UP:         input.KeyArrowUp,
	evdev.KEY_DOWN:       input.KeyArrowDown,
	evdev.KEY_LEFT:       input.KeyArrowLeft,
	evdev.KEY_RIGHT:      input.KeyArrowRight,
	evdev.KEY_CAPSLOCK:   input.KeyCapsLock,
	evdev.KEY_SYSRQ:      input.KeyPrintScreen,
	evdev.KEY_MINUS:      input.KeyMinus,
	evdev.KEY_EQUAL:      input.KeyEqual,
	evdev.KEY_LEFTBRACE:  input.KeyLeftBracket,
	evdev.KEY_RIGHTBRACE: input.KeyRightBracket,
	evdev.KEY_BACKSLASH:  input.KeyBackslash,
	evdev.KEY_SEMICOLON:  input.KeySemicolon,
	evdev.KEY_APOSTROPHE: input.KeyQuote,
	evdev.KEY_GRAVE:      input.KeyBackquote,
	evdev.KEY_COMMA:      input.KeyComma,
	evdev.KEY_DOT:        input.KeyPeriod,
	evdev.KEY_SLASH:      input.KeySlash,
}

// translateEvdev maps a raw evdev event. Anything that is not a known key or
// modifier becomes input.Other.
func translateEvdev(ev *evdev.InputEvent) input.Event {
	if ev == nil || ev.Type != evdev.EV_KEY {
		return input.Other()
	}
	if m, ok := evdevModifiers[ev.Code]; ok {
		if ev.Value == evdevRelease {
			return input.ModifierUp(m)
		}
		return input.ModifierDown(m)
	}
	k, ok := evdevKeys[ev.Code]
	if !ok {
		return input.Other()
	}
	switch ev.Value {
	case evdevRelease:
		return input.KeyUp(k)
	case evdevRepeat:
		out := input.KeyDown(k)
		out.Repeat = true
		return out
	default:
		return input.KeyDown(k)
	}
}
