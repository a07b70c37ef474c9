package input

import "strings"

// Key identifies a non-modifier key.
type Key uint16

const (
	KeyUnknown Key = iota

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20

	KeySpace
	KeyReturn
	KeyTab
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyCapsLock
	KeyPrintScreen

	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeySemicolon
	KeyQuote
	KeyBackquote
	KeyComma
	KeyPeriod
	KeySlash

	keyCount
)

// keyNames holds the canonical config name first, then aliases.
var keyNames = func() [keyCount][]string {
	var names [keyCount][]string
	names[KeyUnknown] = []string{"unknown"}
	for i := Key(0); i < 26; i++ {
		names[KeyA+i] = []string{string(rune('a' + i))}
	}
	for i := Key(0); i < 10; i++ {
		names[Key0+i] = []string{string(rune('0' + i))}
	}
	fnames := [...]string{"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10",
		"f11", "f12", "f13", "f14", "f15", "f16", "f17", "f18", "f19", "f20"}
	for i, n := range fnames {
		names[KeyF1+Key(i)] = []string{n}
	}

	names[KeySpace] = []string{"space"}
	names[KeyReturn] = []string{"return", "enter"}
	names[KeyTab] = []string{"tab"}
	names[KeyEscape] = []string{"escape", "esc"}
	names[KeyBackspace] = []string{"backspace"}
	names[KeyDelete] = []string{"delete", "del"}
	names[KeyInsert] = []string{"insert", "ins"}
	names[KeyHome] = []string{"home"}
	names[KeyEnd] = []string{"end"}
	names[KeyPageUp] = []string{"page-up", "pgup"}
	names[KeyPageDown] = []string{"page-down", "pgdn"}
	names[KeyArrowUp] = []string{"up", "up-arrow"}
	names[KeyArrowDown] = []string{"down", "down-arrow"}
	names[KeyArrowLeft] = []string{"left", "left-arrow"}
	names[KeyArrowRight] = []string{"right", "right-arrow"}
	names[KeyCapsLock] = []string{"caps-lock"}
	names[KeyPrintScreen] = []string{"print-screen"}

	names[KeyMinus] = []string{"minus", "-"}
	names[KeyEqual] = []string{"equal", "="}
	names[KeyLeftBracket] = []string{"left-bracket", "["}
	names[KeyRightBracket] = []string{"right-bracket", "]"}
	names[KeyBackslash] = []string{"backslash", "\\"}
	names[KeySemicolon] = []string{"semicolon", ";"}
	names[KeyQuote] = []string{"quote", "'"}
	names[KeyBackquote] = []string{"backquote", "grave", "`"}
	names[KeyComma] = []string{"comma", ","}
	names[KeyPeriod] = []string{"period", "dot", "."}
	names[KeySlash] = []string{"slash", "/"}
	return names
}()

var keyByName = func() map[string]Key {
	out := make(map[string]Key, int(keyCount)*2)
	for k := KeyA; k < keyCount; k++ {
		for _, name := range keyNames[k] {
			out[name] = k
		}
	}
	// Legacy spelling used by older binding files: "key-q", "num-1".
	for k := KeyA; k <= KeyZ; k++ {
		out["key-"+keyNames[k][0]] = k
	}
	for k := Key0; k <= Key9; k++ {
		out["num-"+keyNames[k][0]] = k
	}
	return out
}()

// ParseKey resolves a config token such as "q" or "page-up".
func ParseKey(name string) (Key, bool) {
	k, ok := keyByName[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// String returns the canonical config name.
func (k Key) String() string {
	if k >= keyCount {
		return keyNames[KeyUnknown][0]
	}
	return keyNames[k][0]
}

// Valid reports whether k is a known key.
func (k Key) Valid() bool {
	return k > KeyUnknown && k < keyCount
}

// Keys returns every known key in discriminant order.
func Keys() []Key {
	out := make([]Key, 0, keyCount-1)
	for k := KeyA; k < keyCount; k++ {
		out = append(out, k)
	}
	return out
}

// KeyAliases returns the canonical name and aliases accepted for k.
func KeyAliases(k Key) []string {
	if !k.Valid() {
		return nil
	}
	return append([]string(nil), keyNames[k]...)
}
