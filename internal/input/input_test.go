package input

import (
	"slices"
	"testing"
)

func TestParseModifier(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		want   Modifier
		wantOK bool
	}{
		{name: "canonical", token: "left-shift", want: LeftShift, wantOK: true},
		{name: "upper case and padding", token: "  LEFT-SHIFT ", want: LeftShift, wantOK: true},
		{name: "legacy spelling", token: "shift-left", want: LeftShift, wantOK: true},
		{name: "alt alias", token: "alt", want: LeftOption, wantOK: true},
		{name: "super alias", token: "right-super", want: RightCommand, wantOK: true},
		{name: "fn", token: "fn", want: Function, wantOK: true},
		{name: "plain key is not a modifier", token: "q", wantOK: false},
		{name: "empty", token: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseModifier(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("ParseModifier(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("ParseModifier(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		token  string
		want   Key
		wantOK bool
	}{
		{token: "q", want: KeyQ, wantOK: true},
		{token: "Q", want: KeyQ, wantOK: true},
		{token: "key-q", want: KeyQ, wantOK: true},
		{token: "7", want: Key7, wantOK: true},
		{token: "f12", want: KeyF12, wantOK: true},
		{token: "enter", want: KeyReturn, wantOK: true},
		{token: "page-down", want: KeyPageDown, wantOK: true},
		{token: "`", want: KeyBackquote, wantOK: true},
		{token: "left-shift", wantOK: false},
		{token: "f21", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseKey(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("ParseKey(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("ParseKey(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestNamesDoNotOverlap(t *testing.T) {
	for name := range keyByName {
		if _, ok := modifierByName[name]; ok {
			t.Fatalf("token %q is both a key and a modifier", name)
		}
	}
}

func TestEveryKeyRoundTripsThroughItsName(t *testing.T) {
	for _, k := range Keys() {
		got, ok := ParseKey(k.String())
		if !ok || got != k {
			t.Fatalf("ParseKey(%q) = %v, %v; want %v", k.String(), got, ok, k)
		}
	}
	for _, m := range Modifiers() {
		got, ok := ParseModifier(m.String())
		if !ok || got != m {
			t.Fatalf("ParseModifier(%q) = %v, %v; want %v", m.String(), got, ok, m)
		}
	}
}

func TestModifierSetIsOrderIndependent(t *testing.T) {
	a := NewModifierSet(LeftShift, LeftControl, RightCommand)
	b := NewModifierSet(RightCommand, LeftShift, LeftControl)
	if a != b {
		t.Fatalf("sets differ: %v vs %v", a, b)
	}
	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
	want := []Modifier{LeftShift, LeftControl, RightCommand}
	if got := a.Members(); !slices.Equal(got, want) {
		t.Fatalf("Members() = %v, want %v", got, want)
	}
	if got := a.String(); got != "left-shift + left-ctrl + right-command" {
		t.Fatalf("String() = %q", got)
	}
}

func TestModifierSetWithIsIdempotent(t *testing.T) {
	s := NewModifierSet().With(LeftShift).With(LeftShift)
	if s.Len() != 1 || !s.Has(LeftShift) {
		t.Fatalf("double With produced %v", s)
	}
	s = s.Without(RightShift)
	if s != NewModifierSet(LeftShift) {
		t.Fatalf("Without(absent) changed set to %v", s)
	}
	s = s.Without(LeftShift)
	if !s.IsEmpty() {
		t.Fatalf("Without(LeftShift) = %v, want empty", s)
	}
}

func TestModifierSetIgnoresInvalid(t *testing.T) {
	s := NewModifierSet(ModifierUnknown, Modifier(200))
	if !s.IsEmpty() {
		t.Fatalf("invalid modifiers were added: %v", s)
	}
	if s.Has(ModifierUnknown) {
		t.Fatal("Has(ModifierUnknown) = true")
	}
}

func TestArrowKeysBuildEvents(t *testing.T) {
	tests := []struct {
		token string
		want  Key
	}{
		{token: "up", want: KeyArrowUp},
		{token: "down-arrow", want: KeyArrowDown},
		{token: "left", want: KeyArrowLeft},
		{token: "right-arrow", want: KeyArrowRight},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseKey(tt.token)
			if !ok || got != tt.want {
				t.Fatalf("ParseKey(%q) = %v, %v; want %v", tt.token, got, ok, tt.want)
			}
			if ev := KeyDown(got); ev.Kind != EventKeyDown || ev.Key != tt.want {
				t.Fatalf("KeyDown(%v) = %+v", got, ev)
			}
			if ev := KeyUp(got); ev.Kind != EventKeyUp || ev.Key != tt.want {
				t.Fatalf("KeyUp(%v) = %+v", got, ev)
			}
		})
	}
}
