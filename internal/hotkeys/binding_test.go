package hotkeys

import (
	"errors"
	"strings"
	"testing"

	"hotkeyd/internal/input"
)

func TestParseBindSuccess(t *testing.T) {
	tests := []struct {
		name     string
		combo    string
		want     Bind
		wantNorm string
	}{
		{
			name:     "single modifier",
			combo:    "left-shift + q",
			want:     NewBind(input.KeyQ, input.LeftShift),
			wantNorm: "left-shift + q",
		},
		{
			name:     "no spaces around separator",
			combo:    "left-ctrl+f12",
			want:     NewBind(input.KeyF12, input.LeftControl),
			wantNorm: "left-ctrl + f12",
		},
		{
			name:     "key before modifiers",
			combo:    "space + left-command + left-option",
			want:     NewBind(input.KeySpace, input.LeftCommand, input.LeftOption),
			wantNorm: "left-option + left-command + space",
		},
		{
			name:     "mixed case and aliases",
			combo:    "  Shift-Left + KEY-Q ",
			want:     NewBind(input.KeyQ, input.LeftShift),
			wantNorm: "left-shift + q",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBind(tt.combo)
			if err != nil {
				t.Fatalf("ParseBind(%q) error = %v", tt.combo, err)
			}
			if got != tt.want {
				t.Fatalf("ParseBind(%q) = %+v, want %+v", tt.combo, got, tt.want)
			}
			if norm := got.String(); norm != tt.wantNorm {
				t.Fatalf("String() = %q, want %q", norm, tt.wantNorm)
			}
		})
	}
}

func TestParseBindIsOrderIndependent(t *testing.T) {
	a, err := ParseBind("left-shift + left-ctrl + q")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseBind("left-ctrl + left-shift + q")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("binds differ: %v vs %v", a, b)
	}
	seen := map[Bind]int{a: 1}
	seen[b]++
	if len(seen) != 1 || seen[a] != 2 {
		t.Fatalf("binds hash differently: %v", seen)
	}
}

func TestParseBindErrors(t *testing.T) {
	tests := []struct {
		name    string
		combo   string
		wantSub string
	}{
		{name: "empty", combo: "  ", wantSub: "empty"},
		{name: "no modifier", combo: "q", wantSub: "modifier is required"},
		{name: "only modifiers", combo: "left-shift + left-ctrl", wantSub: "no non-modifier key"},
		{name: "two keys", combo: "left-shift + q + w", wantSub: "more than one"},
		{name: "repeated modifier", combo: "left-shift + shift-left + q", wantSub: "repeated"},
		{name: "unknown token", combo: "left-shift + banana", wantSub: "unknown key"},
		{name: "dangling separator", combo: "left-shift + ", wantSub: "empty key token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBind(tt.combo)
			if err == nil {
				t.Fatalf("ParseBind(%q) expected error", tt.combo)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("ParseBind(%q) error = %v, want substring %q", tt.combo, err, tt.wantSub)
			}
		})
	}
}

func TestParseBindZeroModifierIsSentinel(t *testing.T) {
	_, err := ParseBind("f5")
	if !errors.Is(err, ErrNoModifier) {
		t.Fatalf("ParseBind(f5) error = %v, want ErrNoModifier", err)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		want    Action
		wantErr bool
	}{
		{name: "cmd", spec: Spec{Combo: "x", Type: "cmd", Command: "echo hi"}, want: Command{Text: "echo hi"}},
		{name: "cmd upper case type", spec: Spec{Combo: "x", Type: "CMD", Command: "true"}, want: Command{Text: "true"}},
		{name: "missing type", spec: Spec{Combo: "x", Command: "true"}, wantErr: true},
		{name: "missing command", spec: Spec{Combo: "x", Type: "cmd"}, wantErr: true},
		{name: "unsupported type", spec: Spec{Combo: "x", Type: "macro"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAction(%+v) expected error", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAction(%+v) error = %v", tt.spec, err)
			}
			if got != tt.want {
				t.Fatalf("ParseAction(%+v) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}
