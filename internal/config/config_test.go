package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hotkeyd/internal/hotkeys"
	"hotkeyd/internal/input"
	"hotkeyd/internal/testutil"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"config.toml":      FormatTOML,
		"config":           FormatTOML,
		"binds.yaml":       FormatYAML,
		"BINDS.YML":        FormatYAML,
		"/etc/hotkeyd.cfg": FormatTOML,
	}
	for path, want := range tests {
		if got := FormatFor(path); got != want {
			t.Fatalf("FormatFor(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
[binds]
"left-shift + q" = { type = "cmd", command = "echo hi" }
"left-ctrl + left-option + t" = { type = "cmd", command = "open -a Terminal" }
`)
	specs, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []hotkeys.Spec{
		{Combo: "left-ctrl + left-option + t", Type: "cmd", Command: "open -a Terminal"},
		{Combo: "left-shift + q", Type: "cmd", Command: "echo hi"},
	}
	if len(specs) != len(want) {
		t.Fatalf("Load() returned %d specs, want %d", len(specs), len(want))
	}
	for i := range want {
		if specs[i] != want[i] {
			t.Fatalf("specs[%d] = %+v, want %+v", i, specs[i], want[i])
		}
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "binds.yaml", `
binds:
  "right-command + space":
    type: cmd
    command: say hello
`)
	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	action, ok := table.Lookup(hotkeys.NewBind(input.KeySpace, input.RightCommand))
	if !ok || action != (hotkeys.Command{Text: "say hello"}) {
		t.Fatalf("Lookup() = %v, %v", action, ok)
	}
}

func TestParseWithoutBindsIsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		format Format
	}{
		{name: "empty toml", raw: "", format: FormatTOML},
		{name: "whitespace", raw: "\n  \n", format: FormatTOML},
		{name: "other table", raw: "[other]\nx = 1\n", format: FormatTOML},
		{name: "yaml without binds", raw: "other: 1\n", format: FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := testutil.CaptureLogBuffer(t, slog.LevelWarn)
			specs, err := Parse([]byte(tt.raw), tt.format)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(specs) != 0 {
				t.Fatalf("Parse() = %v, want no specs", specs)
			}
			if !strings.Contains(buf.String(), "[config]") {
				t.Fatalf("expected a config warning, log = %q", buf.String())
			}
		})
	}
}

func TestParseEmptyBindsTable(t *testing.T) {
	specs, err := Parse([]byte("[binds]\n"), FormatTOML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(specs) != 0 {
		t.Fatalf("Parse() = %v, want none", specs)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		format  Format
		wantSub string
	}{
		{name: "broken toml", raw: "[binds\n", format: FormatTOML, wantSub: "parse toml"},
		{name: "binds not a table", raw: "binds = 3\n", format: FormatTOML, wantSub: "parse toml"},
		{name: "broken yaml", raw: "binds: [\n", format: FormatYAML, wantSub: "parse yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw), tt.format)
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("Parse() error = %v, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoadTableRejectsDuplicates(t *testing.T) {
	path := writeFile(t, "config.toml", `
[binds]
"left-shift + left-ctrl + q" = { type = "cmd", command = "one" }
"left-ctrl + left-shift + q" = { type = "cmd", command = "two" }
`)
	_, err := LoadTable(path)
	if !errors.Is(err, hotkeys.ErrDuplicateBind) {
		t.Fatalf("LoadTable() error = %v, want ErrDuplicateBind", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load() error = %v, want ErrNotExist", err)
	}
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	path := writeFile(t, "config.toml", "# "+strings.Repeat("x", int(maxConfigFileBytes)))
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("Load() error = %v, want size error", err)
	}
}

func TestLoadRequiresPath(t *testing.T) {
	if _, err := Load("  "); err == nil {
		t.Fatal("Load(\"\") expected error")
	}
}
