package main

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"hotkeyd/internal/input"
	"hotkeyd/internal/ipc"
	"hotkeyd/internal/sessionlog"
)

func TestControlBindsListsCurrentTable(t *testing.T) {
	path := writeConfig(t, t.TempDir(), shiftQConfig)
	a := NewApp(testSettings(t, path), nil)
	if _, err := a.reload("startup"); err != nil {
		t.Fatal(err)
	}

	resp := a.executeControl(ipc.Request{Command: ipc.CommandBinds})
	if resp.ExitCode != 0 {
		t.Fatalf("binds failed: %+v", resp)
	}
	want := "generation 2, 1 binds\nleft-shift + q\tcmd(\"echo hi\")\n"
	if resp.Stdout != want {
		t.Fatalf("binds = %q, want %q", resp.Stdout, want)
	}
}

func TestControlReload(t *testing.T) {
	path := writeConfig(t, t.TempDir(), shiftQConfig)
	a := NewApp(testSettings(t, path), nil)

	resp := a.executeControl(ipc.Request{Command: ipc.CommandReload})
	if resp.ExitCode != 0 || resp.Stdout != "reloaded: generation 2, 1 binds\n" {
		t.Fatalf("reload = %+v", resp)
	}

	noFile := NewApp(testSettings(t, ""), nil)
	resp = noFile.executeControl(ipc.Request{Command: ipc.CommandReload})
	if resp.ExitCode == 0 || !strings.Contains(resp.Stderr, "no binding file") {
		t.Fatalf("reload without a file = %+v", resp)
	}
}

func TestControlStatus(t *testing.T) {
	logger, ring := sessionlog.NewLogger(&strings.Builder{}, slog.LevelInfo, "text")
	path := writeConfig(t, t.TempDir(), shiftQConfig)
	a := NewApp(testSettings(t, path), ring)
	a.started = time.Now()
	if _, err := a.reload("startup"); err != nil {
		t.Fatal(err)
	}
	logger.Warn("[hook] something odd")
	a.interceptor.Handle(input.ModifierDown(input.LeftShift))

	text := a.executeControl(ipc.Request{Command: ipc.CommandStatus})
	for _, want := range []string{
		"table:      generation 2, 1 binds",
		"hook:       starting",
		"held:       left-shift",
		"events:     seen 1, blocked 0",
		"watch:      off",
		"reload:     startup",
		"[hook] something odd",
	} {
		if !strings.Contains(text.Stdout, want) {
			t.Fatalf("status output missing %q:\n%s", want, text.Stdout)
		}
	}

	raw := a.executeControl(ipc.Request{Command: ipc.CommandStatus, Args: []string{"json"}})
	var report statusReport
	if err := json.Unmarshal([]byte(raw.Stdout), &report); err != nil {
		t.Fatalf("status json: %v\n%s", err, raw.Stdout)
	}
	if report.Generation != 2 || report.Binds != 1 || report.Events.Seen != 1 || len(report.Warnings) != 1 {
		t.Fatalf("status report = %+v", report)
	}
}

func TestControlUnknownCommand(t *testing.T) {
	a := NewApp(testSettings(t, ""), nil)
	resp := a.executeControl(ipc.Request{Command: "shutdown"})
	if resp.ExitCode == 0 || !strings.Contains(resp.Stderr, `unknown command "shutdown"`) {
		t.Fatalf("executeControl(shutdown) = %+v", resp)
	}
}
