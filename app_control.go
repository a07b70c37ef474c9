package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"hotkeyd/internal/dispatch"
	"hotkeyd/internal/interceptor"
	"hotkeyd/internal/ipc"
	"hotkeyd/internal/sessionlog"
)

// statusReport is the payload of the status command.
type statusReport struct {
	PID           int                `json:"pid"`
	Uptime        string             `json:"uptime"`
	ConfigPath    string             `json:"config_path,omitempty"`
	Generation    uint64             `json:"generation"`
	Binds         int                `json:"binds"`
	Hook          string             `json:"hook"`
	HookError     string             `json:"hook_error,omitempty"`
	HeldModifiers string             `json:"held_modifiers"`
	Events        interceptor.Stats  `json:"events"`
	Actions       dispatch.Stats     `json:"actions"`
	Overflow      string             `json:"overflow"`
	Watching      bool               `json:"watching"`
	FileChanges   uint64             `json:"file_changes"`
	LastReload    *reloadReport      `json:"last_reload,omitempty"`
	Warnings      []sessionlog.Entry `json:"warnings,omitempty"`
}

type reloadReport struct {
	At     time.Time `json:"at"`
	Reason string    `json:"reason"`
	Error  string    `json:"error,omitempty"`
}

func (a *App) executeControl(req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		return a.controlStatus(slices.Contains(req.Args, "json"))
	case ipc.CommandReload:
		gen, err := a.reload("control request")
		if err != nil {
			return ipc.Failure("reload failed: " + err.Error())
		}
		return ipc.Response{Stdout: fmt.Sprintf("reloaded: generation %d, %d binds\n", gen, a.store.Current().Len())}
	case ipc.CommandBinds:
		table, gen := a.store.Snapshot()
		var b strings.Builder
		fmt.Fprintf(&b, "generation %d, %d binds\n", gen, table.Len())
		for _, line := range describeTable(table) {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		return ipc.Response{Stdout: b.String()}
	default:
		return ipc.Failure(fmt.Sprintf("unknown command %q", req.Command))
	}
}

func (a *App) status() statusReport {
	table, gen := a.store.Snapshot()
	hs := a.currentHookState()
	report := statusReport{
		PID:           os.Getpid(),
		ConfigPath:    a.settings.ConfigPath,
		Generation:    gen,
		Binds:         table.Len(),
		Hook:          hs.State,
		HookError:     hs.Error,
		HeldModifiers: a.interceptor.HeldModifiers().String(),
		Events:        a.interceptor.Stats(),
		Actions:       a.dispatcher.Stats(),
		Overflow:      string(a.settings.Dispatch.Overflow),
	}
	if a.watcher != nil {
		report.Watching = true
		report.FileChanges = a.watcher.Fired()
	}
	if !a.started.IsZero() {
		report.Uptime = time.Since(a.started).Round(time.Second).String()
	}
	if last := a.lastReloadResult(); !last.At.IsZero() {
		report.LastReload = &reloadReport{At: last.At, Reason: last.Reason, Error: last.Error}
	}
	if a.logRing != nil {
		report.Warnings = a.logRing.Snapshot()
	}
	return report
}

func (a *App) controlStatus(asJSON bool) ipc.Response {
	report := a.status()
	if asJSON {
		raw, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return ipc.Failure("encode status: " + err.Error())
		}
		return ipc.Response{Stdout: string(raw) + "\n"}
	}
	return ipc.Response{Stdout: formatStatus(report)}
}

func formatStatus(r statusReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "pid:        %d\n", r.PID)
	if r.Uptime != "" {
		fmt.Fprintf(&b, "uptime:     %s\n", r.Uptime)
	}
	config := r.ConfigPath
	if config == "" {
		config = "(none)"
	}
	fmt.Fprintf(&b, "config:     %s\n", config)
	fmt.Fprintf(&b, "table:      generation %d, %d binds\n", r.Generation, r.Binds)
	if r.HookError != "" {
		fmt.Fprintf(&b, "hook:       %s (%s)\n", r.Hook, r.HookError)
	} else {
		fmt.Fprintf(&b, "hook:       %s\n", r.Hook)
	}
	held := r.HeldModifiers
	if held == "" {
		held = "(none)"
	}
	fmt.Fprintf(&b, "held:       %s\n", held)
	fmt.Fprintf(&b, "events:     seen %d, blocked %d, dispatched %d, panics %d\n",
		r.Events.Seen, r.Events.Blocked, r.Events.Dispatched, r.Events.Panics)
	fmt.Fprintf(&b, "actions:    queued %d, spawned %d, inlined %d, dropped %d, completed %d, failed %d, pending %d (overflow %s)\n",
		r.Actions.Queued, r.Actions.Spawned, r.Actions.Inlined, r.Actions.Dropped,
		r.Actions.Completed, r.Actions.Failed, r.Actions.Pending, r.Overflow)
	if r.Watching {
		fmt.Fprintf(&b, "watch:      on, %d file changes\n", r.FileChanges)
	} else {
		fmt.Fprintf(&b, "watch:      off\n")
	}
	if r.LastReload != nil {
		outcome := "ok"
		if r.LastReload.Error != "" {
			outcome = "rejected: " + r.LastReload.Error
		}
		fmt.Fprintf(&b, "reload:     %s at %s (%s)\n", r.LastReload.Reason, r.LastReload.At.Format(time.RFC3339), outcome)
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "warnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  %s %-5s %s\n", w.Time.Format(time.TimeOnly), w.Level, w.Message)
		}
	}
	return b.String()
}
