package main

import (
	"errors"
	"log/slog"
	"time"

	"hotkeyd/internal/config"
	"hotkeyd/internal/hotkeys"
)

var loadTableFn = config.LoadTable

var errNoBindingFile = errors.New("no binding file configured (set --config or HOTKEYD_CONFIG)")

// loadInitialTable publishes the startup table. A missing or broken file
// leaves the daemon running with no binds.
func (a *App) loadInitialTable() {
	if a.settings.ConfigPath == "" {
		slog.Info("[config] no binding file configured, starting with an empty table")
		return
	}
	if _, err := a.reload("startup"); err != nil {
		slog.Warn("[config] starting with an empty table", "path", a.settings.ConfigPath)
	}
}

// reload rebuilds the table from the binding file and publishes it. On any
// failure the current table stays in place.
func (a *App) reload(reason string) (uint64, error) {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	path := a.settings.ConfigPath
	result := reloadResult{At: time.Now(), Reason: reason}
	defer func() { a.lastReload = result }()

	if path == "" {
		result.Error = errNoBindingFile.Error()
		return 0, errNoBindingFile
	}

	table, err := loadTableFn(path)
	if err != nil {
		result.Error = err.Error()
		_, gen := a.store.Snapshot()
		slog.Warn("[config] binding file rejected, keeping the current table",
			"path", path,
			"reason", reason,
			"generation", gen,
			"error", err,
		)
		return 0, err
	}

	gen := a.store.Replace(table)
	slog.Info("[config] binding table replaced",
		"path", path,
		"reason", reason,
		"generation", gen,
		"binds", table.Len(),
	)
	return gen, nil
}

func (a *App) lastReloadResult() reloadResult {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()
	return a.lastReload
}

// describeTable renders one line per bind in canonical order.
func describeTable(t *hotkeys.Table) []string {
	entries := t.Entries()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Bind.String()+"\t"+e.Action.String())
	}
	return lines
}
