// Package watcher reports changes to a single file. It watches the parent
// directory so editors that save by writing a temp file and renaming it over
// the original are still seen, and collapses bursts of events into one
// notification after a quiet period.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before onChange
// runs.
const DefaultDebounce = time.Second

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watcher calls onChange after path is modified, created, replaced or removed.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(path string)

	fsw   *fsnotify.Watcher
	fired atomic.Uint64
}

// New returns a watcher for path. A debounce of zero selects DefaultDebounce.
func New(path string, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watcher: onChange is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watcher: resolve %q: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{path: filepath.Clean(abs), debounce: debounce, onChange: onChange}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Fired returns how many times onChange has run.
func (w *Watcher) Fired() uint64 { return w.fired.Load() }

// Start registers the watch. Changes made after Start returns are seen
// once Run is looping, even if they happen before Run is called.
func (w *Watcher) Start() error {
	if w.fsw != nil {
		return errors.New("watcher: already started")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: create: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watcher: watch %q: %w", dir, err)
	}
	w.fsw = fsw
	slog.Info("[config] watching binding file", "path", w.path, "debounce", w.debounce)
	return nil
}

// Run delivers notifications until ctx is cancelled, calling Start first if
// needed. It returns an error only when the watch cannot be established.
func (w *Watcher) Run(ctx context.Context) error {
	if w.fsw == nil {
		if err := w.Start(); err != nil {
			return err
		}
	}
	fsw := w.fsw
	defer fsw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&relevantOps == 0 {
				continue
			}
			slog.Debug("[config] binding file event", "op", ev.Op.String(), "path", ev.Name)
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("[config] watcher error", "path", w.path, "error", err)
		case <-timer.C:
			w.fired.Add(1)
			w.onChange(w.path)
		}
	}
}
