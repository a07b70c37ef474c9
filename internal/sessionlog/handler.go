// Package sessionlog builds the daemon's slog logger and keeps the most
// recent warnings in memory so the status command can report them.
package sessionlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"
)

// Entry is one captured log record.
type Entry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
	// Source is the dot-separated slog group, empty at the top level.
	Source string `json:"source,omitempty"`
}

// EntryCallback receives records at or above the capture threshold.
type EntryCallback func(Entry)

// TeeHandler forwards every record to a base handler and also hands records
// at or above minLevel to a callback.
type TeeHandler struct {
	base     slog.Handler
	callback EntryCallback
	minLevel slog.Level
	group    string
}

// NewTeeHandler wraps base. A nil callback only delegates.
func NewTeeHandler(base slog.Handler, minLevel slog.Level, callback EntryCallback) *TeeHandler {
	return &TeeHandler{
		base:     base,
		callback: callback,
		minLevel: minLevel,
	}
}

// Enabled defers to the base handler.
func (h *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// Handle forwards the record, then runs the callback even if the base
// handler failed. The base error is returned.
func (h *TeeHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.base.Handle(ctx, record)

	if h.callback != nil && record.Level >= h.minLevel {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// stderr, not slog: logging here would re-enter this handler.
					fmt.Fprintf(os.Stderr, "[log] capture callback panicked: %v\n%s\n", r, debug.Stack())
				}
			}()
			h.callback(Entry{
				Time:    record.Time,
				Level:   record.Level.String(),
				Message: record.Message,
				Source:  h.group,
			})
		}()
	}
	return err
}

// WithAttrs applies attrs to the base handler.
func (h *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return &TeeHandler{
		base:     h.base.WithAttrs(attrs),
		callback: h.callback,
		minLevel: h.minLevel,
		group:    h.group,
	}
}

// WithGroup appends name to the accumulated group.
func (h *TeeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &TeeHandler{
		base:     h.base.WithGroup(name),
		callback: h.callback,
		minLevel: h.minLevel,
		group:    group,
	}
}
