package sessionlog

import (
	"io"
	"log/slog"
)

// NewLogger builds a text or JSON logger writing to w at level. Warnings
// and errors are also kept in the returned ring.
func NewLogger(w io.Writer, level slog.Level, format string) (*slog.Logger, *Ring) {
	opts := &slog.HandlerOptions{Level: level}
	var base slog.Handler
	if format == "json" {
		base = slog.NewJSONHandler(w, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}
	ring := NewRing(DefaultRingSize)
	return slog.New(NewTeeHandler(base, slog.LevelWarn, ring.Add)), ring
}
