// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
)

// syncBuffer lets loggers on several goroutines write into one buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// LogBuffer is the captured output of CaptureLogBuffer.
type LogBuffer struct {
	sb *syncBuffer
}

// String returns everything logged so far.
func (l *LogBuffer) String() string {
	l.sb.mu.Lock()
	defer l.sb.mu.Unlock()
	return l.sb.buf.String()
}

// CaptureLogBuffer redirects the default slog logger to an in-memory buffer and
// restores the original logger in t.Cleanup. Tests using it must not run in
// parallel.
func CaptureLogBuffer(t *testing.T, level slog.Level) *LogBuffer {
	t.Helper()
	originalLogger := slog.Default()
	sb := &syncBuffer{}
	slog.SetDefault(slog.New(slog.NewTextHandler(sb, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() {
		slog.SetDefault(originalLogger)
	})
	return &LogBuffer{sb: sb}
}
