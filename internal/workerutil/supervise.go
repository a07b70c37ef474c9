// Package workerutil runs long-lived background loops and one-off jobs so a
// panic in them is logged instead of taking the daemon down.
package workerutil

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

const (
	defaultInitialBackoff = 100 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second
	defaultMaxRestarts    = 10
)

// Policy controls how Supervise restarts a loop after a panic.
// Zero fields fall back to 100ms, 5s and 10 restarts.
type Policy struct {
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxRestarts    int

	// OnPanic runs after every recovered panic. restart is 1-based. May be nil.
	OnPanic func(name string, restart int)
	// OnGiveUp runs once when MaxRestarts is exhausted. May be nil.
	OnGiveUp func(name string)
}

func (p Policy) withDefaults() Policy {
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = defaultInitialBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = defaultMaxBackoff
	}
	if p.MaxBackoff < p.InitialBackoff {
		slog.Warn("[worker] max backoff below initial backoff, clamping",
			"initial", p.InitialBackoff, "max", p.MaxBackoff)
		p.MaxBackoff = p.InitialBackoff
	}
	if p.MaxRestarts <= 0 {
		p.MaxRestarts = defaultMaxRestarts
	}
	return p
}

// Supervise starts fn on a goroutine tracked by wg and restarts it with
// exponential backoff whenever it panics. A normal return, or a cancelled
// ctx, ends supervision.
func Supervise(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context), p Policy) {
	p = p.withDefaults()
	wg.Go(func() {
		supervise(ctx, name, fn, p)
	})
}

func supervise(ctx context.Context, name string, fn func(ctx context.Context), p Policy) {
	delay := p.InitialBackoff
	for restart := 1; ; restart++ {
		if !Guard(name, func() { fn(ctx) }) || ctx.Err() != nil {
			return
		}
		if p.OnPanic != nil {
			p.OnPanic(name, restart)
		}
		if restart >= p.MaxRestarts {
			slog.Error("[worker] giving up after repeated panics", "worker", name, "restarts", restart)
			if p.OnGiveUp != nil {
				p.OnGiveUp(name)
			}
			return
		}

		slog.Warn("[worker] restarting after panic", "worker", name, "delay", delay, "restart", restart)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		delay = nextBackoff(delay, p.MaxBackoff)
	}
}

// Guard runs fn and reports whether it panicked. The panic value and stack
// are logged under name.
func Guard(name string, fn func()) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[worker] recovered from panic",
				"worker", name,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			panicked = true
		}
	}()
	fn()
	return false
}

// nextBackoff doubles current, capped at limit and guarded against overflow.
func nextBackoff(current, limit time.Duration) time.Duration {
	if current <= 0 {
		return defaultInitialBackoff
	}
	next := current * 2
	if next > limit || next < current {
		return limit
	}
	return next
}
