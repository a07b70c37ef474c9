// Package dispatch runs matched actions away from the hook context. Dispatch
// hands an action to a bounded queue drained by supervised workers and never
// waits longer than the configured handoff timeout.
package dispatch

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"hotkeyd/internal/hotkeys"
	"hotkeyd/internal/workerutil"
)

const (
	DefaultQueueDepth     = 16
	DefaultWorkers        = 1
	DefaultHandoffTimeout = 5 * time.Millisecond
)

// Runner executes one action. Errors are logged by the dispatcher and never
// retried.
type Runner interface {
	Run(action hotkeys.Action) error
}

// Options configures a Dispatcher. Zero values select the defaults.
type Options struct {
	QueueDepth     int
	Workers        int
	HandoffTimeout time.Duration
	Overflow       OverflowPolicy
}

func (o Options) withDefaults() Options {
	if o.QueueDepth <= 0 {
		o.QueueDepth = DefaultQueueDepth
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.HandoffTimeout < 0 {
		o.HandoffTimeout = 0
	}
	if o.Overflow == "" {
		o.Overflow = OverflowSpawn
	}
	return o
}

// Stats counts what happened to dispatched actions.
type Stats struct {
	Queued    uint64 `json:"queued"`
	Spawned   uint64 `json:"spawned"`
	Inlined   uint64 `json:"inlined"`
	Dropped   uint64 `json:"dropped"`
	Completed uint64 `json:"completed"`
	Failed    uint64 `json:"failed"`
	Pending   int    `json:"pending"`
}

// Dispatcher owns the action queue and its workers.
type Dispatcher struct {
	runner Runner
	opts   Options
	queue  chan hotkeys.Action

	queued    atomic.Uint64
	spawned   atomic.Uint64
	inlined   atomic.Uint64
	dropped   atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
}

// New creates a dispatcher. Actions dispatched before Start wait in the queue.
func New(runner Runner, opts Options) *Dispatcher {
	opts = opts.withDefaults()
	return &Dispatcher{
		runner: runner,
		opts:   opts,
		queue:  make(chan hotkeys.Action, opts.QueueDepth),
	}
}

// Start launches the workers. They stop when ctx is cancelled; wg tracks them.
func (d *Dispatcher) Start(ctx context.Context, wg *sync.WaitGroup) {
	for n := range d.opts.Workers {
		name := "dispatch-" + strconv.Itoa(n)
		workerutil.Supervise(ctx, wg, name, d.work, workerutil.Policy{
			OnGiveUp: func(name string) {
				slog.Error("[dispatch] worker stopped permanently", "worker", name)
			},
		})
	}
	slog.Info("[dispatch] workers started",
		"workers", d.opts.Workers,
		"queueDepth", d.opts.QueueDepth,
		"handoffTimeout", d.opts.HandoffTimeout,
		"overflow", string(d.opts.Overflow),
	)
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case action := <-d.queue:
			d.execute(action)
		}
	}
}

// Dispatch hands action off for execution. It returns after a successful
// enqueue, or after the handoff timeout once the overflow policy is applied.
func (d *Dispatcher) Dispatch(action hotkeys.Action) {
	select {
	case d.queue <- action:
		d.queued.Add(1)
		return
	default:
	}

	if d.opts.HandoffTimeout > 0 {
		timer := time.NewTimer(d.opts.HandoffTimeout)
		select {
		case d.queue <- action:
			timer.Stop()
			d.queued.Add(1)
			return
		case <-timer.C:
		}
	}

	switch d.opts.Overflow {
	case OverflowInline:
		slog.Warn("[dispatch] queue full, running action inline", "action", action.String())
		d.inlined.Add(1)
		d.execute(action)
	case OverflowDrop:
		slog.Warn("[dispatch] queue full, dropping action", "action", action.String())
		d.dropped.Add(1)
	default:
		slog.Warn("[dispatch] queue full, running action on a new goroutine", "action", action.String())
		d.spawned.Add(1)
		go d.execute(action)
	}
}

func (d *Dispatcher) execute(action hotkeys.Action) {
	var err error
	panicked := workerutil.Guard("dispatch-action", func() {
		err = d.runner.Run(action)
	})
	if panicked || err != nil {
		d.failed.Add(1)
		if err != nil {
			slog.Warn("[dispatch] action failed", "action", action.String(), "error", err)
		}
		return
	}
	d.completed.Add(1)
}

// Stats returns the current counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Queued:    d.queued.Load(),
		Spawned:   d.spawned.Load(),
		Inlined:   d.inlined.Load(),
		Dropped:   d.dropped.Load(),
		Completed: d.completed.Load(),
		Failed:    d.failed.Load(),
		Pending:   len(d.queue),
	}
}
