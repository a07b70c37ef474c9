// Package interceptor decides, for every OS input event, whether the event
// reaches the rest of the system or is swallowed because it completed a bind.
package interceptor

import (
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"hotkeyd/internal/hotkeys"
	"hotkeyd/internal/input"
)

// Dispatcher hands a matched action off for execution. Dispatch must return
// quickly; the OS is waiting on the caller for a decision.
type Dispatcher interface {
	Dispatch(action hotkeys.Action)
}

// Stats is a point-in-time copy of the interceptor counters.
type Stats struct {
	Seen       uint64 `json:"seen"`
	Blocked    uint64 `json:"blocked"`
	Dispatched uint64 `json:"dispatched"`
	Panics     uint64 `json:"panics"`
}

// Interceptor is the per-event state machine. Handle must be called from a
// single goroutine (the hook context); Stats and HeldModifiers may be read
// from anywhere.
type Interceptor struct {
	store      *hotkeys.Store
	dispatcher Dispatcher
	tracker    hotkeys.Tracker

	held       atomic.Uint32
	seen       atomic.Uint64
	blocked    atomic.Uint64
	dispatched atomic.Uint64
	panics     atomic.Uint64
}

// New returns an interceptor reading binds from store and handing matches to d.
func New(store *hotkeys.Store, d Dispatcher) *Interceptor {
	if store == nil {
		store = hotkeys.NewStore(nil)
	}
	return &Interceptor{store: store, dispatcher: d}
}

// Handle classifies ev and returns the decision for the OS. It never panics;
// a recovered panic answers Pass so a faulty action cannot freeze input.
func (i *Interceptor) Handle(ev input.Event) (decision input.Decision) {
	i.seen.Add(1)
	defer func() {
		if r := recover(); r != nil {
			i.panics.Add(1)
			slog.Error("[interceptor] recovered from panic while handling event",
				"event", ev.Kind.String(),
				"panic", r,
				"stack", string(debug.Stack()),
			)
			decision = input.Pass
		}
	}()

	switch ev.Kind {
	case input.EventModifierDown:
		i.tracker.Press(ev.Modifier)
		i.held.Store(uint32(i.tracker.Snapshot()))
		return input.Pass
	case input.EventModifierUp:
		i.tracker.Release(ev.Modifier)
		i.held.Store(uint32(i.tracker.Snapshot()))
		return input.Pass
	case input.EventKeyDown:
		return i.handleKeyDown(ev)
	default:
		// Key releases pass even when the matching press was blocked.
		return input.Pass
	}
}

func (i *Interceptor) handleKeyDown(ev input.Event) input.Decision {
	held := i.tracker.Snapshot()
	if held.IsEmpty() {
		return input.Pass
	}
	bind := hotkeys.Bind{Modifiers: held, Key: ev.Key}
	action, ok := i.store.Current().Lookup(bind)
	if !ok {
		return input.Pass
	}
	slog.Debug("[interceptor] bind matched", "bind", bind.String(), "action", action.String(), "repeat", ev.Repeat)
	if i.dispatcher != nil {
		i.dispatcher.Dispatch(action)
		i.dispatched.Add(1)
	}
	i.blocked.Add(1)
	return input.Block
}

// HeldModifiers returns the modifier set as of the last handled event.
func (i *Interceptor) HeldModifiers() input.ModifierSet {
	return input.ModifierSet(i.held.Load())
}

// Stats returns the current counters.
func (i *Interceptor) Stats() Stats {
	return Stats{
		Seen:       i.seen.Load(),
		Blocked:    i.blocked.Load(),
		Dispatched: i.dispatched.Load(),
		Panics:     i.panics.Load(),
	}
}
