package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"hotkeyd/internal/dispatch"
	"hotkeyd/internal/hook"
	"hotkeyd/internal/hotkeys"
	"hotkeyd/internal/input"
	"hotkeyd/internal/settings"
	"hotkeyd/internal/singleinstance"
)

const shiftQConfig = `
[binds]
"left-shift + q" = { type = "cmd", command = "echo hi" }
`

func swap[T any](t *testing.T, target *T, value T) {
	t.Helper()
	old := *target
	*target = value
	t.Cleanup(func() { *target = old })
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "hotkeyd.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

type recordingRunner struct {
	mu      sync.Mutex
	actions []hotkeys.Action
}

func (r *recordingRunner) Run(a hotkeys.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
	return nil
}

func (r *recordingRunner) ran() []hotkeys.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hotkeys.Action(nil), r.actions...)
}

// fakeHook replays events once, records the decisions, then waits for
// cancellation. A non-nil err is returned immediately instead.
type fakeHook struct {
	events    []input.Event
	err       error
	decisions chan []input.Decision
}

func (h *fakeHook) Run(ctx context.Context, handle hook.Handler) error {
	if h.err != nil {
		return h.err
	}
	got := make([]input.Decision, 0, len(h.events))
	for _, ev := range h.events {
		got = append(got, handle(ev))
	}
	h.decisions <- got
	<-ctx.Done()
	return nil
}

// stubDaemon replaces the OS-facing seams and returns the runner that
// receives dispatched actions.
func stubDaemon(t *testing.T, h hook.Hook) *recordingRunner {
	t.Helper()
	runner := &recordingRunner{}
	swap(t, &newHookFn, func(hook.Options) hook.Hook { return h })
	swap(t, &tryLockFn, func(string) (*singleinstance.Lock, error) { return nil, nil })
	swap(t, &newRunnerFn, func(settings.Settings) dispatch.Runner { return runner })
	return runner
}

func testSettings(t *testing.T, configPath string) settings.Settings {
	t.Helper()
	return settings.Settings{
		ConfigPath:      configPath,
		ControlEndpoint: testControlEndpoint(t),
		Debounce:        20 * time.Millisecond,
		Dispatch:        dispatch.Options{Overflow: dispatch.OverflowSpawn},
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
