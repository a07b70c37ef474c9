package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hotkeyd/internal/hook"
	"hotkeyd/internal/hotkeys"
	"hotkeyd/internal/input"
	"hotkeyd/internal/ipc"
	"hotkeyd/internal/singleinstance"
)

func startApp(t *testing.T, a *App) (cancel func() error) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	return func() error {
		stop()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("Run() did not return after cancel")
			return nil
		}
	}
}

func TestRunDispatchesMatchedBind(t *testing.T) {
	h := &fakeHook{
		events: []input.Event{
			input.ModifierDown(input.LeftShift),
			input.KeyDown(input.KeyQ),
			input.KeyUp(input.KeyQ),
			input.ModifierUp(input.LeftShift),
		},
		decisions: make(chan []input.Decision, 1),
	}
	runner := stubDaemon(t, h)
	path := writeConfig(t, t.TempDir(), shiftQConfig)
	a := NewApp(testSettings(t, path), nil)
	stop := startApp(t, a)

	var got []input.Decision
	select {
	case got = <-h.decisions:
	case <-time.After(5 * time.Second):
		t.Fatal("hook never ran")
	}
	want := []input.Decision{input.Pass, input.Block, input.Pass, input.Pass}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("decisions = %v, want %v", got, want)
	}
	waitFor(t, "the action to run", func() bool { return len(runner.ran()) == 1 })
	if action := runner.ran()[0]; action != (hotkeys.Command{Text: "echo hi"}) {
		t.Fatalf("ran %v, want echo hi", action)
	}

	resp, err := ipc.Send(a.settings.ControlEndpoint, ipc.Request{Command: ipc.CommandStatus})
	if err != nil {
		t.Fatalf("status over the control channel: %v", err)
	}
	if !strings.Contains(resp.Stdout, "hook:       running") || !strings.Contains(resp.Stdout, "dispatched 1") {
		t.Fatalf("status = %s", resp.Stdout)
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if st := a.currentHookState(); st.State != hookStopped {
		t.Fatalf("hook state after stop = %q", st.State)
	}
}

func TestRunReloadsWhenFileChanges(t *testing.T) {
	h := &fakeHook{decisions: make(chan []input.Decision, 1)}
	stubDaemon(t, h)
	path := writeConfig(t, t.TempDir(), shiftQConfig)
	a := NewApp(testSettings(t, path), nil)
	stop := startApp(t, a)
	defer stop()
	<-h.decisions

	writeConfig(t, filepath.Dir(path), shiftQConfig+`"left-ctrl + f5" = { type = "cmd", command = "make" }
`)
	waitFor(t, "the watcher reload", func() bool { return a.store.Current().Len() == 2 })
	if st := a.status(); !st.Watching || st.FileChanges == 0 {
		t.Fatalf("status() watching = %v, file changes = %d, want a counted change", st.Watching, st.FileChanges)
	}
}

func TestRunHookFailure(t *testing.T) {
	tests := []struct {
		name        string
		exitOnError bool
	}{
		{name: "exit on hook error", exitOnError: true},
		{name: "stay idle", exitOnError: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubDaemon(t, &fakeHook{err: fmt.Errorf("open /dev/input/event3: %w", hook.ErrPermissionDenied)})
			s := testSettings(t, "")
			s.ExitOnHookError = tt.exitOnError
			a := NewApp(s, nil)

			if tt.exitOnError {
				err := a.Run(context.Background())
				if !errors.Is(err, hook.ErrPermissionDenied) {
					t.Fatalf("Run() error = %v, want ErrPermissionDenied", err)
				}
				return
			}

			stop := startApp(t, a)
			waitFor(t, "the hook failure", func() bool { return a.currentHookState().State == hookFailed })
			resp, err := ipc.Send(s.ControlEndpoint, ipc.Request{Command: ipc.CommandStatus})
			if err != nil {
				t.Fatalf("control channel down while idle: %v", err)
			}
			if !strings.Contains(resp.Stdout, "permission denied") {
				t.Fatalf("status does not report the hook error:\n%s", resp.Stdout)
			}
			if err := stop(); err != nil {
				t.Fatalf("Run() error = %v, want nil after idle shutdown", err)
			}
		})
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	stubDaemon(t, &fakeHook{})
	swap(t, &tryLockFn, func(string) (*singleinstance.Lock, error) {
		return nil, singleinstance.ErrAlreadyRunning
	})
	err := NewApp(testSettings(t, ""), nil).Run(context.Background())
	if !errors.Is(err, singleinstance.ErrAlreadyRunning) {
		t.Fatalf("Run() error = %v, want ErrAlreadyRunning", err)
	}
}
