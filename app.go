package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"hotkeyd/internal/dispatch"
	"hotkeyd/internal/hook"
	"hotkeyd/internal/hotkeys"
	"hotkeyd/internal/interceptor"
	"hotkeyd/internal/ipc"
	"hotkeyd/internal/sessionlog"
	"hotkeyd/internal/settings"
	"hotkeyd/internal/singleinstance"
	"hotkeyd/internal/watcher"
)

var (
	newHookFn          = hook.New
	tryLockFn          = singleinstance.TryLock
	lockNameFn         = singleinstance.DefaultName
	newControlServerFn = ipc.NewServer
	newRunnerFn        = func(s settings.Settings) dispatch.Runner {
		return &dispatch.CommandRunner{Shell: s.Shell}
	}
)

// Hook states reported by status.
const (
	hookStarting = "starting"
	hookRunning  = "running"
	hookFailed   = "failed"
	hookStopped  = "stopped"
)

// App is the running daemon. All fields except the hook state and the reload
// bookkeeping are set before any goroutine starts and never reassigned.
type App struct {
	settings settings.Settings
	logRing  *sessionlog.Ring
	started  time.Time

	store       *hotkeys.Store
	interceptor *interceptor.Interceptor
	dispatcher  *dispatch.Dispatcher
	watcher     *watcher.Watcher
	control     *ipc.Server

	hookState atomic.Pointer[hookStatus]

	// reloadMu serializes reloads from the watcher and the control channel.
	reloadMu   sync.Mutex
	lastReload reloadResult
}

type hookStatus struct {
	State string
	Error string
}

type reloadResult struct {
	At     time.Time
	Reason string
	Error  string
}

// NewApp builds the daemon components without starting them.
func NewApp(s settings.Settings, ring *sessionlog.Ring) *App {
	a := &App{
		settings: s,
		logRing:  ring,
		store:    hotkeys.NewStore(nil),
	}
	a.dispatcher = dispatch.New(newRunnerFn(s), s.Dispatch)
	a.interceptor = interceptor.New(a.store, a.dispatcher)
	a.control = newControlServerFn(s.ControlEndpoint, ipc.ExecutorFunc(a.executeControl))
	a.setHookState(hookStarting, nil)
	return a
}

// Run starts every component and blocks until ctx is cancelled or, with
// ExitOnHookError, until the hook fails.
func (a *App) Run(ctx context.Context) error {
	a.started = time.Now()

	lock, err := tryLockFn(lockNameFn())
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		return fmt.Errorf("hotkeyd: %w", err)
	}
	if err != nil {
		slog.Warn("[app] single-instance lock failed, proceeding without it", "error", err)
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil {
			slog.Warn("[app] single-instance lock release failed", "error", releaseErr)
		}
	}()

	a.loadInitialTable()

	// cancel runs before wg.Wait on every return path.
	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.dispatcher.Start(ctx, &wg)
	// The watcher is set before the control server can read it.
	a.startWatcher(ctx, &wg)

	if err := a.control.Start(); err != nil {
		slog.Warn("[ipc] control channel unavailable", "endpoint", a.control.Endpoint(), "error", err)
	} else {
		defer a.control.Stop()
	}

	slog.Info("[app] hotkeyd started",
		"pid", os.Getpid(),
		"config", a.settings.ConfigPath,
		"overflow", a.settings.Dispatch.Overflow,
	)

	err = a.runHook(ctx)
	if err != nil && a.settings.ExitOnHookError {
		return err
	}
	<-ctx.Done()
	a.logShutdown()
	return nil
}

// runHook installs the platform hook and blocks while it captures. A hook
// failure is logged once and returned.
func (a *App) runHook(ctx context.Context) error {
	h := newHookFn(hook.Options{
		DevicePaths: a.settings.Devices,
		VirtualName: a.settings.VirtualName,
	})
	a.setHookState(hookRunning, nil)
	err := h.Run(ctx, a.interceptor.Handle)
	if err == nil {
		a.setHookState(hookStopped, nil)
		return nil
	}
	a.setHookState(hookFailed, err)
	if errors.Is(err, hook.ErrPermissionDenied) {
		slog.Error("[hook] input capture needs more privileges; no binds will fire", "error", err)
	} else {
		slog.Error("[hook] input capture failed; no binds will fire", "error", err)
	}
	if !a.settings.ExitOnHookError {
		slog.Info("[app] staying up without capture; reload and status still work")
	}
	return fmt.Errorf("input hook: %w", err)
}

func (a *App) startWatcher(ctx context.Context, wg *sync.WaitGroup) {
	if a.settings.ConfigPath == "" {
		return
	}
	w, err := watcher.New(a.settings.ConfigPath, a.settings.Debounce, func(string) {
		_, _ = a.reload("file changed")
	})
	if err != nil {
		slog.Warn("[config] cannot watch binding file", "path", a.settings.ConfigPath, "error", err)
		return
	}
	// Registered before Run returns to its caller so an edit right after
	// startup is not missed.
	if err := w.Start(); err != nil {
		slog.Warn("[config] cannot watch binding file", "path", a.settings.ConfigPath, "error", err)
		return
	}
	a.watcher = w
	wg.Go(func() {
		if err := w.Run(ctx); err != nil {
			slog.Warn("[config] binding file watcher stopped", "path", w.Path(), "error", err)
		}
	})
}

func (a *App) logShutdown() {
	st := a.dispatcher.Stats()
	slog.Info("[app] hotkeyd stopping",
		"pendingActions", st.Pending,
		"completed", st.Completed,
		"failed", st.Failed,
	)
}

func (a *App) setHookState(state string, err error) {
	s := &hookStatus{State: state}
	if err != nil {
		s.Error = err.Error()
	}
	a.hookState.Store(s)
}

func (a *App) currentHookState() hookStatus {
	if s := a.hookState.Load(); s != nil {
		return *s
	}
	return hookStatus{State: hookStarting}
}
