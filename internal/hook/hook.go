// Package hook installs the OS-level input hook. Every captured event is
// translated into an input.Event, handed to a Handler on one serial context,
// and suppressed when the handler answers input.Block.
package hook

import (
	"context"
	"errors"

	"hotkeyd/internal/input"
)

// ErrPermissionDenied means the process lacks the privilege to capture input
// (input group or root on Linux, Accessibility on macOS).
var ErrPermissionDenied = errors.New("input hook: permission denied")

// ErrAlreadyRunning is returned when a second hook is started in one process.
var ErrAlreadyRunning = errors.New("input hook: already running")

// Handler decides the fate of one event. It is always called from the same
// goroutine and must return promptly.
type Handler func(ev input.Event) input.Decision

// Hook captures input until its context is cancelled.
type Hook interface {
	// Run blocks until ctx is cancelled (returning nil) or the hook fails.
	Run(ctx context.Context, handle Handler) error
}

// Options tunes the platform hook. Fields a platform does not use are ignored.
type Options struct {
	// DevicePaths restricts Linux capture to these event devices. Empty means
	// every device that looks like a keyboard.
	DevicePaths []string
	// VirtualName names the Linux uinput device that re-emits passed events.
	VirtualName string
}

// DefaultVirtualName is the uinput device name used when Options leaves it
// empty.
const DefaultVirtualName = "hotkeyd virtual keyboard"

// New returns the hook for the running platform.
func New(opts Options) Hook {
	if opts.VirtualName == "" {
		opts.VirtualName = DefaultVirtualName
	}
	return newPlatformHook(opts)
}
