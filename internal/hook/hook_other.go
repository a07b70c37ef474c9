//go:build !linux && !windows && !(darwin && cgo)

package hook

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

type unsupportedHook struct{}

func newPlatformHook(Options) Hook {
	return unsupportedHook{}
}

func (unsupportedHook) Run(context.Context, Handler) error {
	return fmt.Errorf("input hook on %s: %w", runtime.GOOS, errors.ErrUnsupported)
}
