//go:build windows

package singleinstance

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"

	"hotkeyd/internal/userutil"
)

// Lock holds a named mutex handle.
type Lock struct {
	handle windows.Handle
}

// TryLock acquires the named mutex or returns ErrAlreadyRunning.
func TryLock(name string) (*Lock, error) {
	if name == "" {
		return nil, errors.New("lock name is required")
	}
	nameUTF16, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("invalid mutex name %q: %w", name, err)
	}
	h, err := windows.CreateMutex(nil, true, nameUTF16)
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		if h != 0 {
			windows.CloseHandle(h)
		}
		return nil, ErrAlreadyRunning
	}
	if err != nil {
		if h != 0 {
			windows.CloseHandle(h)
		}
		return nil, fmt.Errorf("CreateMutex %q: %w", name, err)
	}
	return &Lock{handle: h}, nil
}

// Release closes the mutex handle. Safe on a nil receiver and idempotent.
func (l *Lock) Release() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(l.handle)
	l.handle = 0
	return err
}

// DefaultName returns the per-session mutex name.
func DefaultName() string {
	return `Local\hotkeyd-` + userutil.CurrentUsername()
}
