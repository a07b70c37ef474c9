//go:build !windows

package singleinstance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"

	"hotkeyd/internal/userutil"
)

// Lock holds an exclusive flock on a lock file.
type Lock struct {
	file *os.File
}

// TryLock takes a non-blocking exclusive lock on the file at name, creating
// it if needed, and records the holder's pid in it.
func TryLock(name string) (*Lock, error) {
	if name == "" {
		return nil, errors.New("lock name is required")
	}
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("flock %s: %w", name, err)
	}
	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}
	return &Lock{file: f}, nil
}

// Release drops the lock. Safe on a nil receiver and idempotent.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// DefaultName returns the per-user lock file path.
func DefaultName() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "hotkeyd.lock")
	}
	return filepath.Join(os.TempDir(), "hotkeyd-"+userutil.CurrentUsername()+".lock")
}
