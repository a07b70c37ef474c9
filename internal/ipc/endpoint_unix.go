//go:build !windows

package ipc

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"time"

	"hotkeyd/internal/userutil"
)

// DefaultEndpoint returns a per-user socket path, preferring
// $XDG_RUNTIME_DIR.
func DefaultEndpoint() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "hotkeyd.sock")
	}
	return filepath.Join(os.TempDir(), "hotkeyd-"+userutil.CurrentUsername()+".sock")
}

// listen binds a unix socket readable only by its owner. A leftover socket
// file is removed unless another process still answers on it.
func listen(path string) (net.Listener, error) {
	if _, err := os.Lstat(path); err == nil {
		if conn, dialErr := net.DialTimeout("unix", path, 200*time.Millisecond); dialErr == nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s is in use by another process", path)
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("remove stale socket: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("restrict socket permissions: %w", err)
	}
	return listener, nil
}

func dial(path string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", path, timeout)
}
