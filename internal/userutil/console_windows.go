//go:build windows

package userutil

import (
	"log/slog"
	"os"
	"os/user"
	"strings"
)

// ConsoleUser returns the user the daemon runs as. A low-level keyboard hook
// only sees input of its own desktop session, so that user is the console
// user.
func ConsoleUser() (string, bool) {
	u, err := user.Current()
	if err == nil && u.Username != "" {
		return stripDomain(u.Username), true
	}
	if name := strings.TrimSpace(os.Getenv("USERNAME")); name != "" {
		return name, true
	}
	slog.Warn("[user] cannot resolve the current user", "error", err)
	return "", false
}
