//go:build !windows

package userutil

import (
	"log/slog"
	"os"
	"os/user"
	"strconv"
	"strings"
	"syscall"
)

// consoleDevice is owned by whoever is logged in at the physical console.
const consoleDevice = "/dev/console"

// ConsoleUser returns the login name of the user at the console. The daemon
// usually runs as root to reach the input devices, so the owner of the
// console device is used first, then SUDO_USER, then the process user.
func ConsoleUser() (string, bool) {
	if name, ok := ownerOf(consoleDevice); ok {
		return name, true
	}
	if name := strings.TrimSpace(os.Getenv("SUDO_USER")); name != "" {
		return name, true
	}
	u, err := user.Current()
	if err != nil {
		slog.Warn("[user] cannot resolve the current user", "error", err)
		return "", false
	}
	return u.Username, true
}

func ownerOf(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("[user] stat console device failed", "path", path, "error", err)
		return "", false
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", false
	}
	// A root-owned console means nobody is logged in graphically.
	if st.Uid == 0 {
		return "", false
	}
	u, err := user.LookupId(strconv.FormatUint(uint64(st.Uid), 10))
	if err != nil {
		slog.Debug("[user] lookup console owner failed", "uid", st.Uid, "error", err)
		return "", false
	}
	return u.Username, true
}
