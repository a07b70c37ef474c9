//go:build !windows

package procutil

import "os/exec"

// DefaultShell is the POSIX shell.
func DefaultShell() string { return "/bin/sh" }

func hideWindow(_ *exec.Cmd) {}
