//go:build windows

package procutil

import (
	"os"
	"os/exec"
	"syscall"
)

// DefaultShell honours %ComSpec% and falls back to cmd.exe.
func DefaultShell() string {
	if comspec := os.Getenv("ComSpec"); comspec != "" {
		return comspec
	}
	return "cmd.exe"
}

// hideWindow keeps any SysProcAttr fields already set on cmd.
func hideWindow(cmd *exec.Cmd) {
	if cmd == nil {
		return
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true
}
