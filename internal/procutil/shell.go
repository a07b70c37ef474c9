package procutil

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// ShellCommand returns a command that runs line through shell. An empty
// shell selects the platform default (DefaultShell). The command is not tied
// to any context; once started it runs to completion.
func ShellCommand(shell, line string) *exec.Cmd {
	shell = strings.TrimSpace(shell)
	if shell == "" {
		shell = DefaultShell()
	}
	cmd := exec.Command(shell, commandFlag(shell), line)
	hideWindow(cmd)
	return cmd
}

// commandFlag returns the flag that makes shell read its next argument as a
// command string.
func commandFlag(shell string) string {
	base := strings.ToLower(filepath.Base(shell))
	base = strings.TrimSuffix(base, ".exe")
	switch base {
	case "cmd":
		return "/C"
	case "powershell", "pwsh":
		return "-Command"
	default:
		return "-c"
	}
}
