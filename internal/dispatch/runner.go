package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"hotkeyd/internal/hotkeys"
	"hotkeyd/internal/procutil"
	"hotkeyd/internal/userutil"
)

// maxLoggedOutput caps how much child output is copied into one log record.
const maxLoggedOutput = 4 << 10

// CommandRunner runs Command actions through a shell.
type CommandRunner struct {
	// Shell overrides the platform shell. Empty selects procutil.DefaultShell.
	Shell string
	// ConsoleUser resolves the value exported as USER. Nil uses
	// userutil.ConsoleUser.
	ConsoleUser func() (string, bool)
	// Environ returns the base environment. Nil uses os.Environ.
	Environ func() []string
}

// Run executes action and waits for it to exit. The child is never killed.
func (r *CommandRunner) Run(action hotkeys.Action) error {
	switch a := action.(type) {
	case hotkeys.Command:
		return r.runCommand(a)
	default:
		return fmt.Errorf("unsupported action %s", action)
	}
}

func (r *CommandRunner) runCommand(c hotkeys.Command) error {
	jobID := uuid.NewString()
	cmd := procutil.ShellCommand(r.Shell, c.Text)
	cmd.Env = r.environment()

	slog.Debug("[dispatch] running command", "job", jobID, "command", c.Text)
	started := time.Now()
	out, err := cmd.CombinedOutput()
	elapsed := time.Since(started)

	attrs := []any{"job", jobID, "command", c.Text, "elapsed", elapsed}
	if len(out) > 0 {
		attrs = append(attrs, "output", truncateOutput(out))
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			attrs = append(attrs, "exitCode", exitErr.ExitCode())
			slog.Warn("[dispatch] command exited with failure", attrs...)
			return fmt.Errorf("command %q: %w", c.Text, err)
		}
		slog.Warn("[dispatch] command could not be started", append(attrs, "error", err)...)
		return fmt.Errorf("start command %q: %w", c.Text, err)
	}
	slog.Info("[dispatch] command finished", attrs...)
	return nil
}

func (r *CommandRunner) environment() []string {
	environ := os.Environ
	if r.Environ != nil {
		environ = r.Environ
	}
	lookup := userutil.ConsoleUser
	if r.ConsoleUser != nil {
		lookup = r.ConsoleUser
	}
	env := environ()
	name, ok := lookup()
	if !ok {
		slog.Warn("[dispatch] console user unknown, USER left as inherited")
		return env
	}
	return withEnv(env, "USER", name)
}

// withEnv returns env with key set to value, replacing any existing entry.
func withEnv(env []string, key, value string) []string {
	prefix := key + "="
	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			continue
		}
		out = append(out, kv)
	}
	return append(out, prefix+value)
}

func truncateOutput(out []byte) string {
	s := strings.TrimRight(string(out), "\r\n")
	if len(s) > maxLoggedOutput {
		return s[:maxLoggedOutput] + "...(truncated)"
	}
	return s
}
