package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"hotkeyd/internal/config"
	"hotkeyd/internal/input"
	"hotkeyd/internal/ipc"
	"hotkeyd/internal/sessionlog"
	"hotkeyd/internal/settings"
)

// cliState carries what the persistent pre-run resolved to the subcommands.
type cliState struct {
	settings settings.Settings
	logRing  *sessionlog.Ring
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:   "hotkeyd",
		Short: "System-wide hotkey daemon",
		Long: `hotkeyd watches every key press at the OS level and runs a shell command
when a configured combination such as "left-shift + q" is pressed. Matched
presses are swallowed; everything else passes through untouched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.resolve(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context(), state)
		},
	}
	settings.RegisterGlobalFlags(root.PersistentFlags())
	settings.RegisterRunFlags(root.Flags())

	run := &cobra.Command{
		Use:   "run",
		Short: "Start the daemon (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context(), state)
		},
	}
	settings.RegisterRunFlags(run.Flags())

	root.AddCommand(
		run,
		newCheckCmd(state),
		newControlCmd(state, ipc.CommandStatus, "Show the state of the running daemon"),
		newControlCmd(state, ipc.CommandReload, "Re-read the binding file now"),
		newControlCmd(state, ipc.CommandBinds, "List the binds the running daemon uses"),
		newKeysCmd(),
	)
	return root
}

func (s *cliState) resolve(cmd *cobra.Command) error {
	resolved, err := settings.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger, ring := sessionlog.NewLogger(cmd.ErrOrStderr(), resolved.LogLevel, resolved.LogFormat)
	slog.SetDefault(logger)
	s.settings = resolved
	s.logRing = ring
	return nil
}

func runDaemon(ctx context.Context, state *cliState) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewApp(state.settings, state.logRing).Run(ctx)
}

func newCheckCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "check [path]",
		Short: "Validate a binding file and print its canonical table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := state.settings.ConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errNoBindingFile
			}
			table, err := loadTableFn(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range describeTable(table) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "%s: %d binds OK (%s)\n", path, table.Len(), config.FormatFor(path))
			return nil
		},
	}
}

func newControlCmd(state *cliState, command, short string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   command,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := ipc.Request{Command: command}
			if asJSON {
				req.Args = []string{"json"}
			}
			return sendControl(cmd.OutOrStdout(), cmd.ErrOrStderr(), state.settings.ControlEndpoint, req)
		},
	}
	if command == ipc.CommandStatus {
		cmd.Flags().BoolVar(&asJSON, "json", false, "print the status as JSON")
	}
	return cmd
}

var errDaemonFailed = errors.New("daemon reported an error")

func sendControl(stdout, stderr io.Writer, endpoint string, req ipc.Request) error {
	resp, err := ipc.Send(endpoint, req)
	if ipc.IsConnectionError(err) {
		return fmt.Errorf("hotkeyd is not running at %s: %w", endpoint, err)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", req.Command, err)
	}
	io.WriteString(stdout, resp.Stdout)
	io.WriteString(stderr, resp.Stderr)
	if resp.ExitCode != 0 {
		return fmt.Errorf("%s: %w", req.Command, errDaemonFailed)
	}
	return nil
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the modifier and key names a bind may use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "modifiers:")
			for _, m := range input.Modifiers() {
				fmt.Fprintf(out, "  %s\n", strings.Join(input.ModifierAliases(m), ", "))
			}
			fmt.Fprintln(out, "keys:")
			for _, k := range input.Keys() {
				fmt.Fprintf(out, "  %s\n", strings.Join(input.KeyAliases(k), ", "))
			}
			return nil
		},
	}
}
