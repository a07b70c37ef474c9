// Package settings resolves daemon settings from command-line flags and
// HOTKEYD_* environment variables. Flags set explicitly win over the
// environment, which wins over flag defaults.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"hotkeyd/internal/dispatch"
	"hotkeyd/internal/ipc"
	"hotkeyd/internal/watcher"
)

// EnvPrefix prefixes every environment variable, e.g. HOTKEYD_CONFIG.
const EnvPrefix = "HOTKEYD"

// Setting keys. They double as flag names.
const (
	KeyConfig          = "config"
	KeyLogLevel        = "log-level"
	KeyLogFormat       = "log-format"
	KeyShell           = "shell"
	KeyDispatchQueue   = "dispatch-queue"
	KeyDispatchWorkers = "dispatch-workers"
	KeyHandoffTimeout  = "handoff-timeout"
	KeyOverflow        = "dispatch-overflow"
	KeyDebounce        = "debounce"
	KeyControl         = "control"
	KeyExitOnHookError = "exit-on-hook-error"
	KeyDevice          = "device"
	KeyVirtualName     = "virtual-name"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Settings is the resolved, validated daemon configuration.
type Settings struct {
	ConfigPath      string
	LogLevel        slog.Level
	LogFormat       string
	Shell           string
	Dispatch        dispatch.Options
	Debounce        time.Duration
	ControlEndpoint string
	ExitOnHookError bool
	Devices         []string
	VirtualName     string
}

// RegisterGlobalFlags adds the flags every command understands.
func RegisterGlobalFlags(fs *pflag.FlagSet) {
	fs.String(KeyConfig, "", "binding file (TOML, or YAML by extension); empty loads no binds")
	fs.String(KeyLogLevel, "info", "log level: debug, info, warn or error")
	fs.String(KeyLogFormat, LogFormatText, "log format: text or json")
	fs.String(KeyControl, ipc.DefaultEndpoint(), "control socket or named pipe")
}

// RegisterRunFlags adds the daemon-only flags.
func RegisterRunFlags(fs *pflag.FlagSet) {
	fs.String(KeyShell, "", "shell used to run commands (default /bin/sh, cmd.exe on Windows)")
	fs.Int(KeyDispatchQueue, dispatch.DefaultQueueDepth, "capacity of the action queue")
	fs.Int(KeyDispatchWorkers, dispatch.DefaultWorkers, "number of action workers")
	fs.Duration(KeyHandoffTimeout, dispatch.DefaultHandoffTimeout, "longest wait for queue room before the overflow policy applies")
	fs.String(KeyOverflow, string(dispatch.OverflowSpawn), "when the queue stays full: spawn, inline or drop")
	fs.Duration(KeyDebounce, watcher.DefaultDebounce, "quiet period before a changed binding file is reloaded")
	fs.Bool(KeyExitOnHookError, false, "exit instead of idling when the input hook cannot be installed")
	fs.StringSlice(KeyDevice, nil, "Linux: capture only these /dev/input/event* devices")
	fs.String(KeyVirtualName, "", "Linux: name of the uinput device that re-emits passed keys")
}

// NewViper binds fs to a viper instance reading HOTKEYD_* variables.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}
	return v, nil
}

// Load resolves settings from fs and the environment.
func Load(fs *pflag.FlagSet) (Settings, error) {
	v, err := NewViper(fs)
	if err != nil {
		return Settings{}, err
	}
	return Resolve(v)
}

// Resolve reads and validates every setting from v. All problems are
// reported together.
func Resolve(v *viper.Viper) (Settings, error) {
	s := Settings{
		ConfigPath:      strings.TrimSpace(v.GetString(KeyConfig)),
		LogFormat:       strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
		Shell:           strings.TrimSpace(v.GetString(KeyShell)),
		Debounce:        v.GetDuration(KeyDebounce),
		ControlEndpoint: strings.TrimSpace(v.GetString(KeyControl)),
		ExitOnHookError: v.GetBool(KeyExitOnHookError),
		Devices:         v.GetStringSlice(KeyDevice),
		VirtualName:     strings.TrimSpace(v.GetString(KeyVirtualName)),
		Dispatch: dispatch.Options{
			QueueDepth:     v.GetInt(KeyDispatchQueue),
			Workers:        v.GetInt(KeyDispatchWorkers),
			HandoffTimeout: v.GetDuration(KeyHandoffTimeout),
		},
	}

	var errs []error
	if err := s.LogLevel.UnmarshalText([]byte(orDefault(v.GetString(KeyLogLevel), "info"))); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyLogLevel, err))
	}
	if s.LogFormat == "" {
		s.LogFormat = LogFormatText
	}
	if s.LogFormat != LogFormatText && s.LogFormat != LogFormatJSON {
		errs = append(errs, fmt.Errorf("%s: unknown format %q (want text or json)", KeyLogFormat, s.LogFormat))
	}
	if v.IsSet(KeyDispatchQueue) && s.Dispatch.QueueDepth < 1 {
		errs = append(errs, fmt.Errorf("%s: must be at least 1, got %d", KeyDispatchQueue, s.Dispatch.QueueDepth))
	}
	if v.IsSet(KeyDispatchWorkers) && s.Dispatch.Workers < 1 {
		errs = append(errs, fmt.Errorf("%s: must be at least 1, got %d", KeyDispatchWorkers, s.Dispatch.Workers))
	}
	if s.Dispatch.HandoffTimeout < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative", KeyHandoffTimeout))
	}
	if s.Debounce < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative", KeyDebounce))
	}
	policy, err := dispatch.ParseOverflowPolicy(v.GetString(KeyOverflow))
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyOverflow, err))
	}
	s.Dispatch.Overflow = policy
	if s.ControlEndpoint == "" {
		s.ControlEndpoint = ipc.DefaultEndpoint()
	}

	if len(errs) > 0 {
		return Settings{}, errors.Join(errs...)
	}
	return s, nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
