package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/supaclipboard/internal/history"
	"go.klb.dev/supaclipboard/internal/kv"
	"go.klb.dev/supaclipboard/internal/logging"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and SUPACLIPBOARD_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → SUPACLIPBOARD_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("supaclipboard")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/supaclipboard/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "supaclipboard"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("SUPACLIPBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-background", false, "run interactively: tinter logs + debug level")
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error (default: info for service, warn for one-shot commands)")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addHistoryFlags adds the flags that shape the clipboard history.
func addHistoryFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("history-limit", history.DefaultLimit, "number of entries kept in the history")
	f.Bool("persist", true, "load and save the history in the state directory")
	f.String("state-dir", defaultStateDir(), "directory holding the persisted history")
}

// setupLogging reads logging flags from viper and configures slog.
func setupLogging(v *viper.Viper) {
	interactive := v.GetBool("no-background") || logging.IsTTY(os.Stderr)
	resolveLogging(interactive, v.GetString("log-format"), v.GetString("log-level"))
}

// setupCommandLogging configures slog for one-shot commands, which stay
// quiet unless asked otherwise.
func setupCommandLogging(v *viper.Viper) {
	level := v.GetString("log-level")
	if level == "" && !v.GetBool("no-background") {
		level = "warn"
	}
	resolveLogging(v.GetBool("no-background"), v.GetString("log-format"), level)
}

func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "supaclipboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "supaclipboard")
	}
	return filepath.Join(home, ".local", "state", "supaclipboard")
}

// openStore returns the persistent store, or nil when persistence is off.
func openStore(v *viper.Viper) (kv.Store, error) {
	if !v.GetBool("persist") {
		return nil, nil
	}
	store, err := kv.NewFileStore(v.GetString("state-dir"))
	if err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}
	return store, nil
}
