// supaclipboard: clipboard access with history and global copy/cut events.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/supaclipboard/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "supaclipboard",
		Short: "Clipboard access with history",
		Long: `supaclipboard copies and pastes through the system clipboard and keeps a
bounded history of what was copied.

Run "supaclipboard serve" to start a daemon that also records copies made by
other programs. copy, paste and history talk to the daemon when one is
running and fall back to the clipboard and the persisted history otherwise.

Config file search order (first found wins):
  /etc/supaclipboard/supaclipboard.toml
  $HOME/.config/supaclipboard/supaclipboard.toml
  path supplied via --config

All flags can be set via SUPACLIPBOARD_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newCopyCmd(),
		newPasteCmd(),
		newHistoryCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "supaclipboard %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if interactive {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(format, level)
}
