package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/supaclipboard/internal/entry"
	"go.klb.dev/supaclipboard/internal/supaclip"
)

func newPasteCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Print the clipboard to stdout (like pbpaste)",
		Long: `Writes the clipboard content to stdout. If the clipboard holds neither
text nor an image, nothing is printed (exit 0).

  supaclipboard paste > screenshot.png`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindViper(cmd, v); err != nil {
				return err
			}
			setupCommandLogging(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPaste(cmd.Context(), v, cmd.OutOrStdout())
		},
	}

	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runPaste(ctx context.Context, v *viper.Viper, out io.Writer) error {
	e, err := paste(ctx, v)
	if err != nil {
		return err
	}
	if e == nil {
		return nil
	}
	_, err = out.Write(e.Data)
	return err
}

func paste(ctx context.Context, v *viper.Viper) (*entry.Entry, error) {
	if client := dialDaemon(); client != nil {
		defer client.Close()
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		e, err := client.Paste(ctx)
		if err == nil {
			return e, nil
		}
		slog.Warn("daemon paste failed, using clipboard directly", "err", err)
	}

	// Pasting never touches the history, so skip the state directory.
	v.Set("persist", false)
	c, closeFn, err := openLocal(v, supaclip.Options{})
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return c.Paste(), nil
}
