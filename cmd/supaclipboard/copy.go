package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/supaclipboard/internal/entry"
	"go.klb.dev/supaclipboard/internal/supaclip"
)

var errCopyFailed = errors.New("copy failed")

func newCopyCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "copy [text...]",
		Short: "Copy text or stdin to the clipboard (like pbcopy)",
		Long: `Copies the arguments, joined by spaces, or stdin when there are none.

If a local supaclipboard daemon is running it performs the copy and records
it. Otherwise the system clipboard is written directly and the persisted
history is updated.

--mime auto treats input that looks like markup as text/html. Use
--mime image to copy image bytes:

  supaclipboard copy --mime image < screenshot.png`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindViper(cmd, v); err != nil {
				return err
			}
			setupCommandLogging(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runCopy(cmd.Context(), v, data)
		},
	}

	f := cmd.Flags()
	f.String("mime", "auto", "type of the copied data: auto|text/plain|text/html|image")
	addHistoryFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runCopy(ctx context.Context, v *viper.Viper, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	mime := v.GetString("mime")

	if client := dialDaemon(); client != nil {
		defer client.Close()
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		ok, err := client.Copy(ctx, mime, data)
		if err == nil {
			if !ok {
				return errCopyFailed
			}
			return nil
		}
		slog.Warn("daemon copy failed, using clipboard directly", "err", err)
	}

	e, err := entry.ForMIME(mime, data)
	if err != nil {
		return err
	}
	var copyErr error
	c, closeFn, err := openLocal(v, supaclip.Options{
		OnCopyError: func(err error) { copyErr = err },
	})
	if err != nil {
		return err
	}
	defer closeFn()

	if !c.CopyEntry(e) {
		if copyErr != nil {
			return fmt.Errorf("%w: %w", errCopyFailed, copyErr)
		}
		return errCopyFailed
	}
	return nil
}
