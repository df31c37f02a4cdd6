package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/supaclipboard/internal/bus"
)

var errNoDaemon = errors.New("no supaclipboard daemon running (start one with \"supaclipboard serve\")")

func newWatchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream copy and cut events from the daemon",
		Long: `Prints one line per copy or cut event the daemon observes, until
interrupted. With --json each line is an object {"event": ..., "text": ...}.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindViper(cmd, v); err != nil {
				return err
			}
			setupCommandLogging(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := dialDaemon()
			if client == nil {
				return errNoDaemon
			}
			defer client.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return client.Watch(ctx, eventPrinter(cmd.OutOrStdout(), v.GetBool("json")))
		},
	}

	cmd.Flags().Bool("json", false, "output JSON lines")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func eventPrinter(w io.Writer, asJSON bool) func(bus.Event, string) {
	if asJSON {
		enc := json.NewEncoder(w)
		return func(ev bus.Event, text string) {
			_ = enc.Encode(struct {
				Event string `json:"event"`
				Text  string `json:"text"`
			}{string(ev), text})
		}
	}
	return func(ev bus.Event, text string) {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", ev, preview(text, previewWidth))
	}
}
