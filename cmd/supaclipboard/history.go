package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/supaclipboard/internal/entry"
	"go.klb.dev/supaclipboard/internal/history"
	"go.klb.dev/supaclipboard/internal/rpc"
)

// previewWidth bounds the text column of the history table.
const previewWidth = 60

func newHistoryCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently copied entries, most recent first",
		Long: `Lists the clipboard history held by the running daemon, or the persisted
history in the state directory when no daemon is running.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindViper(cmd, v); err != nil {
				return err
			}
			setupCommandLogging(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := loadHistory(cmd.Context(), v)
			if err != nil {
				return err
			}
			if v.GetBool("json") {
				return printHistoryJSON(cmd.OutOrStdout(), items)
			}
			return printHistory(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().Bool("json", false, "output JSON")
	addHistoryFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func loadHistory(ctx context.Context, v *viper.Viper) ([]rpc.HistoryItem, error) {
	if client := dialDaemon(); client != nil {
		defer client.Close()
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		items, err := client.History(ctx)
		if err == nil {
			return items, nil
		}
		slog.Warn("daemon history failed, reading state directory", "err", err)
	}

	store, err := openStore(v)
	if err != nil || store == nil {
		return nil, err
	}
	entries := history.New(store, v.GetInt("history-limit"), true).Entries()
	items := make([]rpc.HistoryItem, len(entries))
	for i, e := range entries {
		items[i] = rpc.HistoryItem{Kind: e.Kind.String(), MIME: e.MIME, Text: e.Text(), Size: len(e.Data)}
	}
	return items, nil
}

func printHistoryJSON(w io.Writer, items []rpc.HistoryItem) error {
	if items == nil {
		items = []rpc.HistoryItem{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func printHistory(w io.Writer, items []rpc.HistoryItem) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "History is empty.")
		return err
	}

	tw := tabwriter.NewWriter(w, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "#\tTYPE\tSIZE\tCONTENT\n")
	for i, it := range items {
		content := it.Text
		if it.Kind == entry.KindImage.String() {
			content = "[image]"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			i+1, it.MIME, humanize.Bytes(uint64(it.Size)), preview(content, previewWidth))
	}
	return tw.Flush()
}

// preview flattens s onto one line and shortens it to n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
