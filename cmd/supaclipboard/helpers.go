package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"go.klb.dev/supaclipboard/internal/clip"
	"go.klb.dev/supaclipboard/internal/ipc"
	"go.klb.dev/supaclipboard/internal/rpc"
	"go.klb.dev/supaclipboard/internal/supaclip"
)

// newBackend opens the system clipboard for commands run without a daemon.
var newBackend = clip.New

// dialDaemon returns a client for the local daemon, or nil if none is
// running.
func dialDaemon() *rpc.Client {
	if !ipc.IsRunning() {
		return nil
	}
	c, err := rpc.DialIPC(ipc.SocketPath())
	if err != nil {
		slog.Debug("daemon dial failed", "err", err)
		return nil
	}
	return c
}

// openLocal builds a Clipboard over the system clipboard and the persisted
// history, for commands run without a daemon.
func openLocal(v *viper.Viper, opts supaclip.Options) (*supaclip.Clipboard, func(), error) {
	store, err := openStore(v)
	if err != nil {
		return nil, nil, err
	}
	backend := newBackend()
	opts.HistoryLimit = v.GetInt("history-limit")
	opts.Persist = store != nil
	c := supaclip.New(backend, store, nil, opts)
	return c, func() {
		c.Close()
		backend.Close()
	}, nil
}

// readInput joins args with spaces, or reads r when there are none.
func readInput(args []string, r io.Reader) ([]byte, error) {
	if len(args) > 0 {
		return []byte(strings.Join(args, " ")), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}
