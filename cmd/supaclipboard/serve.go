package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"go.klb.dev/supaclipboard/internal/bus"
	"go.klb.dev/supaclipboard/internal/clip"
	"go.klb.dev/supaclipboard/internal/document"
	"go.klb.dev/supaclipboard/internal/ipc"
	"go.klb.dev/supaclipboard/internal/listener"
	"go.klb.dev/supaclipboard/internal/rpc"
	"go.klb.dev/supaclipboard/internal/supaclip"
)

func newServeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the clipboard daemon",
		Long: `Starts the supaclipboard daemon. It watches the system clipboard, relays
copy and cut events to subscribers, records them in the history, and serves
copy/paste/history over the IPC socket.

With --addr the daemon also listens on TCP, serving gRPC and these HTTP
routes on the same port:

  GET  /v1/history
  GET  /v1/paste
  POST /v1/copy?mime=auto

Precedence (lowest → highest): defaults → config file → SUPACLIPBOARD_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runServe(cmd.Context(), v) },
	}

	f := cmd.Flags()
	f.String("addr", "", "TCP listen address for gRPC and HTTP (empty = IPC socket only)")
	f.Bool("listen", true, "record copy and cut events made outside the daemon")
	addHistoryFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	setupLogging(v)

	addr := v.GetString("addr")
	listen := v.GetBool("listen")

	store, err := openStore(v)
	if err != nil {
		return err
	}

	backend := clip.New()
	defer backend.Close()

	slog.Info("supaclipboard daemon starting",
		"version", Version,
		"backend", backend.Name(),
		"addr", addr,
		"listen", listen,
		"persist", store != nil,
	)

	events := bus.New()
	doc := document.NewDispatcher()
	watcher := document.NewWatcher(backend, doc)

	// Copies served by the daemon are recorded directly; the watcher must
	// not relay them a second time.
	c := supaclip.New(watcher.Wrap(backend), store, events, supaclip.Options{
		HistoryLimit:                v.GetInt("history-limit"),
		Persist:                     store != nil,
		ListenGlobalClipboardEvents: listen,
		OnCopySuccess:               func() { slog.Debug("copy served") },
		OnCopyError:                 func(err error) { slog.Warn("copy failed", "err", err) },
		OnPasteError:                func(err error) { slog.Debug("paste failed", "err", err) },
	})
	defer c.Close()

	gateway, err := rpc.NewGateway(c)
	if err != nil {
		return err
	}
	srv := rpc.NewServer(rpc.New(c, events), gateway)

	ipcLn, err := ipc.Listen()
	if err != nil {
		return fmt.Errorf("ipc listen: %w", err)
	}
	slog.Info("ipc listening", "path", ipc.SocketPath())

	var tcpLn net.Listener
	if addr != "" {
		tcpLn, err = net.Listen("tcp", addr)
		if err != nil {
			_ = ipcLn.Close()
			return fmt.Errorf("listen %s: %w", addr, err)
		}
	}

	ctx, stop := signalContext(ctx)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watcher.Run(ctx) })
	g.Go(func() error {
		return listener.Run(ctx, doc, events, listener.Handlers{
			OnCopy: func(ev document.Event) { slog.Debug("global copy", "items", len(ev.Items)) },
			OnCut:  func(ev document.Event) { slog.Debug("global cut", "items", len(ev.Items)) },
		})
	})
	g.Go(func() error { return srv.Serve(ctx, ipcLn, tcpLn) })

	err = g.Wait()
	slog.Info("supaclipboard daemon stopped")
	return err
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
