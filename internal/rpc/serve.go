package rpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/soheilhy/cmux"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

// Server serves a ClipboardService on the IPC socket and, optionally, on a
// TCP listener shared between gRPC and the HTTP/JSON gateway.
type Server struct {
	grpc *grpc.Server
	http *http.Server
}

// NewServer builds a Server for svc. gateway may be nil to disable HTTP.
func NewServer(svc ClipboardServer, gateway http.Handler) *Server {
	gs := grpc.NewServer()
	Register(gs, svc)
	s := &Server{grpc: gs}
	if gateway != nil {
		s.http = &http.Server{Handler: gateway}
	}
	return s
}

// Serve blocks until ctx is done or a listener fails. ipcLn is required;
// tcpLn may be nil.
func (s *Server) Serve(ctx context.Context, ipcLn, tcpLn net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	serveGRPC := func(ln net.Listener) func() error {
		return func() error {
			if err := s.grpc.Serve(ln); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		}
	}
	g.Go(serveGRPC(ipcLn))

	var mux cmux.CMux
	if tcpLn != nil {
		mux = cmux.New(tcpLn)
		grpcL := mux.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
		g.Go(serveGRPC(grpcL))

		if s.http != nil {
			httpL := mux.Match(cmux.HTTP1Fast())
			g.Go(func() error {
				err := s.http.Serve(httpL)
				if err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
					return err
				}
				return nil
			})
		}
		g.Go(func() error {
			if err := mux.Serve(); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		})
		slog.Info("tcp listening", "addr", tcpLn.Addr())
	}

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("rpc server stopping")
		s.stop()
		if s.http != nil {
			_ = s.http.Shutdown(context.Background())
		}
		if mux != nil {
			mux.Close()
		}
		return nil
	})

	return g.Wait()
}

// stopTimeout bounds GracefulStop; Watch streams only end when their
// client goes away.
const stopTimeout = 2 * time.Second

func (s *Server) stop() {
	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(stopTimeout):
		s.grpc.Stop()
	}
}
