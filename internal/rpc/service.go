// Package rpc exposes a daemon's clipboard over gRPC and HTTP/JSON.
package rpc

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"go.klb.dev/supaclipboard/internal/bus"
	"go.klb.dev/supaclipboard/internal/entry"
)

// Clipboard is what the service needs from the clipboard it exposes.
type Clipboard interface {
	CopyEntry(entry.Entry) bool
	Paste() *entry.Entry
	History() []entry.Entry
}

// HistoryItem is the wire form of a history entry. Images are described
// by MIME type and size only.
type HistoryItem struct {
	Kind string `json:"kind"`
	MIME string `json:"mime"`
	Text string `json:"text,omitempty"`
	Size int    `json:"size"`
}

func historyItems(entries []entry.Entry) []HistoryItem {
	out := make([]HistoryItem, len(entries))
	for i, e := range entries {
		out[i] = HistoryItem{Kind: e.Kind.String(), MIME: e.MIME, Size: len(e.Data)}
		if e.Kind == entry.KindText {
			out[i].Text = e.Text()
		}
	}
	return out
}

// watchBuffer bounds the events queued for a slow Watch client.
const watchBuffer = 16

// Service implements ClipboardServer.
type Service struct {
	clip   Clipboard
	events *bus.Bus
}

// Compile-time interface verification.
var _ ClipboardServer = (*Service)(nil)

// New returns a Service over c. events may be nil, in which case Watch
// fails with codes.Unavailable.
func New(c Clipboard, events *bus.Bus) *Service {
	return &Service{clip: c, events: events}
}

// Copy implements ClipboardService.Copy.
func (s *Service) Copy(ctx context.Context, req *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error) {
	e, err := entry.ForMIME(mimeFromCtx(ctx), req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return wrapperspb.Bool(s.clip.CopyEntry(e)), nil
}

// Paste implements ClipboardService.Paste.
func (s *Service) Paste(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	e := s.clip.Paste()
	if e == nil {
		return nil, status.Error(codes.NotFound, "nothing to paste")
	}
	if err := grpc.SetHeader(ctx, metadata.Pairs(mimeHeader, e.MIME)); err != nil {
		return nil, err
	}
	return wrapperspb.Bytes(e.Data), nil
}

// History implements ClipboardService.History.
func (s *Service) History(_ context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	items := historyItems(s.clip.History())
	values := make([]any, len(items))
	for i, it := range items {
		values[i] = map[string]any{
			"kind": it.Kind,
			"mime": it.MIME,
			"text": it.Text,
			"size": it.Size,
		}
	}
	list, err := structpb.NewList(values)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return list, nil
}

type busEvent struct {
	event bus.Event
	text  string
}

// Watch implements ClipboardService.Watch. It streams copy and cut events
// until the client goes away.
func (s *Service) Watch(_ *emptypb.Empty, stream WatchServer) error {
	if s.events == nil {
		return status.Error(codes.Unavailable, "event relay disabled")
	}

	ch := make(chan busEvent, watchBuffer)
	forward := func(ev bus.Event) bus.Handler {
		return func(text string) {
			select {
			case ch <- busEvent{ev, text}:
			default:
				slog.Warn("watch client too slow, dropping event", "event", ev)
			}
		}
	}
	unsubCopy := s.events.Subscribe(bus.Copy, forward(bus.Copy))
	defer unsubCopy()
	unsubCut := s.events.Subscribe(bus.Cut, forward(bus.Cut))
	defer unsubCut()

	slog.Info("watch started")
	defer slog.Info("watch ended")

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case ev := <-ch:
			msg, err := structpb.NewStruct(map[string]any{
				"event": string(ev.event),
				"text":  ev.text,
			})
			if err != nil {
				return status.Error(codes.Internal, err.Error())
			}
			if err := stream.Send(msg); err != nil {
				return err
			}
		}
	}
}

func mimeFromCtx(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(mimeHeader); len(vals) > 0 {
			return vals[0]
		}
	}
	return "auto"
}
