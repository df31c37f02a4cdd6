package rpc

import (
	"context"
	"errors"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"go.klb.dev/supaclipboard/internal/bus"
	"go.klb.dev/supaclipboard/internal/entry"
)

// Client talks to a ClipboardService.
type Client struct {
	conn *grpc.ClientConn
}

// NewClient wraps an existing connection. Closing the Client closes conn.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// DialIPC connects to a daemon on the Unix socket at path. No auth is
// needed: the socket is local and owner-restricted.
func DialIPC(path string) (*Client, error) {
	conn, err := grpc.NewClient(
		"unix://"+path,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", path, err)
	}
	return NewClient(conn), nil
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// Copy asks the daemon to copy data tagged with mime ("auto" classifies
// it as text or HTML). It reports whether the clipboard accepted it.
func (c *Client) Copy(ctx context.Context, mime string, data []byte) (bool, error) {
	ctx = metadata.AppendToOutgoingContext(ctx, mimeHeader, mime)
	out := new(wrapperspb.BoolValue)
	if err := c.conn.Invoke(ctx, copyMethod, wrapperspb.Bytes(data), out); err != nil {
		return false, fmt.Errorf("copy: %w", err)
	}
	return out.GetValue(), nil
}

// Paste returns the daemon's clipboard content, or nil if there is nothing
// to paste.
func (c *Client) Paste(ctx context.Context) (*entry.Entry, error) {
	var header metadata.MD
	out := new(wrapperspb.BytesValue)
	err := c.conn.Invoke(ctx, pasteMethod, &emptypb.Empty{}, out, grpc.Header(&header))
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	mime := entry.MIMEText
	if vals := header.Get(mimeHeader); len(vals) > 0 {
		mime = vals[0]
	}
	e, err := entry.ForMIME(mime, out.GetValue())
	if err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	return &e, nil
}

// History returns the daemon's clipboard history, most recent first.
func (c *Client) History(ctx context.Context) ([]HistoryItem, error) {
	out := new(structpb.ListValue)
	if err := c.conn.Invoke(ctx, historyMethod, &emptypb.Empty{}, out); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	items := make([]HistoryItem, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		f := v.GetStructValue().GetFields()
		items = append(items, HistoryItem{
			Kind: f["kind"].GetStringValue(),
			MIME: f["mime"].GetStringValue(),
			Text: f["text"].GetStringValue(),
			Size: int(f["size"].GetNumberValue()),
		})
	}
	return items, nil
}

// Watch calls fn for every copy and cut event relayed by the daemon until
// ctx is done or the daemon goes away.
func (c *Client) Watch(ctx context.Context, fn func(ev bus.Event, text string)) error {
	stream, err := c.conn.NewStream(ctx, &serviceDesc.Streams[0], watchMethod)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	for {
		msg := new(structpb.Struct)
		err := stream.RecvMsg(msg)
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		f := msg.GetFields()
		fn(bus.Event(f["event"].GetStringValue()), f["text"].GetStringValue())
	}
}
