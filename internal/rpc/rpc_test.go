package rpc

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"go.klb.dev/supaclipboard/internal/bus"
	"go.klb.dev/supaclipboard/internal/entry"
)

// fakeClipboard records copies and pastes the most recent one.
type fakeClipboard struct {
	mu     sync.Mutex
	copies []entry.Entry
	reject bool
}

func (f *fakeClipboard) CopyEntry(e entry.Entry) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reject {
		return false
	}
	f.copies = append([]entry.Entry{e}, f.copies...)
	return true
}

func (f *fakeClipboard) Paste() *entry.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.copies) == 0 {
		return nil
	}
	e := f.copies[0]
	return &e
}

func (f *fakeClipboard) History() []entry.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entry.Entry(nil), f.copies...)
}

func startServer(t *testing.T, c Clipboard, events *bus.Bus) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	Register(s, New(c, events))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	client := NewClient(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCopyPasteRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := startServer(t, &fakeClipboard{}, nil)

	ok, err := c.Copy(ctx, "auto", []byte("hello"))
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := c.Paste(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.NewText("hello"), *got)
}

func TestCopyHTMLKeepsMIME(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := startServer(t, &fakeClipboard{}, nil)

	_, err := c.Copy(ctx, "auto", []byte("<b>bold</b>"))
	require.NoError(t, err)

	got, err := c.Paste(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.MIMEHTML, got.MIME)
}

func TestCopyRejected(t *testing.T) {
	t.Parallel()
	c := startServer(t, &fakeClipboard{reject: true}, nil)

	ok, err := c.Copy(context.Background(), entry.MIMEText, []byte("x"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCopyUnknownMIME(t *testing.T) {
	t.Parallel()
	c := startServer(t, &fakeClipboard{}, nil)

	_, err := c.Copy(context.Background(), "application/zip", []byte("x"))
	require.Error(t, err)
}

func TestPasteEmpty(t *testing.T) {
	t.Parallel()
	c := startServer(t, &fakeClipboard{}, nil)

	got, err := c.Paste(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := startServer(t, &fakeClipboard{}, nil)

	_, err := c.Copy(ctx, "text/plain", []byte("first"))
	require.NoError(t, err)
	_, err = c.Copy(ctx, "image/png", []byte("\x89PNG\r\n\x1a\nxxxx"))
	require.NoError(t, err)

	items, err := c.History(ctx)
	require.NoError(t, err)
	want := []HistoryItem{
		{Kind: "image", MIME: entry.MIMEPNG, Size: 12},
		{Kind: "text", MIME: entry.MIMEText, Text: "first", Size: 5},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestWatchRelaysEvents(t *testing.T) {
	t.Parallel()
	events := bus.New()
	c := startServer(t, &fakeClipboard{}, events)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type got struct {
		ev   bus.Event
		text string
	}
	recv := make(chan got, 4)
	done := make(chan error, 1)
	go func() {
		done <- c.Watch(ctx, func(ev bus.Event, text string) { recv <- got{ev, text} })
	}()

	require.Eventually(t, func() bool {
		return events.Subscribers(bus.Copy) == 1 && events.Subscribers(bus.Cut) == 1
	}, 2*time.Second, 10*time.Millisecond)

	events.Publish(bus.Copy, "copied")
	events.Publish(bus.Paste, "ignored")
	events.Publish(bus.Cut, "cut")

	assert.Equal(t, got{bus.Copy, "copied"}, <-recv)
	assert.Equal(t, got{bus.Cut, "cut"}, <-recv)

	cancel()
	require.NoError(t, <-done)
	require.Eventually(t, func() bool {
		return events.Subscribers(bus.Copy) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatchWithoutBus(t *testing.T) {
	t.Parallel()
	c := startServer(t, &fakeClipboard{}, nil)

	err := c.Watch(context.Background(), func(bus.Event, string) {})
	require.Error(t, err)
}

func TestGateway(t *testing.T) {
	t.Parallel()
	fc := &fakeClipboard{}
	mux, err := NewGateway(fc)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/paste", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/copy", strings.NewReader("hi there")))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/paste", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entry.MIMEText, rec.Header().Get("Content-Type"))
	assert.Equal(t, "hi there", rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var items []HistoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Equal(t, []HistoryItem{{Kind: "text", MIME: entry.MIMEText, Text: "hi there", Size: 8}}, items)
}

func TestGatewayRejectsUnknownMIME(t *testing.T) {
	t.Parallel()
	mux, err := NewGateway(&fakeClipboard{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/copy?mime=application/zip", strings.NewReader("x")))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
