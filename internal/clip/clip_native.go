package clip

import (
	"context"
	"fmt"

	"golang.design/x/clipboard"

	"go.klb.dev/supaclipboard/internal/entry"
)

type nativeBackend struct {
	watchCh chan struct{}
	cancel  context.CancelFunc
}

func newNative() (Backend, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("clipboard init: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &nativeBackend{
		watchCh: make(chan struct{}, 1),
		cancel:  cancel,
	}
	go b.forward(ctx)
	return b, nil
}

func (b *nativeBackend) Name() string    { return "native clipboard" }
func (b *nativeBackend) Available() bool { return true }

// forward coalesces text and image change notifications into watchCh.
func (b *nativeBackend) forward(ctx context.Context) {
	text := clipboard.Watch(ctx, clipboard.FmtText)
	img := clipboard.Watch(ctx, clipboard.FmtImage)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-text:
			if !ok {
				return
			}
			notify(b.watchCh)
		case _, ok := <-img:
			if !ok {
				return
			}
			notify(b.watchCh)
		}
	}
}

func (b *nativeBackend) Read() ([]Item, error) {
	var items []Item
	if text := clipboard.Read(clipboard.FmtText); text != nil {
		items = append(items, entry.NewText(string(text)))
	}
	if img := clipboard.Read(clipboard.FmtImage); img != nil {
		items = append(items, entry.Entry{Kind: entry.KindImage, MIME: entry.MIMEPNG, Data: img})
	}
	return items, nil
}

func (b *nativeBackend) Write(items []Item) error {
	for _, it := range items {
		switch it.MIME {
		case entry.MIMEText, entry.MIMEHTML:
			clipboard.Write(clipboard.FmtText, it.Data)
		case entry.MIMEPNG:
			clipboard.Write(clipboard.FmtImage, it.Data)
		default:
			return fmt.Errorf("unsupported MIME type: %s", it.MIME)
		}
	}
	return nil
}

func (b *nativeBackend) Watch() <-chan struct{} { return b.watchCh }
func (b *nativeBackend) Close()                 { b.cancel() }
