package document

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/cespare/xxhash"

	"go.klb.dev/supaclipboard/internal/clip"
	"go.klb.dev/supaclipboard/internal/entry"
)

// Watcher turns clipboard changes reported by a backend into copy
// interactions on a Dispatcher. Changes made by other applications (a
// keyboard shortcut in a terminal, say) reach listeners this way.
type Watcher struct {
	backend clip.Backend
	doc     *Dispatcher

	mu       sync.Mutex
	lastHash uint64
	seen     bool
}

// NewWatcher creates the watcher but does not start it.
func NewWatcher(b clip.Backend, doc *Dispatcher) *Watcher {
	return &Watcher{backend: b, doc: doc}
}

// Run dispatches a copy event for every distinct clipboard change until ctx
// is done. Call it in a goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.backend.Available() {
		slog.Warn("clipboard unavailable, not watching", "backend", w.backend.Name())
		<-ctx.Done()
		return nil
	}

	slog.Info("clipboard watcher started", "backend", w.backend.Name())
	changes := w.backend.Watch()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			w.observe()
		}
	}
}

func (w *Watcher) observe() {
	items, err := w.backend.Read()
	if err != nil {
		slog.Error("clipboard read failed", "err", err)
		return
	}
	if len(items) == 0 {
		return
	}

	if !w.mark(items) {
		return
	}

	slog.Debug("clipboard changed, dispatching copy", "items", len(items))
	w.doc.SetSelection(entry.TextOf(items))
	w.doc.Dispatch(Event{Kind: KindCopy, Items: items})
}

// mark records items as the current clipboard content and reports whether
// they differ from the previous content.
func (w *Watcher) mark(items []entry.Entry) bool {
	h := digest(items)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seen && h == w.lastHash {
		return false
	}
	w.lastHash, w.seen = h, true
	return true
}

// Expect marks items as already seen, so the change caused by writing them
// is not dispatched as an outside copy.
func (w *Watcher) Expect(items []entry.Entry) {
	w.mark(items)
}

// Wrap returns b with writes reported to Expect. Clipboards that write
// through it do not see their own copies come back as copy interactions.
func (w *Watcher) Wrap(b clip.Backend) clip.Backend {
	return &expectingBackend{Backend: b, w: w}
}

type expectingBackend struct {
	clip.Backend
	w *Watcher
}

func (b *expectingBackend) Write(items []clip.Item) error {
	if err := b.Backend.Write(items); err != nil {
		return err
	}
	b.w.Expect(items)
	return nil
}

// digest hashes content only. Backends may report a written text/html item
// back as text/plain.
func digest(items []entry.Entry) uint64 {
	var buf bytes.Buffer
	for _, it := range items {
		if it.IsImage() {
			buf.WriteString("image")
			buf.WriteByte(0)
		}
		buf.Write(it.Data)
		buf.WriteByte(0)
	}
	return xxhash.Sum64(buf.Bytes())
}
