// Package supaclip combines clipboard access, bounded history and the
// global event relay into the single surface consumers use.
package supaclip

import (
	"log/slog"
	"sync"

	"go.klb.dev/supaclipboard/internal/accessor"
	"go.klb.dev/supaclipboard/internal/bus"
	"go.klb.dev/supaclipboard/internal/clip"
	"go.klb.dev/supaclipboard/internal/entry"
	"go.klb.dev/supaclipboard/internal/history"
	"go.klb.dev/supaclipboard/internal/kv"
)

// Options configures a Clipboard. Every callback is optional.
type Options struct {
	OnCopySuccess func()
	OnCopyError   func(error)
	// OnSuccess and OnError stand in for OnCopySuccess and OnCopyError
	// when those are nil.
	OnSuccess func()
	OnError   func(error)

	OnPasteSuccess func()
	OnPasteError   func(error)

	// HistoryLimit bounds the history; non-positive means history.DefaultLimit.
	HistoryLimit int
	// Persist loads the history from, and saves it to, the kv store.
	Persist bool
	// ListenGlobalClipboardEvents records copy and cut events published on
	// the bus, so interactions outside this Clipboard reach its history.
	ListenGlobalClipboardEvents bool
}

// Clipboard is the consumer-facing clipboard with history.
type Clipboard struct {
	acc  *accessor.Accessor
	hist *history.Store

	closeOnce   sync.Once
	unsubscribe []func()
}

// New returns a Clipboard over backend. store may be nil unless
// opts.Persist is set; events may be nil unless
// opts.ListenGlobalClipboardEvents is set.
func New(backend clip.Backend, store kv.Store, events *bus.Bus, opts Options) *Clipboard {
	c := &Clipboard{
		hist: history.New(store, opts.HistoryLimit, opts.Persist),
	}

	onCopySuccess := opts.OnCopySuccess
	if onCopySuccess == nil {
		onCopySuccess = opts.OnSuccess
	}
	onCopyError := opts.OnCopyError
	if onCopyError == nil {
		onCopyError = opts.OnError
	}

	c.acc = accessor.New(backend, accessor.Callbacks{
		OnCopySuccess: func(e entry.Entry) {
			c.hist.Record(e)
			if onCopySuccess != nil {
				onCopySuccess()
			}
		},
		OnCopyError: onCopyError,
		OnPasteSuccess: func(entry.Entry) {
			if opts.OnPasteSuccess != nil {
				opts.OnPasteSuccess()
			}
		},
		OnPasteError: opts.OnPasteError,
	})

	if opts.ListenGlobalClipboardEvents {
		if events == nil {
			slog.Warn("global clipboard events requested without an event bus, not listening")
		} else {
			c.unsubscribe = []func(){
				events.Subscribe(bus.Copy, c.recordText),
				events.Subscribe(bus.Cut, c.recordText),
			}
		}
	}
	return c
}

func (c *Clipboard) recordText(text string) {
	if text == "" {
		return
	}
	c.hist.Record(entry.NewText(text))
}

// Copy classifies content as text or HTML and writes it to the clipboard.
func (c *Clipboard) Copy(content string) bool {
	return c.acc.Copy(entry.Classify(content))
}

// CopyImage writes an image blob to the clipboard.
func (c *Clipboard) CopyImage(data []byte) bool {
	return c.acc.Copy(entry.NewImage(data))
}

// CopyEntry writes an already-tagged entry to the clipboard.
func (c *Clipboard) CopyEntry(e entry.Entry) bool {
	return c.acc.Copy(e)
}

// Paste returns the clipboard's text or image content, or nil.
func (c *Clipboard) Paste() *entry.Entry {
	return c.acc.Paste()
}

// History returns the recorded entries, most recent first.
func (c *Clipboard) History() []entry.Entry {
	return c.hist.Entries()
}

// HistoryText returns the text of the recorded text entries, most recent first.
func (c *Clipboard) HistoryText() []string {
	return c.hist.Texts()
}

// Close stops listening for global clipboard events. It is safe to call
// more than once.
func (c *Clipboard) Close() {
	c.closeOnce.Do(func() {
		for _, unsub := range c.unsubscribe {
			unsub()
		}
	})
}
