// Package listener relays native copy and cut interactions from a document
// onto the event bus, so that any number of consumers can react to them.
package listener

import (
	"context"
	"log/slog"
	"sync"

	"go.klb.dev/supaclipboard/internal/bus"
	"go.klb.dev/supaclipboard/internal/document"
)

// Handlers are optional hooks invoked with the raw interaction before it
// is relayed. A nil field is a no-op.
type Handlers struct {
	OnCopy  func(document.Event)
	OnCut   func(document.Event)
	OnPaste func(document.Event)
}

// Attach installs copy, cut and paste listeners on doc. Copy and cut
// interactions publish the current selection on b as bus.Copy and bus.Cut;
// paste interactions only reach h.OnPaste, since their content cannot be
// read from the interaction itself. The returned function removes exactly
// the listeners installed here and is safe to call more than once.
func Attach(doc document.Document, b *bus.Bus, h Handlers) (detach func()) {
	relay := func(hook func(document.Event), ev bus.Event) *document.Listener {
		return &document.Listener{Handle: func(e document.Event) {
			if hook != nil {
				hook(e)
			}
			b.Publish(ev, doc.Selection())
		}}
	}

	onCopy := relay(h.OnCopy, bus.Copy)
	onCut := relay(h.OnCut, bus.Cut)
	onPaste := &document.Listener{Handle: func(e document.Event) {
		if h.OnPaste != nil {
			h.OnPaste(e)
		}
	}}

	doc.AddEventListener(document.KindCopy, onCopy)
	doc.AddEventListener(document.KindCut, onCut)
	doc.AddEventListener(document.KindPaste, onPaste)
	slog.Debug("global clipboard listener attached")

	var once sync.Once
	return func() {
		once.Do(func() {
			doc.RemoveEventListener(document.KindCopy, onCopy)
			doc.RemoveEventListener(document.KindCut, onCut)
			doc.RemoveEventListener(document.KindPaste, onPaste)
			slog.Debug("global clipboard listener detached")
		})
	}
}

// Run attaches the listener for the lifetime of ctx.
func Run(ctx context.Context, doc document.Document, b *bus.Bus, h Handlers) error {
	detach := Attach(doc, b, h)
	defer detach()
	<-ctx.Done()
	return nil
}
