// Package document models the surface that delivers native copy, cut and
// paste interactions: something listeners can be attached to, and which
// can report the text currently selected.
package document

import "go.klb.dev/supaclipboard/internal/entry"

// Kind is the type of a clipboard interaction.
type Kind string

const (
	KindCopy  Kind = "copy"
	KindCut   Kind = "cut"
	KindPaste Kind = "paste"
)

// Event is a single clipboard interaction. Items holds the clipboard data
// when the source knows it; it may be empty.
type Event struct {
	Kind  Kind
	Items []entry.Entry
}

// Listener is a registered interaction handler. Listeners are identified by
// pointer, so the same *Listener must be used to add and to remove.
type Listener struct {
	Handle func(Event)
}

// Document delivers clipboard interactions to listeners.
type Document interface {
	AddEventListener(kind Kind, l *Listener)
	RemoveEventListener(kind Kind, l *Listener)
	// Selection returns the currently selected text, or "".
	Selection() string
}
