// Package accessor wraps a clip.Backend with availability checks, success
// and error callbacks, and logging. Nothing it does returns an error to
// the caller: failures become callback invocations and log lines.
package accessor

import (
	"errors"
	"log/slog"

	"go.klb.dev/supaclipboard/internal/clip"
	"go.klb.dev/supaclipboard/internal/entry"
)

var (
	// ErrUnavailable is reported when the backend has no clipboard.
	ErrUnavailable = errors.New("clipboard API not available")
	// ErrNoContent is reported when the clipboard holds neither plain text
	// nor an image.
	ErrNoContent = errors.New("clipboard holds no text or image")
)

// Callbacks are optional hooks fired after each operation. A nil field is
// a no-op.
type Callbacks struct {
	OnCopySuccess  func(entry.Entry)
	OnCopyError    func(error)
	OnPasteSuccess func(entry.Entry)
	OnPasteError   func(error)
}

// Accessor reads and writes the clipboard through a backend.
type Accessor struct {
	backend clip.Backend
	cb      Callbacks
}

// New returns an Accessor over b.
func New(b clip.Backend, cb Callbacks) *Accessor {
	return &Accessor{backend: b, cb: cb}
}

// Copy writes e to the clipboard and reports whether it succeeded.
func (a *Accessor) Copy(e entry.Entry) bool {
	if !a.backend.Available() {
		slog.Error("copy failed", "err", ErrUnavailable)
		a.copyError(ErrUnavailable)
		return false
	}
	if err := a.backend.Write([]clip.Item{e}); err != nil {
		slog.Error("failed to copy content", "backend", a.backend.Name(), "err", err)
		a.copyError(err)
		return false
	}
	LogEntries("clipboard copied", a.backend.Name(), []entry.Entry{e})
	if a.cb.OnCopySuccess != nil {
		a.cb.OnCopySuccess(e)
	}
	return true
}

// Paste reads the clipboard and returns its first text or image item, or
// nil on any failure.
func (a *Accessor) Paste() *entry.Entry {
	if !a.backend.Available() {
		slog.Error("paste failed", "err", ErrUnavailable)
		a.pasteError(ErrUnavailable)
		return nil
	}
	items, err := a.backend.Read()
	if err != nil {
		slog.Error("failed to paste content", "backend", a.backend.Name(), "err", err)
		a.pasteError(err)
		return nil
	}
	e := entry.Select(items)
	if e == nil {
		slog.Debug("nothing to paste", "backend", a.backend.Name(), "items", len(items))
		a.pasteError(ErrNoContent)
		return nil
	}
	LogEntries("clipboard pasted", a.backend.Name(), []entry.Entry{*e})
	if a.cb.OnPasteSuccess != nil {
		a.cb.OnPasteSuccess(*e)
	}
	return e
}

func (a *Accessor) copyError(err error) {
	if a.cb.OnCopyError != nil {
		a.cb.OnCopyError(err)
	}
}

func (a *Accessor) pasteError(err error) {
	if a.cb.OnPasteError != nil {
		a.cb.OnPasteError(err)
	}
}
