// Package clip provides a unified interface to the system clipboard.
// New picks the first usable implementation at runtime:
//
//	native:   golang.design/x/clipboard (text + PNG, change notification)
//	command:  github.com/atotto/clipboard (text only, via pbcopy/xclip/xsel/wl-copy, polled)
//	headless: no clipboard at all; Available reports false
package clip

import (
	"log/slog"

	"go.klb.dev/supaclipboard/internal/entry"
)

// Item mirrors entry.Entry for clipboard backend use.
type Item = entry.Entry

// Backend is the interface that all clipboard implementations satisfy.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// Available reports whether the backend can reach a clipboard at all.
	// Callers must not Read or Write an unavailable backend.
	Available() bool

	// Read returns the current clipboard contents as a slice of typed items.
	// Returns nil, nil if the clipboard is empty or holds only unsupported types.
	Read() ([]Item, error)

	// Write sets the clipboard contents to the provided items.
	Write(items []Item) error

	// Watch returns a channel that receives a signal whenever the clipboard
	// changes. The channel is never closed. The caller should call Read()
	// when it receives from the channel.
	Watch() <-chan struct{}

	// Close releases any resources held by the backend.
	Close()
}

// New returns the best clipboard backend for this environment. Init
// happens here rather than in init() so that commands which never touch
// the clipboard don't log spurious warnings on headless systems.
func New() Backend {
	b, err := newNative()
	if err == nil {
		return b
	}
	slog.Debug("native clipboard unavailable", "err", err)

	b, err = newCommand()
	if err == nil {
		return b
	}
	slog.Debug("clipboard command unavailable", "err", err)

	slog.Warn("no clipboard available, running headless")
	return NewHeadless()
}

// notify performs a non-blocking send on a watch channel.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
