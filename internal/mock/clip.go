// Package mock provides function-field test doubles for supaclipboard's
// collaborator interfaces.
package mock

import (
	"go.klb.dev/supaclipboard/internal/clip"
)

// Compile-time interface verification.
var _ clip.Backend = (*Backend)(nil)

// Backend is a mock implementation of clip.Backend. A nil AvailableFn means
// available; nil ReadFn/WriteFn succeed with no content.
type Backend struct {
	AvailableFn func() bool
	ReadFn      func() ([]clip.Item, error)
	WriteFn     func(items []clip.Item) error

	WatchCh chan struct{}

	Reads  int
	Writes int
}

func (b *Backend) Name() string { return "mock" }

func (b *Backend) Available() bool {
	if b.AvailableFn == nil {
		return true
	}
	return b.AvailableFn()
}

func (b *Backend) Read() ([]clip.Item, error) {
	b.Reads++
	if b.ReadFn == nil {
		return nil, nil
	}
	return b.ReadFn()
}

func (b *Backend) Write(items []clip.Item) error {
	b.Writes++
	if b.WriteFn == nil {
		return nil
	}
	return b.WriteFn(items)
}

func (b *Backend) Watch() <-chan struct{} { return b.WatchCh }

func (b *Backend) Close() {}
