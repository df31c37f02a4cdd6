package clip

import "errors"

// ErrHeadless is returned by the headless backend for every operation.
var ErrHeadless = errors.New("no clipboard in this environment")

// headlessBackend stands in for environments without a display server or
// clipboard utility (servers, containers, CI). It never produces Watch
// events and reports itself unavailable.
type headlessBackend struct {
	watchCh chan struct{}
}

// NewHeadless returns a backend with no clipboard behind it.
func NewHeadless() Backend {
	return &headlessBackend{watchCh: make(chan struct{})}
}

func (b *headlessBackend) Name() string           { return "headless (no-op)" }
func (b *headlessBackend) Available() bool        { return false }
func (b *headlessBackend) Read() ([]Item, error)  { return nil, ErrHeadless }
func (b *headlessBackend) Write(_ []Item) error   { return ErrHeadless }
func (b *headlessBackend) Watch() <-chan struct{} { return b.watchCh }
func (b *headlessBackend) Close()                 {}
