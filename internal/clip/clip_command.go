package clip

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"go.klb.dev/supaclipboard/internal/entry"
)

const commandPollInterval = 250 * time.Millisecond

// commandBackend shells out to the platform clipboard utilities. It only
// handles text and has no change notification, so Watch is polled.
type commandBackend struct {
	watchCh   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	lastText  string
}

func newCommand() (Backend, error) {
	if clipboard.Unsupported {
		return nil, errors.New("no clipboard utility found")
	}
	b := &commandBackend{
		watchCh: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	b.lastText, _ = clipboard.ReadAll()
	go b.poll()
	return b, nil
}

func (b *commandBackend) Name() string    { return "clipboard command (poll)" }
func (b *commandBackend) Available() bool { return true }

func (b *commandBackend) poll() {
	t := time.NewTicker(commandPollInterval)
	defer t.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-t.C:
			text, err := clipboard.ReadAll()
			if err != nil || text == b.lastText {
				continue
			}
			b.lastText = text
			notify(b.watchCh)
		}
	}
}

func (b *commandBackend) Read() ([]Item, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	if text == "" {
		return nil, nil
	}
	return []Item{entry.NewText(text)}, nil
}

func (b *commandBackend) Write(items []Item) error {
	for _, it := range items {
		if it.Kind != entry.KindText {
			return fmt.Errorf("unsupported MIME type: %s", it.MIME)
		}
		if err := clipboard.WriteAll(it.Text()); err != nil {
			return fmt.Errorf("write clipboard: %w", err)
		}
	}
	return nil
}

func (b *commandBackend) Watch() <-chan struct{} { return b.watchCh }

// Close stops polling. It is safe to call more than once.
func (b *commandBackend) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}
