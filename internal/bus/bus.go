// Package bus implements the in-process clipboard event relay.
// Producers publish named clipboard events; any number of consumers
// subscribe to them without being wired to each other. A Bus is created by
// the composition root and handed to whoever needs it.
package bus

import (
	"log/slog"
	"sync"
)

// Event names a clipboard interaction.
type Event string

const (
	Copy  Event = "clipboardCopy"
	Cut   Event = "clipboardCut"
	Paste Event = "clipboardPaste"
)

// Handler receives the payload of a published event.
type Handler func(payload string)

type subscription struct {
	id uint64
	h  Handler
}

// Bus routes published events to their subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Event][]subscription
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[Event][]subscription)}
}

// Subscribe registers h for ev. The returned function removes exactly this
// subscription; calling it again does nothing.
func (b *Bus) Subscribe(ev Event, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[ev] = append(b.subs[ev], subscription{id: id, h: h})
	total := len(b.subs[ev])
	b.mu.Unlock()

	slog.Debug("bus subscribed", "event", ev, "id", id, "total", total)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(ev, id) })
	}
}

func (b *Bus) remove(ev Event, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[ev]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		// Copy rather than splice in place: a Publish may hold a snapshot
		// that shares the old backing array.
		out := make([]subscription, 0, len(subs)-1)
		out = append(out, subs[:i]...)
		out = append(out, subs[i+1:]...)
		if len(out) == 0 {
			delete(b.subs, ev)
		} else {
			b.subs[ev] = out
		}
		slog.Debug("bus unsubscribed", "event", ev, "id", id, "total", len(out))
		return
	}
}

// Publish delivers payload to every handler subscribed to ev at the time of
// the call, synchronously and in subscription order.
func (b *Bus) Publish(ev Event, payload string) {
	b.mu.RLock()
	targets := b.subs[ev]
	b.mu.RUnlock()

	if len(targets) == 0 {
		return
	}
	for _, s := range targets {
		s.h(payload)
	}
}

// Subscribers returns the number of handlers currently subscribed to ev.
func (b *Bus) Subscribers(ev Event) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[ev])
}
