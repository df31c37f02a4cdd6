package document

import (
	"slices"
	"sync"
)

// Compile-time interface verification.
var _ Document = (*Dispatcher)(nil)

// Dispatcher is an in-process Document. Whoever observes interactions calls
// SetSelection and Dispatch; attached listeners run synchronously.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[Kind][]*Listener
	selection string
}

// NewDispatcher returns a Dispatcher with no listeners and no selection.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[Kind][]*Listener)}
}

// AddEventListener attaches l for kind. Adding the same listener twice has
// no effect.
func (d *Dispatcher) AddEventListener(kind Kind, l *Listener) {
	if l == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if slices.Contains(d.listeners[kind], l) {
		return
	}
	d.listeners[kind] = append(d.listeners[kind], l)
}

// RemoveEventListener detaches l for kind. Unknown listeners are ignored.
func (d *Dispatcher) RemoveEventListener(kind Kind, l *Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur := d.listeners[kind]
	i := slices.Index(cur, l)
	if i < 0 {
		return
	}
	next := slices.Delete(slices.Clone(cur), i, i+1)
	if len(next) == 0 {
		delete(d.listeners, kind)
		return
	}
	d.listeners[kind] = next
}

// Selection implements Document.
func (d *Dispatcher) Selection() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.selection
}

// SetSelection replaces the current selection.
func (d *Dispatcher) SetSelection(s string) {
	d.mu.Lock()
	d.selection = s
	d.mu.Unlock()
}

// Dispatch delivers ev to the listeners attached for ev.Kind at the time of
// the call, in the order they were added.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	targets := d.listeners[ev.Kind]
	d.mu.RUnlock()

	for _, l := range targets {
		if l.Handle != nil {
			l.Handle(ev)
		}
	}
}

// Listeners returns the number of listeners attached for kind.
func (d *Dispatcher) Listeners(kind Kind) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[kind])
}
