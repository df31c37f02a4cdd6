package bus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.klb.dev/supaclipboard/internal/bus"
)

func TestSubscribePublish(t *testing.T) {
	t.Parallel()

	b := bus.New()
	var got []string
	unsubscribe := b.Subscribe(bus.Copy, func(p string) { got = append(got, p) })

	b.Publish(bus.Copy, "hello")
	assert.Equal(t, []string{"hello"}, got)

	unsubscribe()
	b.Publish(bus.Copy, "again")
	assert.Equal(t, []string{"hello"}, got)
	assert.Equal(t, 0, b.Subscribers(bus.Copy))
}

func TestPublishWithoutSubscribers(t *testing.T) {
	t.Parallel()

	b := bus.New()
	assert.NotPanics(t, func() { b.Publish(bus.Paste, "nobody listens") })
}

func TestPublishOrderAndIsolation(t *testing.T) {
	t.Parallel()

	b := bus.New()
	var order []string
	b.Subscribe(bus.Copy, func(p string) { order = append(order, "a:"+p) })
	b.Subscribe(bus.Copy, func(p string) { order = append(order, "b:"+p) })
	b.Subscribe(bus.Cut, func(p string) { order = append(order, "cut:"+p) })

	b.Publish(bus.Copy, "x")
	assert.Equal(t, []string{"a:x", "b:x"}, order)
}

func TestUnsubscribeIsIdentityBased(t *testing.T) {
	t.Parallel()

	b := bus.New()
	var calls []string
	unsubA := b.Subscribe(bus.Copy, func(string) { calls = append(calls, "a") })
	unsubB := b.Subscribe(bus.Copy, func(string) { calls = append(calls, "b") })
	b.Subscribe(bus.Copy, func(string) { calls = append(calls, "c") })

	unsubA()
	unsubA() // second call must not remove another subscription
	b.Publish(bus.Copy, "")
	assert.Equal(t, []string{"b", "c"}, calls)

	calls = nil
	unsubB()
	b.Publish(bus.Copy, "")
	assert.Equal(t, []string{"c"}, calls)
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	t.Parallel()

	b := bus.New()
	var calls []string
	var unsubSecond func()
	b.Subscribe(bus.Cut, func(string) {
		calls = append(calls, "first")
		unsubSecond()
	})
	unsubSecond = b.Subscribe(bus.Cut, func(string) { calls = append(calls, "second") })

	// The snapshot taken at publish time still includes the second handler.
	b.Publish(bus.Cut, "")
	assert.Equal(t, []string{"first", "second"}, calls)

	calls = nil
	b.Publish(bus.Cut, "")
	assert.Equal(t, []string{"first"}, calls)
}
