package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitOrder(t *testing.T) {
	s := New[int]()

	var got []string
	s.Connect(func(v int) { got = append(got, "first") })
	s.Connect(func(v int) { got = append(got, "second") })
	s.Connect(func(v int) { got = append(got, "third") })

	s.Emit(1)
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestEmitIsSynchronous(t *testing.T) {
	s := New[string]()

	var got string
	s.Connect(func(v string) { got = v })

	s.Emit("hello")
	// Handler must have run before Emit returned.
	assert.Equal(t, "hello", got)
}

func TestDisconnect(t *testing.T) {
	s := New[int]()

	count := 0
	sub := s.Connect(func(v int) { count++ })
	s.Connect(func(v int) {})

	s.Emit(1)
	sub.Disconnect()
	s.Emit(2)

	assert.Equal(t, 1, count)
	assert.Equal(t, 1, s.Len())

	// Repeated disconnects are harmless.
	sub.Disconnect()
	assert.Equal(t, 1, s.Len())
}

func TestZeroSubscription(t *testing.T) {
	var sub Subscription
	assert.NotPanics(t, func() { sub.Disconnect() })
}
