// Package signal provides a minimal synchronous publish/subscribe
// primitive. Emit invokes every subscriber inline, in registration order,
// on the emitting goroutine. There is no queue and no scheduling; the
// ordering of emissions is exactly the ordering of Emit calls.
package signal

import "sync"

// Signal fans a value of type T out to its subscribers.
type Signal[T any] struct {
	mu       sync.Mutex
	nextID   uint64
	handlers []handler[T]
}

type handler[T any] struct {
	id uint64
	fn func(T)
}

// Subscription identifies one registered handler.
type Subscription struct {
	disconnect func()
}

// Disconnect removes the handler from its signal. Safe to call more than
// once and safe on the zero value.
func (s Subscription) Disconnect() {
	if s.disconnect != nil {
		s.disconnect()
	}
}

func New[T any]() *Signal[T] {
	return &Signal[T]{}
}

// Connect registers fn to run on every subsequent Emit.
func (s *Signal[T]) Connect(fn func(T)) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, handler[T]{id: id, fn: fn})

	return Subscription{disconnect: func() { s.remove(id) }}
}

// Emit synchronously invokes all live handlers with v.
func (s *Signal[T]) Emit(v T) {
	s.mu.Lock()
	snapshot := make([]handler[T], len(s.handlers))
	copy(snapshot, s.handlers)
	s.mu.Unlock()

	for _, h := range snapshot {
		h.fn(v)
	}
}

// Len reports the number of live subscriptions.
func (s *Signal[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

func (s *Signal[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, h := range s.handlers {
		if h.id == id {
			s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
			return
		}
	}
}
