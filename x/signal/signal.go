// Package signal provides a single-slot notification: the latest value wins
// and one waiter takes it. It is meant to be created by the caller and passed
// to whoever publishes, never shared as a package global.
package signal

import (
	"context"
	"sync"
)

type Signal[T any] struct {
	mu    sync.Mutex
	val   T
	full  bool
	ready chan struct{} // capacity 1; a token means "maybe full"
}

func New[T any]() *Signal[T] {
	return &Signal[T]{ready: make(chan struct{}, 1)}
}

// Signal stores v, replacing any value nobody has taken yet. It never blocks.
func (s *Signal[T]) Signal(v T) {
	s.mu.Lock()
	s.val, s.full = v, true
	s.mu.Unlock()
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Wait blocks until a value is present and takes it.
func (s *Signal[T]) Wait(ctx context.Context) (T, error) {
	for {
		if v, ok := s.TryTake(); ok {
			return v, nil
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-s.ready:
		}
	}
}

// TryTake takes the value if one is present.
func (s *Signal[T]) TryTake() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if !s.full {
		return zero, false
	}
	v := s.val
	s.val, s.full = zero, false
	return v, true
}

// Signaled reports whether a value is waiting to be taken.
func (s *Signal[T]) Signaled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.full
}

// Reset drops any pending value.
func (s *Signal[T]) Reset() {
	s.TryTake()
}
