// Package line provides input lines for the button state machine: a software
// line for tests and simulation, and a polled line over any pin sampler.
package line

import (
	"context"
	"sync"
	"time"
)

// Wait identifies one kind of blocking wait on a line.
type Wait uint8

const (
	WaitLow Wait = iota
	WaitHigh
	WaitFallingEdge
	numWaits
)

func (w Wait) String() string {
	switch w {
	case WaitLow:
		return "low"
	case WaitHigh:
		return "high"
	case WaitFallingEdge:
		return "falling_edge"
	default:
		return "unknown"
	}
}

// Sim is a software driven line. Falling edges are counted, so an edge that
// happens between two waits issued by the same task is still seen by a
// WaitFallingEdge that was already pending.
type Sim struct {
	mu      sync.Mutex
	level   bool
	falls   uint64
	changed chan struct{} // closed and replaced on every transition
	pending [numWaits]int
}

func NewSim(initial bool) *Sim {
	return &Sim{level: initial, changed: make(chan struct{})}
}

// Set drives the line. Setting the current level is a no-op.
func (s *Sim) Set(level bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if level == s.level {
		return
	}
	if s.level && !level {
		s.falls++
	}
	s.level = level
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *Sim) Press()   { s.Set(true) }
func (s *Sim) Release() { s.Set(false) }

// Bounce imitates contact chatter: the line alternates toggles times, starting
// at final, with gap between flips, and then settles at final.
func (s *Sim) Bounce(final bool, toggles int, gap time.Duration) {
	lvl := final
	for i := 0; i < toggles; i++ {
		s.Set(lvl)
		lvl = !lvl
		if gap > 0 {
			time.Sleep(gap)
		}
	}
	s.Set(final)
}

func (s *Sim) Get() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Falls returns the number of High->Low transitions so far.
func (s *Sim) Falls() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.falls
}

// Pending returns how many callers are blocked in the given wait.
func (s *Sim) Pending(w Wait) int {
	if w >= numWaits {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[w]
}

func (s *Sim) WaitLow(ctx context.Context) error {
	return s.wait(ctx, WaitLow, func(uint64) bool { return !s.level })
}

func (s *Sim) WaitHigh(ctx context.Context) error {
	return s.wait(ctx, WaitHigh, func(uint64) bool { return s.level })
}

func (s *Sim) WaitFallingEdge(ctx context.Context) error {
	return s.wait(ctx, WaitFallingEdge, func(start uint64) bool { return s.falls > start })
}

// wait blocks until cond holds. cond runs with s.mu held and receives the
// falling edge count taken when the wait began.
func (s *Sim) wait(ctx context.Context, kind Wait, cond func(start uint64) bool) error {
	s.mu.Lock()
	start := s.falls
	s.pending[kind]++
	defer func() {
		s.mu.Lock()
		s.pending[kind]--
		s.mu.Unlock()
	}()

	for {
		if cond(start) {
			s.mu.Unlock()
			return nil
		}
		ch := s.changed
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
		s.mu.Lock()
	}
}
