// Package button turns the noisy level changes of one digital input line into
// exactly one classified press per call.
//
// Every call walks the same five phases, each a suspension point:
//
//	wait Low -> debounce -> wait High -> debounce -> race(falling edge, long timer)
//
// The line idles Low (pull-down) and reads High while the button is held.
package button

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// DebounceDelay is slept after each level wait before the new level is trusted.
	DebounceDelay = 10 * time.Millisecond
	// LongPressDuration is the hold time from which a press counts as Long.
	LongPressDuration = 500 * time.Millisecond
)

// Line is the input the Button observes. High means pressed.
//
// Level waits return immediately when the level already holds. WaitFallingEdge
// resolves on the next High->Low transition after the call begins. The waits
// only fail with ctx.Err(); a broken line is a wait that never resolves.
type Line interface {
	Get() bool
	WaitLow(ctx context.Context) error
	WaitHigh(ctx context.Context) error
	WaitFallingEdge(ctx context.Context) error
}

// Button owns one Line. It is not safe for concurrent PressDuration calls.
type Button struct {
	line     Line
	clock    clockwork.Clock
	debounce time.Duration
	long     time.Duration
}

type Option func(*Button)

// WithDebounce overrides DebounceDelay. Negative values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(b *Button) {
		if d >= 0 {
			b.debounce = d
		}
	}
}

// WithLongPress overrides LongPressDuration. Non-positive values are ignored.
func WithLongPress(d time.Duration) Option {
	return func(b *Button) {
		if d > 0 {
			b.long = d
		}
	}
}

// WithClock replaces the wall clock used for the debounce and long-press timers.
func WithClock(c clockwork.Clock) Option {
	return func(b *Button) {
		if c != nil {
			b.clock = c
		}
	}
}

func New(line Line, opts ...Option) *Button {
	b := &Button{
		line:     line,
		clock:    clockwork.NewRealClock(),
		debounce: DebounceDelay,
		long:     LongPressDuration,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Button) Debounce() time.Duration  { return b.debounce }
func (b *Button) LongPress() time.Duration { return b.long }

// PressDuration blocks until one full press has been observed and classified.
// The error is non-nil only when ctx ends first; the Button can be reused
// afterwards.
func (b *Button) PressDuration(ctx context.Context) (PressDuration, error) {
	// Start from a released baseline, even if the button is still held from
	// the previous press.
	if err := b.line.WaitLow(ctx); err != nil {
		return Short, err
	}
	if err := b.sleep(ctx, b.debounce); err != nil {
		return Short, err
	}

	if err := b.line.WaitHigh(ctx); err != nil {
		return Short, err
	}
	// Contacts chatter for a few ms after closing; the level is only
	// meaningful once they settle.
	if err := b.sleep(ctx, b.debounce); err != nil {
		return Short, err
	}

	return b.classify(ctx)
}

func (b *Button) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := b.clock.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.Chan():
		return nil
	}
}

// classify races the release against the long-press timer. If both are ready
// at once select picks either; that tie is left open on purpose.
//
// The losing edge wait is cancelled and joined before returning so it can
// never observe an edge that belongs to the next call.
func (b *Button) classify(ctx context.Context) (PressDuration, error) {
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	released := make(chan error, 1)
	go func() { released <- b.line.WaitFallingEdge(raceCtx) }()

	t := b.clock.NewTimer(b.long)
	defer t.Stop()

	select {
	case err := <-released:
		return Short, err
	case <-t.Chan():
		cancel()
		<-released
		return Long, nil
	case <-ctx.Done():
		cancel()
		<-released
		return Short, ctx.Err()
	}
}
