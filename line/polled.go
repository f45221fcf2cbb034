package line

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultPollPeriod keeps a polled line well inside the default debounce window.
const DefaultPollPeriod = time.Millisecond

// Polled turns a Sampler into a line by polling it cooperatively. Edges are
// found by comparing successive good samples, so pulses shorter than the poll
// period can be missed.
//
// Failed samples are counted and skipped: a pin that never reads again leaves
// every wait pending.
type Polled struct {
	src    Sampler
	clock  clockwork.Clock
	period time.Duration

	mu   sync.Mutex
	last bool

	errs atomic.Uint32
}

type PolledOption func(*Polled)

// WithPollPeriod sets the interval between samples. Non-positive values are ignored.
func WithPollPeriod(d time.Duration) PolledOption {
	return func(p *Polled) {
		if d > 0 {
			p.period = d
		}
	}
}

// WithPollClock replaces the clock driving the poll ticker.
func WithPollClock(c clockwork.Clock) PolledOption {
	return func(p *Polled) {
		if c != nil {
			p.clock = c
		}
	}
}

func NewPolled(src Sampler, opts ...PolledOption) *Polled {
	p := &Polled{
		src:    src,
		clock:  clockwork.NewRealClock(),
		period: DefaultPollPeriod,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Get samples the pin, falling back to the last good level on error.
func (p *Polled) Get() bool {
	if lvl, ok := p.sample(); ok {
		return lvl
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Errors returns the number of failed samples so far.
func (p *Polled) Errors() uint32 { return p.errs.Load() }

func (p *Polled) WaitLow(ctx context.Context) error  { return p.waitLevel(ctx, false) }
func (p *Polled) WaitHigh(ctx context.Context) error { return p.waitLevel(ctx, true) }

func (p *Polled) WaitFallingEdge(ctx context.Context) error {
	prev, known := p.sample()

	t := p.clock.NewTicker(p.period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.Chan():
			lvl, ok := p.sample()
			if !ok {
				continue
			}
			if known && prev && !lvl {
				return nil
			}
			prev, known = lvl, true
		}
	}
}

func (p *Polled) waitLevel(ctx context.Context, want bool) error {
	if lvl, ok := p.sample(); ok && lvl == want {
		return nil
	}

	t := p.clock.NewTicker(p.period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.Chan():
			if lvl, ok := p.sample(); ok && lvl == want {
				return nil
			}
		}
	}
}

func (p *Polled) sample() (bool, bool) {
	lvl, err := p.src.Sample()
	if err != nil {
		p.errs.Add(1)
		return false, false
	}
	p.mu.Lock()
	p.last = lvl
	p.mu.Unlock()
	return lvl, true
}
