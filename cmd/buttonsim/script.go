package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	bounceToggles = 4
	bounceGap     = time.Millisecond
)

type step struct {
	hold   time.Duration
	bounce bool
}

// parseScript reads "300ms,700ms,200msb": one hold time per press, a
// trailing 'b' adds contact bounce on both edges.
func parseScript(src string) ([]step, error) {
	var steps []step
	for i, f := range strings.Split(src, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		st := step{}
		if strings.HasSuffix(f, "b") {
			st.bounce = true
			f = strings.TrimSuffix(f, "b")
		}
		d, err := time.ParseDuration(f)
		if err != nil {
			return nil, fmt.Errorf("script entry %d: %w", i+1, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("script entry %d: hold must be positive", i+1)
		}
		st.hold = d
		steps = append(steps, st)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("script is empty")
	}
	return steps, nil
}

func runScript(ctx context.Context, s *sim, steps []step, w io.Writer) error {
	for i, st := range steps {
		if err := s.waitIdle(ctx); err != nil {
			return err
		}
		s.sig.Reset()

		if st.bounce {
			s.line.Bounce(true, bounceToggles, bounceGap)
		} else {
			s.line.Press()
		}
		select {
		case <-ctx.Done():
			s.line.Release()
			return ctx.Err()
		case <-time.After(st.hold):
		}
		if st.bounce {
			s.line.Bounce(false, bounceToggles, bounceGap)
		} else {
			s.line.Release()
		}

		ev, err := s.sig.Wait(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%v\t%s\n", i+1, st.hold, ev.Duration)
	}
	return nil
}
