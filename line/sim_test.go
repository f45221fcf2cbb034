package line

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitErr(t *testing.T, fn func(context.Context) error) <-chan error {
	t.Helper()
	out := make(chan error, 1)
	go func() { out <- fn(context.Background()) }()
	return out
}

func expectDone(t *testing.T, ch <-chan error) {
	t.Helper()
	select {
	case err := <-ch:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("wait did not resolve")
	}
}

func expectBlocked(t *testing.T, ch <-chan error) {
	t.Helper()
	select {
	case err := <-ch:
		t.Fatalf("wait resolved early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestSim_LevelWaitsResolveImmediately(t *testing.T) {
	s := NewSim(false)
	require.NoError(t, s.WaitLow(context.Background()))

	s.Press()
	require.NoError(t, s.WaitHigh(context.Background()))
	assert.True(t, s.Get())
}

func TestSim_WaitHighBlocksUntilPressed(t *testing.T) {
	s := NewSim(false)
	done := waitErr(t, s.WaitHigh)

	require.Eventually(t, func() bool { return s.Pending(WaitHigh) == 1 }, time.Second, time.Millisecond)
	expectBlocked(t, done)

	s.Press()
	expectDone(t, done)
	assert.Zero(t, s.Pending(WaitHigh))
}

func TestSim_FallingEdgeNeedsNewTransition(t *testing.T) {
	s := NewSim(true)
	s.Release() // before the wait: must not count
	s.Press()

	done := waitErr(t, s.WaitFallingEdge)
	require.Eventually(t, func() bool { return s.Pending(WaitFallingEdge) == 1 }, time.Second, time.Millisecond)
	expectBlocked(t, done)

	s.Release()
	expectDone(t, done)
	assert.Equal(t, uint64(2), s.Falls())
}

func TestSim_FallingEdgeSeenDespiteQuickPulse(t *testing.T) {
	s := NewSim(true)
	done := waitErr(t, s.WaitFallingEdge)
	require.Eventually(t, func() bool { return s.Pending(WaitFallingEdge) == 1 }, time.Second, time.Millisecond)

	// Low and back High before the waiter is scheduled again.
	s.Release()
	s.Press()
	expectDone(t, done)
}

func TestSim_Bounce(t *testing.T) {
	s := NewSim(false)
	s.Bounce(true, 4, 0)
	assert.True(t, s.Get())
	assert.Equal(t, uint64(2), s.Falls(), "H,L,H,L then settle H")

	s.Bounce(false, 3, 0)
	assert.False(t, s.Get())
}

func TestSim_Cancel(t *testing.T) {
	s := NewSim(true)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.WaitLow(ctx) }()

	require.Eventually(t, func() bool { return s.Pending(WaitLow) == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancel not observed")
	}
	assert.Zero(t, s.Pending(WaitLow))
	assert.Zero(t, s.Pending(Wait(42)))
}

func TestWaitString(t *testing.T) {
	assert.Equal(t, "low", WaitLow.String())
	assert.Equal(t, "high", WaitHigh.String())
	assert.Equal(t, "falling_edge", WaitFallingEdge.String())
	assert.Equal(t, "unknown", Wait(9).String())
}
