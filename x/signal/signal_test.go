package signal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_LatestWins(t *testing.T) {
	s := New[int]()
	s.Signal(1)
	s.Signal(2)
	assert.True(t, s.Signaled())

	v, err := s.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.False(t, s.Signaled())

	_, ok := s.TryTake()
	assert.False(t, ok)
}

func TestSignal_WaitBlocksUntilSignal(t *testing.T) {
	s := New[string]()
	got := make(chan string, 1)
	go func() {
		v, err := s.Wait(context.Background())
		if err == nil {
			got <- v
		}
	}()

	select {
	case v := <-got:
		t.Fatalf("unexpected value %q", v)
	case <-time.After(20 * time.Millisecond):
	}

	s.Signal("long")
	select {
	case v := <-got:
		assert.Equal(t, "long", v)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for signal")
	}
}

func TestSignal_WaitCancelled(t *testing.T) {
	s := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSignal_Reset(t *testing.T) {
	s := New[int]()
	s.Signal(7)
	s.Reset()
	assert.False(t, s.Signaled())

	// A stale token must not turn into a phantom value.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
