package types

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHeartbeatConfigPeriod(t *testing.T) {
	tests := []struct {
		name     string
		interval float64
		want     time.Duration
		ok       bool
	}{
		{"plain", 2, 2 * time.Second, true},
		{"fraction", 0.25, 250 * time.Millisecond, true},
		{"tiny clamped up", 1e-12, 10 * time.Millisecond, true},
		{"huge clamped down", 1e10, time.Hour, true},
		{"zero rejected", 0, 0, false},
		{"negative rejected", -1, 0, false},
		{"nan rejected", math.NaN(), 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := HeartbeatConfig{Interval: tc.interval}.Period()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, d)
		})
	}
}
