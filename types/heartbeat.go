package types

import (
	"time"

	"buttoncode-go/x/mathx"
)

// Bounds applied to the configured heartbeat interval, in seconds.
const (
	MinHeartbeatInterval = 0.01
	MaxHeartbeatInterval = 3600.0
)

// HeartbeatConfig is supplied on topic "config/heartbeat".
type HeartbeatConfig struct {
	Interval float64 `json:"interval"` // seconds
}

// Period returns the clamped tick period. ok is false when Interval is not a
// positive number.
func (c HeartbeatConfig) Period() (d time.Duration, ok bool) {
	if !(c.Interval > 0) {
		return 0, false
	}
	secs := mathx.Clamp(c.Interval, MinHeartbeatInterval, MaxHeartbeatInterval)
	return time.Duration(secs * float64(time.Second)), true
}

// Heartbeat is published on "heartbeat/beat" every interval.
type Heartbeat struct {
	UptimeMs int64  `json:"uptime_ms"`
	Short    uint32 `json:"short"`
	Long     uint32 `json:"long"`
	TS       int64  `json:"ts_ms"`
}
