package types

import (
	"time"

	"buttoncode-go/button"
	"buttoncode-go/x/mathx"
)

// Bounds applied to configured timings.
const (
	MinDebounceMs  = 1
	MaxDebounceMs  = 1000
	MaxLongPressMs = 60000
)

// ButtonConfig is supplied on topic "config/button". Zero fields keep the
// built-in defaults.
type ButtonConfig struct {
	Name        string `json:"name,omitempty"`
	DebounceMs  uint32 `json:"debounce_ms,omitempty"`
	LongPressMs uint32 `json:"long_press_ms,omitempty"`
}

// Timings converts the config to durations, clamped to sane bounds. A long
// press is never shorter than the debounce window in effect, which is
// button.DebounceDelay when DebounceMs is zero. Zero results mean "default".
func (c ButtonConfig) Timings() (debounce, long time.Duration) {
	deb := c.DebounceMs
	if deb != 0 {
		deb = mathx.Clamp(deb, MinDebounceMs, MaxDebounceMs)
		debounce = time.Duration(deb) * time.Millisecond
	}
	if c.LongPressMs != 0 {
		lo := deb
		if lo == 0 {
			lo = uint32(button.DebounceDelay / time.Millisecond)
		}
		long = time.Duration(mathx.Clamp(c.LongPressMs, lo, MaxLongPressMs)) * time.Millisecond
	}
	return debounce, long
}

type ButtonInfo struct {
	Name        string `json:"name"`
	DebounceMs  uint32 `json:"debounce_ms"`
	LongPressMs uint32 `json:"long_press_ms"`
}

// ButtonPress is published once per classified press on "button/<name>/press".
type ButtonPress struct {
	Name     string `json:"name"`
	Duration string `json:"duration"` // "short" | "long"
	Seq      uint32 `json:"seq"`
	TS       int64  `json:"ts_ms"`
}

// ButtonStats is retained on "button/<name>/stats" and returned for
// "button/<name>/control/stats" requests.
type ButtonStats struct {
	Name  string `json:"name"`
	Short uint32 `json:"short"`
	Long  uint32 `json:"long"`
	Last  string `json:"last,omitempty"`
	TS    int64  `json:"ts_ms"`
}
