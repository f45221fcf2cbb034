// Package hostpins opens GPIO inputs on Linux boards as line samplers. Three
// access paths are supported: periph.io, the BCM283x register map (go-rpio)
// and the GPIO character device (gpiocdev).
package hostpins

import (
	"io"
	"strconv"

	"buttoncode-go/errcode"
	"buttoncode-go/line"
)

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// ParsePull maps "up", "down" and "none"/"" to a Pull.
func ParsePull(s string) (Pull, error) {
	switch s {
	case "", "none":
		return PullNone, nil
	case "up":
		return PullUp, nil
	case "down":
		return PullDown, nil
	}
	return PullNone, &errcode.E{C: errcode.InvalidParams, Op: "hostpins", Msg: "unknown pull " + strconv.Quote(s)}
}

// Input is an opened pin: a sampler that must be closed when done.
type Input interface {
	line.Sampler
	io.Closer
}

type nopCloser struct{ line.Sampler }

func (nopCloser) Close() error { return nil }
