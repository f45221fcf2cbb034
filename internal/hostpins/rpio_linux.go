package hostpins

import (
	"github.com/stianeikeland/go-rpio/v4"

	"buttoncode-go/errcode"
)

type rpioPin struct{ p rpio.Pin }

func (p rpioPin) Sample() (bool, error) { return p.p.Read() == rpio.High, nil }

// Close unmaps the GPIO registers.
func (p rpioPin) Close() error { return rpio.Close() }

// OpenRPIO opens a BCM pin through /dev/gpiomem.
func OpenRPIO(bcm int, pull Pull) (Input, error) {
	if err := rpio.Open(); err != nil {
		return nil, errcode.Wrap(errcode.Unsupported, "rpio.open", err)
	}
	p := rpio.Pin(bcm)
	p.Input()
	switch pull {
	case PullUp:
		p.PullUp()
	case PullDown:
		p.PullDown()
	default:
		p.PullOff()
	}
	return rpioPin{p: p}, nil
}
