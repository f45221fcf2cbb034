package hostpins

import (
	"github.com/warthog618/go-gpiocdev"

	"buttoncode-go/errcode"
)

type cdevPin struct{ l *gpiocdev.Line }

// Sample reads the line value; chardev read errors are passed on so the
// polled line can skip them.
func (p cdevPin) Sample() (bool, error) {
	v, err := p.l.Value()
	if err != nil {
		return false, errcode.Wrap(errcode.BusIO, "gpiocdev.value", err)
	}
	return v != 0, nil
}

func (p cdevPin) Close() error { return p.l.Close() }

func cdevBias(p Pull) gpiocdev.LineReqOption {
	switch p {
	case PullUp:
		return gpiocdev.WithPullUp
	case PullDown:
		return gpiocdev.WithPullDown
	default:
		return gpiocdev.WithBiasDisabled
	}
}

// OpenCdev requests one input line from a GPIO chip ("gpiochip0").
func OpenCdev(chip string, offset int, pull Pull) (Input, error) {
	l, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsInput, cdevBias(pull))
	if err != nil {
		return nil, errcode.Wrap(errcode.UnknownPin, "gpiocdev.request", err)
	}
	return cdevPin{l: l}, nil
}
