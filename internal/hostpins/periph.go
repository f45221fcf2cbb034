package hostpins

import (
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"buttoncode-go/errcode"
)

var (
	periphOnce sync.Once
	periphErr  error
)

func initPeriph() error {
	periphOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			periphErr = errcode.Wrap(errcode.Unsupported, "periph.init", err)
		}
	})
	return periphErr
}

func periphPull(p Pull) gpio.Pull {
	switch p {
	case PullUp:
		return gpio.PullUp
	case PullDown:
		return gpio.PullDown
	default:
		return gpio.Float
	}
}

type periphPin struct{ p gpio.PinIn }

func (p periphPin) Sample() (bool, error) { return p.p.Read() == gpio.High, nil }

// OpenPeriph opens a pin by its periph name ("GPIO17", "P1_11", ...).
func OpenPeriph(name string, pull Pull) (Input, error) {
	if err := initPeriph(); err != nil {
		return nil, err
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "periph.open", Msg: name}
	}
	if err := p.In(periphPull(pull), gpio.NoEdge); err != nil {
		return nil, errcode.Wrap(errcode.BusIO, "periph.in", err)
	}
	return nopCloser{periphPin{p: p}}, nil
}

// OpenI2C opens an I²C bus by name ("" for the first one). The bus satisfies
// tinygo.org/x/drivers.I2C, so expander drivers run on it unchanged.
func OpenI2C(name string) (i2c.BusCloser, error) {
	if err := initPeriph(); err != nil {
		return nil, err
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, errcode.Wrap(errcode.UnknownDevice, "i2c.open", err)
	}
	return b, nil
}
