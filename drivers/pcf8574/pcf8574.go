// Package pcf8574 provides a driver for the PCF8574/PCF8574A 8-bit I²C port
// expander, so a button wired to an expander pin can be polled like a GPIO.
//
// The expander pins are quasi-bidirectional: writing 1 releases a pin to its
// weak pull-up, after which it can be read as an input. A button on an
// expander pin is therefore normally wired to ground and read inverted.
//
//	d := pcf8574.New(bus)
//	err := d.Configure(pcf8574.Config{})   // all pins released as inputs
//	lvl, err := d.Get(3)
package pcf8574

import (
	"strconv"
	"sync"

	"tinygo.org/x/drivers"

	"buttoncode-go/errcode"
)

// I2C addresses with A2..A0 tied low.
const (
	Address  = 0x20 // PCF8574
	AddressA = 0x38 // PCF8574A
)

const NumPins = 8

// Config controls the initial port state. All fields are optional.
type Config struct {
	// Address defaults to 0x20 if zero.
	Address uint16
	// Outputs marks pins driven low after Configure. Every other pin is
	// released (written 1) so it can be read.
	Outputs uint8
}

// Device wraps an I2C connection to one expander.
type Device struct {
	bus     drivers.I2C
	Address uint16

	mu    sync.Mutex
	latch uint8   // last value written to the port
	buf   [1]byte // reuse buffer to avoid allocations
}

// New creates a Device for an already configured I2C bus. It does not touch
// the hardware; call Configure before reading.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus:     bus,
		Address: Address,
		latch:   0xFF, // power-on state
	}
}

// Configure applies cfg and writes the port latch.
func (d *Device) Configure(cfg Config) error {
	if cfg.Address != 0 {
		d.Address = cfg.Address
	}
	return d.WritePort(^cfg.Outputs)
}

// ReadPort reads the level of all eight pins (bit n = pin n).
func (d *Device) ReadPort() (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.bus.Tx(d.Address, nil, d.buf[:]); err != nil {
		return 0, errcode.Wrap(errcode.BusIO, "pcf8574.read", err)
	}
	return d.buf[0], nil
}

// WritePort writes the latch for all eight pins.
func (d *Device) WritePort(v uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.write(v)
}

func (d *Device) write(v uint8) error {
	d.buf[0] = v
	if err := d.bus.Tx(d.Address, d.buf[:], nil); err != nil {
		return errcode.Wrap(errcode.BusIO, "pcf8574.write", err)
	}
	d.latch = v
	return nil
}

// Get reads one pin.
func (d *Device) Get(pin uint8) (bool, error) {
	if pin >= NumPins {
		return false, errPin(pin)
	}
	v, err := d.ReadPort()
	if err != nil {
		return false, err
	}
	return v&(1<<pin) != 0, nil
}

// Set drives one pin low, or releases it high.
func (d *Device) Set(pin uint8, level bool) error {
	if pin >= NumPins {
		return errPin(pin)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	v := d.latch &^ (1 << pin)
	if level {
		v |= 1 << pin
	}
	return d.write(v)
}

// Latch returns the last value written to the port.
func (d *Device) Latch() uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latch
}

// Pin returns a handle for one expander pin. Its Sample method makes it
// usable as a polled line source.
func (d *Device) Pin(n uint8) Pin { return Pin{d: d, n: n} }

type Pin struct {
	d *Device
	n uint8
}

func (p Pin) Number() int { return int(p.n) }

// Sample reads the pin level (true = High).
func (p Pin) Sample() (bool, error) { return p.d.Get(p.n) }

func errPin(pin uint8) error {
	return &errcode.E{C: errcode.UnknownPin, Op: "pcf8574", Msg: "pin " + strconv.Itoa(int(pin)) + " out of range"}
}
