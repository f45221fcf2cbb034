package pcf8574

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers"

	"buttoncode-go/errcode"
	"buttoncode-go/line"
)

// fakeI2C records writes and serves reads from a fixed input byte.
type fakeI2C struct {
	addr   uint16
	input  uint8
	writes []uint8
	err    error
}

var _ drivers.I2C = (*fakeI2C)(nil)

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	f.addr = addr
	if len(w) > 0 {
		f.writes = append(f.writes, w[0])
	}
	if len(r) > 0 {
		r[0] = f.input
	}
	return nil
}

func TestConfigure(t *testing.T) {
	bus := &fakeI2C{}
	d := New(bus)
	require.NoError(t, d.Configure(Config{Address: AddressA, Outputs: 0b0000_0011}))

	assert.Equal(t, uint16(AddressA), bus.addr)
	assert.Equal(t, []uint8{0b1111_1100}, bus.writes)
	assert.Equal(t, uint8(0b1111_1100), d.Latch())
}

func TestGetAndPinSample(t *testing.T) {
	bus := &fakeI2C{input: 0b0000_1000}
	d := New(bus)
	require.NoError(t, d.Configure(Config{}))
	assert.Equal(t, uint16(Address), bus.addr)

	lvl, err := d.Get(3)
	require.NoError(t, err)
	assert.True(t, lvl)

	lvl, err = d.Pin(2).Sample()
	require.NoError(t, err)
	assert.False(t, lvl)

	// Pulled-up button to ground: pressed reads Low, inverted to High.
	var s line.Sampler = line.Invert(d.Pin(2))
	lvl, err = s.Sample()
	require.NoError(t, err)
	assert.True(t, lvl)
}

func TestSetKeepsOtherPins(t *testing.T) {
	bus := &fakeI2C{}
	d := New(bus)
	require.NoError(t, d.Set(0, false))
	require.NoError(t, d.Set(7, false))
	require.NoError(t, d.Set(0, true))
	assert.Equal(t, []uint8{0b1111_1110, 0b0111_1110, 0b0111_1111}, bus.writes)
}

func TestErrors(t *testing.T) {
	d := New(&fakeI2C{})
	_, err := d.Get(8)
	assert.Equal(t, errcode.UnknownPin, errcode.Of(err))
	assert.Equal(t, errcode.UnknownPin, errcode.Of(d.Set(9, true)))

	nack := errors.New("nack")
	bus := &fakeI2C{err: nack}
	d = New(bus)
	_, err = d.Pin(1).Sample()
	assert.ErrorIs(t, err, nack)
	assert.Equal(t, errcode.BusIO, errcode.Of(err))

	err = d.WritePort(0)
	assert.ErrorIs(t, err, errcode.BusIO)
	assert.Equal(t, uint8(0xFF), d.Latch(), "latch unchanged on failed write")
}

func TestPolledLineOverExpander(t *testing.T) {
	bus := &fakeI2C{input: 0xFF}
	d := New(bus)
	l := line.NewPolled(line.Invert(d.Pin(4)))
	assert.False(t, l.Get(), "released button reads High, inverted Low")

	bus.input = 0xFF &^ (1 << 4)
	assert.True(t, l.Get())
	assert.Equal(t, 4, d.Pin(4).Number())
}
