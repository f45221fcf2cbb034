package line

// Sampler reads the instantaneous level of a pin. true means High.
// A read failure is reported as an error; polled lines skip such samples.
type Sampler interface {
	Sample() (bool, error)
}

// SamplerFunc adapts a plain function to Sampler.
type SamplerFunc func() (bool, error)

func (f SamplerFunc) Sample() (bool, error) { return f() }

// Getter is the read side of a GPIO pin (TinyGo machine.Pin, host pins).
type Getter interface {
	Get() bool
}

type pinSampler struct{ p Getter }

func (s pinSampler) Sample() (bool, error) { return s.p.Get(), nil }

// PinSampler samples a pin that cannot fail to read.
func PinSampler(p Getter) Sampler { return pinSampler{p: p} }

type inverted struct{ s Sampler }

func (i inverted) Sample() (bool, error) {
	lvl, err := i.s.Sample()
	if err != nil {
		return false, err
	}
	return !lvl, nil
}

// Invert flips the logical level, for buttons wired to ground with a pull-up
// (pressed reads Low electrically).
func Invert(s Sampler) Sampler {
	if i, ok := s.(inverted); ok {
		return i.s
	}
	return inverted{s: s}
}
