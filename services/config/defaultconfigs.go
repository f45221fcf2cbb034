package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx with WithDevice)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgPico = `{
  "button": {
      "name": "user",
      "debounce_ms": 10,
      "long_press_ms": 500
  },
  "heartbeat": {
      "interval": 2
  }
}`

const cfgRPi = `{
  "button": {
      "name": "door",
      "debounce_ms": 20,
      "long_press_ms": 800
  },
  "heartbeat": {
      "interval": 10
  }
}`

const cfgSim = `{
  "button": {
      "name": "sim"
  },
  "heartbeat": {
      "interval": 5
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"rpi":  []byte(cfgRPi),
	"sim":  []byte(cfgSim),
}
