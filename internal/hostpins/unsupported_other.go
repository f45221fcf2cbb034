//go:build !linux

package hostpins

import "buttoncode-go/errcode"

func OpenRPIO(int, Pull) (Input, error) {
	return nil, &errcode.E{C: errcode.Unsupported, Op: "rpio.open", Msg: "linux only"}
}

func OpenCdev(string, int, Pull) (Input, error) {
	return nil, &errcode.E{C: errcode.Unsupported, Op: "gpiocdev.request", Msg: "linux only"}
}
