//go:build rp2040

// pico-button classifies presses on GP15 (pull-down, pressed = High) and
// reports each one on the console and as "<seq> <duration>" lines on UART0.
package main

import (
	"context"
	"machine"
	"runtime"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"buttoncode-go/bus"
	"buttoncode-go/button"
	"buttoncode-go/line"
	"buttoncode-go/types"
	"buttoncode-go/x/conv"
	"buttoncode-go/x/timex"
)

const (
	buttonPin = machine.GP15
	uartBaud  = 115200
)

var topicPress = bus.T("button", "user", "press")

func printTopicWith(prefix string, t bus.Topic) {
	print(prefix)
	print(" ")
	for i := 0; i < t.Len(); i++ {
		if i > 0 {
			print("/")
		}
		switch v := t.At(i).(type) {
		case string:
			print(v)
		case int:
			print(v)
		default:
			print("?")
		}
	}
	println()
}

func main() {
	time.Sleep(2 * time.Second)
	ctx := context.Background()

	println("Info: configuring pins")
	buttonPin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	uart := uartx.UART0
	if err := uart.Configure(uartx.UARTConfig{
		BaudRate: uartBaud,
		TX:       machine.GP0,
		RX:       machine.GP1,
	}); err != nil {
		println("Error: uart0 configure:", err.Error())
	}

	b := bus.NewBus(4)
	btnConn := b.NewConnection("button")
	uiConn := b.NewConnection("ui")

	var out [32]byte
	mon := uiConn.Subscribe(bus.T("button", bus.MultiLevel))
	go func() {
		for m := range mon.Channel() {
			ev, ok := m.Payload.(types.ButtonPress)
			if !ok {
				continue
			}
			printTopicWith("Info: <-", m.Topic)
			if _, err := uart.Write(conv.AppendPress(out[:0], ev.Seq, ev.Duration)); err != nil {
				println("Error: uart0 write:", err.Error())
			}
			if ev.Duration == button.Long.String() {
				led.Set(!led.Get())
			}
		}
	}()

	btn := button.New(line.NewPolled(line.PinSampler(buttonPin)))
	println("Info: waiting for presses")

	var seq uint32
	for {
		pd, err := btn.PressDuration(ctx)
		if err != nil {
			println("Error: press:", err.Error())
			continue
		}
		seq++
		btnConn.Publish(btnConn.NewMessage(topicPress, types.ButtonPress{
			Name:     "user",
			Duration: pd.String(),
			Seq:      seq,
			TS:       timex.NowMs(),
		}, false))
		printMem()
	}
}

func printMem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	println("Info: mem alloc:", uint32(ms.Alloc), "heapInuse:", uint32(ms.HeapInuse))
}
