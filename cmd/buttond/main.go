// buttond classifies presses on a real GPIO line and publishes them on the
// in-process bus, logging each one.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"buttoncode-go/bus"
	"buttoncode-go/drivers/pcf8574"
	"buttoncode-go/internal/hostpins"
	"buttoncode-go/line"
	btnsvc "buttoncode-go/services/button"
	"buttoncode-go/services/config"
	"buttoncode-go/services/heartbeat"
)

func main() {
	app := cli.NewApp()
	app.Name = "buttond"
	app.Usage = "classify presses on a GPIO line as short or long"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "backend",
			Value: "periph",
			Usage: "pin access: periph, rpio, cdev or pcf8574",
		},
		cli.StringFlag{
			Name:  "pin",
			Value: "GPIO17",
			Usage: "pin name (periph), BCM number (rpio), line offset (cdev) or expander pin 0-7 (pcf8574)",
		},
		cli.StringFlag{
			Name:  "chip",
			Value: "gpiochip0",
			Usage: "GPIO chip for the cdev backend",
		},
		cli.StringFlag{
			Name:  "i2c-bus",
			Usage: "I2C bus for the pcf8574 backend (empty = first bus)",
		},
		cli.IntFlag{
			Name:  "addr",
			Value: pcf8574.Address,
			Usage: "pcf8574 I2C address",
		},
		cli.StringFlag{
			Name:  "pull",
			Value: "down",
			Usage: "input bias: up, down or none (pcf8574 pins are always weakly pulled up)",
		},
		cli.BoolFlag{
			Name:  "invert",
			Usage: "treat Low as pressed (button to ground with pull-up)",
		},
		cli.DurationFlag{
			Name:  "poll",
			Value: line.DefaultPollPeriod,
			Usage: "line poll period",
		},
		cli.StringFlag{
			Name:  "device",
			Value: "rpi",
			Usage: "embedded device config to publish",
		},
		cli.StringFlag{
			Name:  "name",
			Usage: "button name (overrides device config)",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "logrus level",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Error("buttond failed")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	log := logrus.New()
	lvl, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	log.SetLevel(lvl)

	pull, err := hostpins.ParsePull(c.String("pull"))
	if err != nil {
		return err
	}
	in, err := openInput(pinSpec{
		backend: c.String("backend"),
		pin:     c.String("pin"),
		chip:    c.String("chip"),
		i2cBus:  c.String("i2c-bus"),
		addr:    uint16(c.Int("addr")),
		pull:    pull,
		pullSet: c.IsSet("pull"),
	})
	if err != nil {
		return err
	}
	defer in.Close()

	if c.String("backend") == "pcf8574" && !c.Bool("invert") {
		log.Warn("pcf8574 pins idle High; a button to ground needs --invert")
	}

	var src line.Sampler = in
	if c.Bool("invert") {
		src = line.Invert(src)
	}
	ln := line.NewPolled(src, line.WithPollPeriod(c.Duration("poll")))

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bus.NewBus(8)
	dctx := config.WithDevice(ctx, c.String("device"))
	if err := config.NewConfigService().WithLogger(log).Publish(dctx, b.NewConnection("config")); err != nil {
		return err
	}

	hb := &heartbeat.Service{Log: log}
	if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		return err
	}

	svc := btnsvc.New(ln, btnsvc.WithName(c.String("name")), btnsvc.WithLogger(log))
	log.WithFields(logrus.Fields{
		"backend": c.String("backend"),
		"pin":     c.String("pin"),
		"poll":    c.Duration("poll").String(),
	}).Info("buttond starting")

	err = svc.Run(ctx, b.NewConnection("button"))
	if n := ln.Errors(); n > 0 {
		log.WithField("errors", n).Warn("line sample errors")
	}
	return err
}

type pinSpec struct {
	backend string
	pin     string
	chip    string
	i2cBus  string
	addr    uint16
	pull    hostpins.Pull
	pullSet bool
}

// openInput opens the pin named by spec on the selected backend.
func openInput(spec pinSpec) (hostpins.Input, error) {
	switch spec.backend {
	case "periph":
		return hostpins.OpenPeriph(spec.pin, spec.pull)
	case "rpio":
		n, err := pinNumber(spec.pin)
		if err != nil {
			return nil, err
		}
		return hostpins.OpenRPIO(n, spec.pull)
	case "cdev":
		n, err := pinNumber(spec.pin)
		if err != nil {
			return nil, err
		}
		return hostpins.OpenCdev(spec.chip, n, spec.pull)
	case "pcf8574":
		n, err := pinNumber(spec.pin)
		if err != nil {
			return nil, err
		}
		if n >= pcf8574.NumPins {
			return nil, fmt.Errorf("pin %d: expander has %d pins", n, pcf8574.NumPins)
		}
		if spec.pullSet && spec.pull != hostpins.PullUp {
			return nil, fmt.Errorf("pcf8574 pins only have a weak pull-up; drop --pull and wire the button to ground with --invert")
		}
		i2c, err := hostpins.OpenI2C(spec.i2cBus)
		if err != nil {
			return nil, err
		}
		dev := pcf8574.New(i2c)
		if err := dev.Configure(pcf8574.Config{Address: spec.addr}); err != nil {
			i2c.Close()
			return nil, err
		}
		return expanderInput{Sampler: dev.Pin(uint8(n)), Closer: i2c}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", spec.backend)
}

type expanderInput struct {
	line.Sampler
	io.Closer
}

func pinNumber(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 0 {
		return 0, fmt.Errorf("pin %q: want a non-negative number", s)
	}
	return n, nil
}
