// buttonsim runs the press classifier on a simulated line, either from a
// script of press lengths or interactively in the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"buttoncode-go/bus"
	"buttoncode-go/line"
	btnsvc "buttoncode-go/services/button"
	"buttoncode-go/services/config"
	"buttoncode-go/services/heartbeat"
	"buttoncode-go/types"
	"buttoncode-go/x/signal"
	"buttoncode-go/x/timex"
)

func main() {
	app := cli.NewApp()
	app.Name = "buttonsim"
	app.Usage = "classify simulated button presses as short or long"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.DurationFlag{
			Name:  "debounce",
			Usage: "debounce delay (0 = device config)",
		},
		cli.DurationFlag{
			Name:  "long-press",
			Usage: "long press threshold (0 = device config)",
		},
		cli.StringFlag{
			Name:  "script",
			Usage: "comma separated press lengths, 'b' suffix adds contact bounce (e.g. 300ms,700ms,200msb)",
		},
		cli.BoolFlag{
			Name:  "interactive",
			Usage: "drive the line from the keyboard (space toggles, q quits)",
		},
		cli.StringFlag{
			Name:  "name",
			Usage: "button name (overrides device config)",
		},
		cli.StringFlag{
			Name:  "device",
			Value: "sim",
			Usage: "embedded device config to publish",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "logrus level",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Error("buttonsim failed")
		os.Exit(1)
	}
}

// sim is the running simulator: one line, one bus, the services on top.
type sim struct {
	line *line.Sim
	sig  *signal.Signal[types.ButtonPress]
	svc  *btnsvc.Service
}

func run(c *cli.Context) error {
	log := logrus.New()
	lvl, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	log.SetLevel(lvl)

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Bool("interactive") {
		// The screen owns the terminal; keep log lines off it.
		log.SetOutput(io.Discard)
	}

	s, err := startSim(ctx, simOptions{
		device:   c.String("device"),
		name:     c.String("name"),
		debounce: c.Duration("debounce"),
		long:     c.Duration("long-press"),
	}, log)
	if err != nil {
		return err
	}

	switch {
	case c.Bool("interactive"):
		return runInteractive(ctx, s)
	case c.String("script") != "":
		steps, err := parseScript(c.String("script"))
		if err != nil {
			return err
		}
		return runScript(ctx, s, steps, os.Stdout)
	default:
		cli.ShowAppHelp(c)
		return fmt.Errorf("one of --script or --interactive is required")
	}
}

type simOptions struct {
	device   string
	name     string
	debounce time.Duration
	long     time.Duration
}

func startSim(ctx context.Context, opt simOptions, log logrus.FieldLogger) (*sim, error) {
	b := bus.NewBus(8)
	cfgConn := b.NewConnection("config")

	dctx := config.WithDevice(ctx, opt.device)
	if err := config.NewConfigService().WithLogger(log).Publish(dctx, cfgConn); err != nil {
		return nil, err
	}

	if opt.debounce > 0 || opt.long > 0 || opt.name != "" {
		override := types.ButtonConfig{
			Name:        opt.name,
			DebounceMs:  timex.Millis(opt.debounce),
			LongPressMs: timex.Millis(opt.long),
		}
		cfgConn.Publish(cfgConn.NewMessage(bus.T("config", "button"), override, true))
	}

	hb := &heartbeat.Service{Log: log}
	if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		return nil, err
	}

	s := &sim{
		line: line.NewSim(false),
		sig:  signal.New[types.ButtonPress](),
	}
	s.svc = btnsvc.New(s.line, btnsvc.WithLogger(log), btnsvc.WithSignal(s.sig))

	if err := s.svc.Start(ctx, b.NewConnection("button")); err != nil {
		return nil, err
	}
	return s, nil
}

// waitIdle blocks until the classifier is waiting for the next press.
func (s *sim) waitIdle(ctx context.Context) error {
	for s.line.Pending(line.WaitHigh) == 0 || s.line.Get() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
	return nil
}
