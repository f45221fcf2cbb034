package heartbeat

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"buttoncode-go/bus"
	"buttoncode-go/services/internal/util"
	"buttoncode-go/types"
	"buttoncode-go/x/timex"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat")
	topicButtonPresses   = bus.T("button", bus.SingleLevel, "press")
	topicBeat            = bus.T("heartbeat", "beat")
)

const defaultInterval = time.Second

type Service struct {
	Interval time.Duration
	Log      logrus.FieldLogger

	mu          sync.Mutex
	short, long uint32
}

// Counts returns the presses seen so far.
func (s *Service) Counts() (short, long uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.short, s.long
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	pressSub := conn.Subscribe(topicButtonPresses)
	defer conn.Unsubscribe(pressSub)

	log := s.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("service", "heartbeat")

	interval := s.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	start := time.Now()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	// loop until context is cancelled, respond to tick, presses and config changes
	for {
		select {
		case <-ctx.Done():
			log.Info("heartbeat service stopping")
			return
		case t := <-tick.C:
			short, long := s.Counts()
			beat := types.Heartbeat{
				UptimeMs: t.Sub(start).Milliseconds(),
				Short:    short,
				Long:     long,
				TS:       timex.NowMs(),
			}
			conn.Publish(conn.NewMessage(topicBeat, beat, false))
			log.WithFields(logrus.Fields{
				"uptime": t.Sub(start).Round(time.Second).String(),
				"short":  short,
				"long":   long,
			}).Info("heartbeat")
		case msg := <-pressSub.Channel():
			var ev types.ButtonPress
			if err := util.DecodeJSON(msg.Payload, &ev); err != nil {
				continue
			}
			s.mu.Lock()
			switch ev.Duration {
			case "short":
				s.short++
			case "long":
				s.long++
			}
			s.mu.Unlock()
		case msg := <-cfgSub.Channel():
			var cfg types.HeartbeatConfig
			if err := util.DecodeJSON(msg.Payload, &cfg); err != nil {
				log.WithField("payload", msg.Payload).Warn("ignoring heartbeat config")
				continue
			}
			period, ok := cfg.Period()
			if !ok {
				log.WithField("payload", msg.Payload).Warn("ignoring heartbeat config")
				continue
			}
			tick.Reset(period)
			log.WithField("interval", period.String()).Info("heartbeat interval set")
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
