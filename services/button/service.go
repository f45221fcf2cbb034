// Package button runs the press classifier for one input line as a bus
// service.
//
// Topics (name defaults to "user", or "name" from config/button):
//
//	config/button                  in   types.ButtonConfig (retained)
//	button/<name>/press            out  types.ButtonPress, one per press
//	button/<name>/stats            out  types.ButtonStats (retained)
//	button/<name>/info             out  types.Info (retained)
//	button/<name>/state            out  types.ServiceState (retained)
//	button/<name>/control/<verb>   req  "stats" -> types.ButtonStats
package button

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"buttoncode-go/bus"
	core "buttoncode-go/button"
	"buttoncode-go/errcode"
	"buttoncode-go/services/internal/util"
	"buttoncode-go/types"
	"buttoncode-go/x/signal"
	"buttoncode-go/x/timex"
)

const (
	serviceName = "button"
	DefaultName = "user"

	ctrlStats = "stats"
)

var topicConfigButton = bus.T("config", "button")

type Service struct {
	line      core.Line
	clock     clockwork.Clock
	log       logrus.FieldLogger
	sig       *signal.Signal[types.ButtonPress]
	name      string
	fixedName bool

	mu    sync.Mutex
	cfg   types.ButtonConfig
	stats types.ButtonStats
	seq   uint32
}

type Option func(*Service)

// WithName pins the button name; config/button cannot change it.
func WithName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.name, s.fixedName = name, true
		}
	}
}

func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSignal makes the service also post every press to sig.
func WithSignal(sig *signal.Signal[types.ButtonPress]) Option {
	return func(s *Service) { s.sig = sig }
}

// WithConfig sets the initial timings before any config/button message.
func WithConfig(cfg types.ButtonConfig) Option {
	return func(s *Service) { s.cfg = cfg }
}

func New(line core.Line, opts ...Option) *Service {
	s := &Service{
		line:  line,
		clock: clockwork.NewRealClock(),
		log:   logrus.StandardLogger(),
		name:  DefaultName,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Name returns the button name. Before Run has applied the initial config it
// is the default or the name fixed by WithName.
func (s *Service) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Stats returns a snapshot of the press counters.
func (s *Service) Stats() types.ButtonStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.Name = s.name
	return st
}

// Start runs the service in a goroutine until ctx is cancelled.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go func() {
		if err := s.Run(ctx, conn); err != nil {
			s.log.WithError(err).Error("button service stopped")
		}
	}()
	return nil
}

// Run classifies presses until ctx is cancelled. Config changes take effect
// from the next press.
func (s *Service) Run(ctx context.Context, conn *bus.Connection) error {
	cfgSub := conn.Subscribe(topicConfigButton)
	defer conn.Unsubscribe(cfgSub)

	// The retained config is already queued; apply it before the name is
	// used for any topic.
	s.drainConfig(cfgSub, true)
	s.log = s.log.WithFields(logrus.Fields{"service": serviceName, "button": s.Name()})

	ctlSub := conn.Subscribe(s.topic("control", bus.SingleLevel))
	defer conn.Unsubscribe(ctlSub)
	go s.serveControl(conn, ctlSub)

	s.publishInfo(conn)
	s.publishState(conn, "ready")
	s.log.Info("button service started")

	for {
		if s.drainConfig(cfgSub, false) {
			s.publishInfo(conn)
		}

		b := core.New(s.line, s.buttonOptions()...)
		pd, err := b.PressDuration(ctx)
		if err != nil {
			s.publishState(conn, "stopped")
			s.log.Info("button service stopping")
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.record(conn, pd)
	}
}

// drainConfig applies every queued config/button message without blocking
// and reports whether any of them was accepted.
func (s *Service) drainConfig(sub *bus.Subscription, initial bool) bool {
	changed := false
	for {
		select {
		case msg, ok := <-sub.Channel():
			if !ok {
				return changed
			}
			if s.applyConfig(msg.Payload, initial) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (s *Service) applyConfig(payload any, initial bool) bool {
	var cfg types.ButtonConfig
	if err := util.DecodeJSON(payload, &cfg); err != nil {
		s.log.WithError(errcode.Wrap(errcode.InvalidPayload, "button.config", err)).Warn("ignoring button config")
		return false
	}
	want := cfg.Name
	s.mu.Lock()
	rename := want != "" && want != s.name
	if rename && initial && !s.fixedName {
		s.name, rename = want, false
	}
	cfg.Name = ""
	s.cfg = cfg
	s.mu.Unlock()

	if rename {
		s.log.WithField("name", want).Warn("button rename needs a restart; keeping current name")
	}
	return true
}

func (s *Service) buttonOptions() []core.Option {
	s.mu.Lock()
	deb, long := s.cfg.Timings()
	s.mu.Unlock()

	opts := []core.Option{core.WithClock(s.clock)}
	if deb > 0 {
		opts = append(opts, core.WithDebounce(deb))
	}
	if long > 0 {
		opts = append(opts, core.WithLongPress(long))
	}
	return opts
}

func (s *Service) record(conn *bus.Connection, pd core.PressDuration) {
	now := timex.NowMs()

	s.mu.Lock()
	s.seq++
	switch pd {
	case core.Short:
		s.stats.Short++
	case core.Long:
		s.stats.Long++
	}
	s.stats.Last = pd.String()
	s.stats.TS = now
	ev := types.ButtonPress{Name: s.name, Duration: pd.String(), Seq: s.seq, TS: now}
	s.mu.Unlock()

	conn.Publish(conn.NewMessage(s.topic("press"), ev, false))
	conn.Publish(conn.NewMessage(s.topic("stats"), s.Stats(), true))
	if s.sig != nil {
		s.sig.Signal(ev)
	}
	s.log.WithFields(logrus.Fields{"press": ev.Duration, "seq": ev.Seq}).Info("button press")
}

func (s *Service) serveControl(conn *bus.Connection, sub *bus.Subscription) {
	for msg := range sub.Channel() {
		verb, _ := msg.Topic[len(msg.Topic)-1].(string)
		switch verb {
		case ctrlStats:
			conn.Reply(msg, s.Stats(), false)
		default:
			conn.Reply(msg, errcode.Unsupported, false)
		}
	}
}

func (s *Service) publishInfo(conn *bus.Connection) {
	b := core.New(s.line, s.buttonOptions()...)
	info := types.Info{
		SchemaVersion: 1,
		Kind:          types.KindButton,
		Driver:        "press_duration",
		Detail: types.ButtonInfo{
			Name:        s.Name(),
			DebounceMs:  timex.Millis(b.Debounce()),
			LongPressMs: timex.Millis(b.LongPress()),
		},
	}
	conn.Publish(conn.NewMessage(s.topic("info"), info, true))
}

func (s *Service) publishState(conn *bus.Connection, level string) {
	st := types.ServiceState{Level: level, Status: "ok", TS: timex.NowMs()}
	conn.Publish(conn.NewMessage(s.topic("state"), st, true))
}

func (s *Service) topic(leaf ...any) bus.Topic {
	return bus.T(append([]any{serviceName, s.Name()}, leaf...)...)
}
