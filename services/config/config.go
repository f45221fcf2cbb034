package config

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"buttoncode-go/bus"
	"buttoncode-go/errcode"
)

const (
	serviceName  = "config"
	configPrefix = "config"
)

type ctxKey string

// CtxDeviceKey is the context key holding the device ID whose config is published.
const CtxDeviceKey ctxKey = "device"

// WithDevice returns a context carrying the device ID.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, CtxDeviceKey, device)
}

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
	log  logrus.FieldLogger
}

func NewConfigService() *ConfigService {
	return &ConfigService{
		Name: serviceName,
		log:  logrus.WithField("service", serviceName),
	}
}

// WithLogger replaces the service logger.
func (s *ConfigService) WithLogger(l logrus.FieldLogger) *ConfigService {
	if l != nil {
		s.log = l.WithField("service", s.Name)
	}
	return s
}

// publishConfig reads the device config from embedded data and publishes each
// top-level key as a retained "config/<key>" message.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return &errcode.E{C: errcode.InvalidParams, Op: "config.publish", Msg: "missing device ID in context"}
	}

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return &errcode.E{C: errcode.UnknownDevice, Op: "config.publish", Msg: "no embedded config for device " + device}
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return errcode.Wrap(errcode.InvalidPayload, "config.publish", err)
	}
	if m == nil {
		return &errcode.E{C: errcode.InvalidPayload, Op: "config.publish", Msg: "embedded config is not a JSON object"}
	}

	for k, v := range m {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), v, true))
	}
	s.log.WithFields(logrus.Fields{"device": device, "keys": len(m)}).Info("published config")
	return nil
}

// Publish publishes the device config synchronously, so services started
// afterwards see it as retained messages on subscribe.
func (s *ConfigService) Publish(ctx context.Context, conn *bus.Connection) error {
	return s.publishConfig(ctx, conn)
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			s.log.WithError(err).Warn("config not published")
		}
	}()
}
