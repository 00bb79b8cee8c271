package common

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"
)

// ServiceLogger provides structured logging scoped to a DI service.
type ServiceLogger struct {
	svc container.IInstance
}

// NewServiceLogger creates a new logger for a service
func NewServiceLogger(svc container.IInstance) *ServiceLogger {
	return &ServiceLogger{svc: svc}
}

func (l *ServiceLogger) Info() *zerolog.Event {
	return log.Info().Str("service", l.svc.ID())
}

func (l *ServiceLogger) Warn() *zerolog.Event {
	return log.Warn().Str("service", l.svc.ID())
}

func (l *ServiceLogger) Error(err error) *zerolog.Event {
	return log.Error().Str("service", l.svc.ID()).Err(err)
}

// SetGlobalLevel applies the configured log level; unknown values keep the
// zerolog default.
func SetGlobalLevel(level string) {
	if lvl, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}
