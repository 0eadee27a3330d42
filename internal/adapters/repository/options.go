package repository

import (
	"github.com/okian/agentdesk/internal/domain/ident"
	"github.com/okian/agentdesk/pkg/logger"
	"github.com/okian/agentdesk/pkg/metrics"
)

type settings struct {
	name    string
	ids     IDGenerator
	logger  logger.Logger
	metrics *metrics.Manager
}

func defaultSettings(key string) settings {
	return settings{
		name:    key,
		ids:     ident.New(),
		metrics: metrics.Global(),
	}
}

// Option applies a configuration option to a Collection or Value.
type Option func(*settings)

// WithName sets the label used in logs and metrics. Defaults to the storage key.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithIDGenerator sets the source of fresh identifiers.
func WithIDGenerator(ids IDGenerator) Option {
	return func(s *settings) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager. Defaults to the global one.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *settings) {
		if m != nil {
			s.metrics = m
		}
	}
}
