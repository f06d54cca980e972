package view

import (
	"log/slog"

	"github.com/dshills/proseline/internal/metrics"
	"github.com/dshills/proseline/internal/plugin"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the collectors the controller reports to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithRegistry sets the handler registry. The default holds
// plugin.Builtins.
func WithRegistry(r *plugin.Registry) Option {
	return func(c *Controller) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithPanicRecovery sets whether handler panics are recovered. It is on
// by default.
func WithPanicRecovery(recover bool) Option {
	return func(c *Controller) {
		c.recover = recover
	}
}
