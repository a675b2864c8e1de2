package lang

import (
	"github.com/ardnew/formula/log"
)

// config holds the settings shared by compilation and evaluation.
type config struct {
	logger  log.Logger // structured logger, no-op when zero
	suggest bool       // attach fuzzy suggestions to InvalidToken
}

// Option configures compilation or evaluation behavior.
type Option func(*config)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithSuggestions controls whether an unknown identifier is reported with
// the closest registered name. It is enabled by default.
func WithSuggestions(suggest bool) Option {
	return func(c *config) {
		c.suggest = suggest
	}
}

// makeConfig applies opts over the defaults.
func makeConfig(opts ...Option) config {
	c := config{suggest: true}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}
