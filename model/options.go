package model

import (
	"log/slog"
	"time"
)

type options struct {
	logger       *slog.Logger
	clock        func() time.Time
	defaultLimit int
}

// Option configures a Registry.
type Option func(*options)

// WithLogger sets the registry logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock sets the time source used by the default id generator.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithDefaultLimit caps declared queries whose options leave Limit unset.
// An injected limit never collapses a query result to a single document.
func WithDefaultLimit(n int) Option {
	return func(o *options) {
		o.defaultLimit = n
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	if o.defaultLimit < 0 {
		o.defaultLimit = 0
	}
	return o
}
