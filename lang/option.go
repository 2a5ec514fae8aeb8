package lang

import "github.com/ardnew/lutgen/log"

// Option configures parsing.
type Option func(*options)

type options struct {
	logger log.Logger
}

// WithLogger sets the logger used to trace parsing.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// applyOptions returns the default options overridden by opts.
func applyOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
