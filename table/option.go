package table

import "github.com/ardnew/lutgen/log"

// DefaultMaxCells is the default limit on the number of cells in a table.
const DefaultMaxCells = 1 << 20

// Option configures table construction.
type Option func(*options)

type options struct {
	logger   log.Logger
	maxCells uint64
}

// WithLogger sets the logger used to trace table construction.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxCells sets the maximum number of cells a table may hold.
// Specifications exceeding it are rejected with [lang.ErrTooLarge].
func WithMaxCells(n uint64) Option {
	return func(o *options) {
		o.maxCells = n
	}
}

// applyDefaults sets default option values.
func applyDefaults(o *options) {
	o.maxCells = DefaultMaxCells
}

// applyOptions applies functional options.
func applyOptions(o *options, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
}
