package gen

import "github.com/ardnew/lutgen/log"

// DefaultMaxCells is the default limit on the number of cells per table.
// Every cell becomes source text, so the limit is lower than the runtime
// table default.
const DefaultMaxCells = 1 << 16

// Option configures code generation.
type Option func(*options)

type options struct {
	logger    log.Logger
	generator string
	source    string
	imports   []string
	maxCells  uint64
}

// WithLogger sets the logger used to trace generation.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxCells sets the maximum number of cells per table.
func WithMaxCells(n uint64) Option {
	return func(o *options) {
		o.maxCells = n
	}
}

// WithGenerator sets the program name recorded in the generated file header.
func WithGenerator(name string) Option {
	return func(o *options) {
		o.generator = name
	}
}

// WithSource sets the input file name recorded in the generated file header.
func WithSource(name string) Option {
	return func(o *options) {
		o.source = name
	}
}

// WithImports adds import paths needed by go mode bodies or return types.
func WithImports(paths ...string) Option {
	return func(o *options) {
		o.imports = append(o.imports, paths...)
	}
}

// applyDefaults sets default option values.
func applyDefaults(o *options) {
	o.generator = "lutgen"
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
