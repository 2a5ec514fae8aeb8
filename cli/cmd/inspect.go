package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/lutgen/lang"
	"github.com/ardnew/lutgen/log"
)

// Inspect parses a specification and prints it in the chosen format.
type Inspect struct {
	Native Native `cmd:"" default:"withargs" help:"Print canonical specification syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Print as JSON with shape and cell count."`
	YAML   YAML   `cmd:""                    help:"Print as YAML with shape and cell count."`
}

// Native prints a specification in canonical syntax.
type Native struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native command.
func (n *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	spec, err := parseSource(ctx, n.Source, "native")
	if err != nil {
		return err
	}

	return spec.Format(ctx, outputFrom(ctx))
}

// JSON prints a specification as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	spec, err := parseSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	return spec.FormatJSON(ctx, outputFrom(ctx), j.Indent)
}

// YAML prints a specification as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output; 0 for flow style" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	spec, err := parseSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	return spec.FormatYAML(ctx, outputFrom(ctx), y.Indent)
}

// parseSource reads and parses the specification in source.
func parseSource(ctx context.Context, source, format string) (*lang.Spec, error) {
	data, err := readSource(ctx, source)
	if err != nil {
		return nil, ErrInspect.Wrap(err).In(source)
	}

	spec, err := lang.ParseCached(ctx, string(data), lang.WithLogger(log.Default()))
	if err != nil {
		return nil, ErrInspect.Wrap(err).In(source).With(
			slog.String("format", format),
		)
	}

	return spec, nil
}
