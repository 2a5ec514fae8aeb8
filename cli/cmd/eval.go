package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/lutgen/log"
	"github.com/ardnew/lutgen/table"
)

// Eval builds a table at run time with expr-lang and prints cells.
type Eval struct {
	Spec     string `arg:"" help:"Table specification."                         name:"spec"`
	Index    []uint `arg:"" help:"Zero-based index into each dimension."        name:"index" optional:""`
	All      bool   `help:"Print every cell with its parameter values." short:"a"`
	MaxCells uint64 `default:"1048576" help:"Maximum number of cells."`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := []table.Option{table.WithLogger(log.Default())}
	if e.MaxCells > 0 {
		opts = append(opts, table.WithMaxCells(e.MaxCells))
	}

	tbl, err := table.Compile[any](ctx, e.Spec, opts...)
	if err != nil {
		return ErrEvaluate.Wrap(err).In(argOrigin).With(slog.String("spec", e.Spec))
	}

	w := outputFrom(ctx)

	if e.All {
		names := tbl.Spec().Names()

		for p, v := range tbl.All() {
			pairs := make([]string, len(names))
			for i, name := range names {
				pairs[i] = fmt.Sprintf("%s=%d", name, p.At(i))
			}

			fmt.Fprintf(w, "%s: %v\n", strings.Join(pairs, " "), v)
		}

		return nil
	}

	v, err := tbl.Lookup(e.Index...)
	if err != nil {
		return ErrEvaluate.Wrap(err).With(
			slog.String("spec", e.Spec),
			slog.Any("index", e.Index),
		)
	}

	fmt.Fprintln(w, v)

	return nil
}
