package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/lutgen/gen"
	"github.com/ardnew/lutgen/lang"
	"github.com/ardnew/lutgen/log"
	"github.com/ardnew/lutgen/manifest"
)

// Check validates table specifications and reports diagnostics with the
// offending source line.
type Check struct {
	Sources []string `arg:"" help:"Manifest or specification files, '-' for stdin." optional:""`
	Spec    []string `help:"Inline specification to check (repeatable)." short:"s"`
	Mode    gen.Mode `default:"go" help:"Body mode used for plain specifications (go, expr)." short:"m"`
	Color   bool     `default:"true" help:"Style diagnostics." negatable:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if len(c.Sources) == 0 && len(c.Spec) == 0 {
		return ErrNoInput
	}

	r := newReport(outputFrom(ctx), c.Color)

	for _, s := range c.Spec {
		r.check(ctx, "--spec", gen.Unit{Name: "Table", Mode: c.Mode}, s)
	}

	for _, src := range uniqueSources(c.Sources) {
		if _, err := manifest.FormatOf(src); err == nil && src != stdinSource {
			c.checkManifest(ctx, r, src)

			continue
		}

		data, err := readSource(ctx, src)
		if err != nil {
			r.fail(src, "", err)

			continue
		}

		r.check(ctx, src, gen.Unit{Name: "Table", Mode: c.Mode}, string(data))
	}

	if r.failed > 0 {
		return ErrCheck.With(
			slog.Int("failed", r.failed),
			slog.Int("passed", r.passed),
		)
	}

	return nil
}

func (c *Check) checkManifest(ctx context.Context, r *report, path string) {
	m, err := manifest.Load(path)
	if err != nil {
		r.fail(path, "", err)

		return
	}

	r.checkTables(ctx, path, m.Tables)
}

// checkTables checks each table of a manifest read from origin.
func (r *report) checkTables(ctx context.Context, origin string, tables []manifest.Table) {
	for _, t := range tables {
		mode, err := gen.ParseMode(t.Mode)
		if err != nil {
			r.fail(origin, t.Name, err)

			continue
		}

		r.check(ctx, origin, gen.Unit{Name: t.Name, Mode: mode, Doc: t.Doc}, t.Spec)
	}
}

// report renders check results.
type report struct {
	w      io.Writer
	bad    lipgloss.Style
	good   lipgloss.Style
	dim    lipgloss.Style
	failed int
	passed int
}

func newReport(w io.Writer, color bool) *report {
	renderer := lipgloss.NewRenderer(w)

	r := &report{
		w:    w,
		bad:  renderer.NewStyle(),
		good: renderer.NewStyle(),
		dim:  renderer.NewStyle(),
	}

	if color {
		r.bad = r.bad.Foreground(lipgloss.Color("1")).Bold(true)
		r.good = r.good.Foreground(lipgloss.Color("2"))
		r.dim = r.dim.Foreground(lipgloss.Color("8"))
	}

	return r
}

// check parses src and generates it into a discarded buffer, so that both
// specification and Go fragment errors are reported.
func (r *report) check(ctx context.Context, origin string, u gen.Unit, src string) {
	spec, err := lang.ParseString(ctx, src, lang.WithLogger(log.Default()))
	if err == nil {
		u.Spec = spec
		err = gen.Generate(ctx, io.Discard, u, gen.WithLogger(log.Default()))
	}

	if err != nil {
		r.fail(origin, u.Name, err)
		r.snippet(src, err)

		return
	}

	r.passed++

	cells, _ := spec.Cells()

	fmt.Fprintf(r.w, "%s %s: %s %s (%d cells)\n",
		r.good.Render("ok"), origin, u.Name, gen.TypeOf(spec), cells)
}

func (r *report) fail(origin, name string, err error) {
	r.failed++

	where := origin
	if name != "" {
		where += ": " + name
	}

	fmt.Fprintf(r.w, "%s %s: %v\n", r.bad.Render("error"), where, err)
}

func (r *report) snippet(src string, err error) {
	var le *lang.Error
	if !errors.As(err, &le) {
		return
	}

	for line := range strings.SplitSeq(strings.TrimSuffix(le.Snippet(src), "\n"), "\n") {
		if line != "" {
			fmt.Fprintln(r.w, r.dim.Render(line))
		}
	}
}
