package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/lutgen/gen"
	"github.com/ardnew/lutgen/lang"
	"github.com/ardnew/lutgen/log"
	"github.com/ardnew/lutgen/manifest"
	"github.com/ardnew/lutgen/pkg"
)

// Gen generates a Go source file from a manifest or an inline specification.
type Gen struct {
	Manifest string   `arg:"" help:"Manifest file (yaml, json, toml, hcl)." optional:"" type:"existingfile"`
	Spec     string   `help:"Inline table specification, used instead of a manifest." short:"s"`
	Name     string   `default:"Table" help:"Accessor name of the inline table."      short:"n"`
	Mode     gen.Mode `default:"go"    help:"Body mode of the inline table (go, expr)." short:"m"`
	Doc      string   `help:"Doc comment of the inline table."`
	Package  string   `env:"GOPACKAGE" help:"Package name; overrides the manifest."   short:"p"`
	Output   string   `help:"Output file or '-' for stdout; overrides the manifest."   short:"o"`
	Imports  []string `help:"Import paths used by go mode bodies."`
	MaxCells uint64   `default:"65536" help:"Maximum number of cells per table."`
}

// Run executes the gen command.
func (g *Gen) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := g.manifest()
	if err != nil {
		return ErrGenerate.Wrap(err)
	}

	logger := log.Default()

	units, err := m.Units(ctx, lang.WithLogger(logger))
	if err != nil {
		return ErrGenerate.Wrap(err).In(g.origin(m))
	}

	pkgName := firstNonEmpty(g.Package, m.Package)
	if pkgName == "" {
		return ErrNoPackage
	}

	opts := []gen.Option{
		gen.WithLogger(logger),
		gen.WithGenerator(pkg.Name),
		gen.WithSource(sourceName(m.Source)),
		gen.WithImports(append(m.Imports, g.Imports...)...),
	}

	if g.MaxCells > 0 {
		opts = append(opts, gen.WithMaxCells(g.MaxCells))
	}

	src, err := gen.File(ctx, pkgName, units, opts...)
	if err != nil {
		return ErrGenerate.Wrap(err).With(slog.String("package", pkgName))
	}

	return g.write(ctx, g.outputPath(m), src)
}

// manifest returns the manifest named on the command line, or a manifest
// holding the single inline table.
func (g *Gen) manifest() (*manifest.Manifest, error) {
	switch {
	case g.Manifest != "" && g.Spec != "":
		return nil, errors.New("a manifest and --spec are mutually exclusive")

	case g.Manifest != "":
		return manifest.Load(g.Manifest)

	case g.Spec != "":
		return &manifest.Manifest{
			Source: os.Getenv("GOFILE"),
			Tables: []manifest.Table{{
				Name: g.Name,
				Spec: g.Spec,
				Mode: g.Mode.String(),
				Doc:  g.Doc,
			}},
		}, nil

	default:
		return nil, ErrNoInput
	}
}

// outputPath resolves the destination of the generated file. An inline
// table run by go generate writes next to $GOFILE; otherwise it writes to
// stdout.
func (g *Gen) outputPath(m *manifest.Manifest) string {
	switch {
	case g.Output != "":
		return g.Output
	case g.Manifest != "":
		return m.OutputPath()
	case m.Source != "":
		return strings.TrimSuffix(m.Source, filepath.Ext(m.Source)) + "_lut.go"
	default:
		return stdinSource
	}
}

// write writes src to path, leaving an existing file untouched if its
// content is identical.
func (g *Gen) write(ctx context.Context, path string, src []byte) error {
	if path == stdinSource {
		if _, err := outputFrom(ctx).Write(src); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	old, err := os.ReadFile(path)
	switch {
	case err == nil && xxh3.Hash128(old) == xxh3.Hash128(src):
		log.DebugContext(ctx, "generated file unchanged", slog.String("path", path))

		return nil

	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return ErrWriteOutput.Wrap(err).With(slog.String("path", path))
	}

	if err := context.Cause(ctx); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("path", path))
	}

	if err := replaceFile(path, src); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("path", path))
	}

	log.InfoContext(ctx, "generated file written",
		slog.String("path", path),
		slog.Int("bytes", len(src)))

	return nil
}

// replaceFile writes data to a temporary file beside path and renames it
// over path, so readers never observe a partial file.
func replaceFile(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()

		return err
	}

	if err = f.Chmod(0o644); err != nil { //nolint:gosec
		_ = f.Close()

		return err
	}

	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), path)
}

// origin names the source of the tables for error reports.
func (g *Gen) origin(m *manifest.Manifest) string {
	if m.Source != "" {
		return m.Source
	}

	return argOrigin
}

func sourceName(path string) string {
	if path == "" {
		return ""
	}

	return filepath.Base(path)
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}

	return ""
}
