package gen

import (
	"bytes"
	"context"
	"go/format"
	"go/token"
	"log/slog"
	"slices"
	"strconv"
)

// File generates a complete, gofmt-formatted Go source file in package pkg
// declaring every unit.
func File(ctx context.Context, pkg string, units []Unit, opts ...Option) ([]byte, error) {
	var o options

	applyDefaults(&o)
	applyOptions(&o, opts...)

	if !token.IsIdentifier(pkg) || pkg == "_" {
		return nil, ErrInvalidName.Wrapf("package name %q is not a Go identifier", pkg)
	}

	var buf bytes.Buffer

	writeHeader(&buf, pkg, o)

	seen := make(map[string]bool, len(units))

	for _, u := range units {
		if seen[u.Name] {
			return nil, ErrInvalidName.Wrapf("table %q declared more than once", u.Name)
		}

		seen[u.Name] = true

		if err := Generate(ctx, &buf, u, opts...); err != nil {
			return nil, err
		}
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, ErrGenerate.Wrap(err)
	}

	o.logger.DebugContext(ctx, "generated file",
		slog.String("package", pkg),
		slog.Int("tables", len(units)),
		slog.Int("bytes", len(src)))

	return src, nil
}

// Header returns the "Code generated" comment line recognized by Go tools.
func Header(generator, source string) string {
	s := "// Code generated by " + generator
	if source != "" {
		s += " from " + source
	}

	return s + ". DO NOT EDIT."
}

func writeHeader(buf *bytes.Buffer, pkg string, o options) {
	buf.WriteString(Header(o.generator, o.source))
	buf.WriteString("\n\npackage ")
	buf.WriteString(pkg)
	buf.WriteString("\n\n")

	imports := slices.Clone(o.imports)
	slices.Sort(imports)
	imports = slices.Compact(imports)

	if len(imports) == 0 {
		return
	}

	buf.WriteString("import (\n")

	for _, path := range imports {
		buf.WriteString(strconv.Quote(path))
		buf.WriteByte('\n')
	}

	buf.WriteString(")\n\n")
}
