package gen

import (
	"bytes"
	"context"
	"go/parser"
	"go/scanner"
	"go/token"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/lutgen/lang"
	"github.com/ardnew/lutgen/table"
)

// Unit is one table to generate.
type Unit struct {
	Spec *lang.Spec
	Name string // Accessor name
	Doc  string // Optional doc comment text, without comment markers
	Mode Mode
}

// TableName returns the name of the hidden table declaration.
func (u Unit) TableName() string { return "_" + u.Name + "_table" }

// TypeOf returns the nested array type of the table described by spec,
// outermost dimension first, e.g. [8][16]uint32. A specification without
// parameters yields the bare return type.
func TypeOf(spec *lang.Spec) string {
	var sb strings.Builder

	for _, p := range spec.Params {
		sb.WriteByte('[')
		sb.WriteString(strconv.FormatUint(p.Count(), 10))
		sb.WriteByte(']')
	}

	sb.WriteString(spec.ReturnType.Text)

	return sb.String()
}

// AccessExpr returns the expression indexing table with the parameters of
// spec in declaration order, e.g. table[x][y].
func AccessExpr(table string, spec *lang.Spec) string {
	var sb strings.Builder

	sb.WriteString(table)

	for _, p := range spec.Params {
		sb.WriteByte('[')
		sb.WriteString(p.Name)
		sb.WriteByte(']')
	}

	return sb.String()
}

// Generate writes the declarations of one unit to w. The output is not
// formatted; use [File] to produce a complete, formatted source file.
func Generate(ctx context.Context, w io.Writer, u Unit, opts ...Option) error {
	var o options

	applyDefaults(&o)
	applyOptions(&o, opts...)

	if err := u.validate(); err != nil {
		return err
	}

	var (
		cells []string
		err   error
	)

	switch u.Mode {
	case ModeGo:
		cells, err = goCells(u.Spec, o)
	case ModeExpr:
		cells, err = exprCells(u.Spec, o)
	default:
		err = ErrInvalidMode.Wrapf("%s", u.Mode)
	}

	if err != nil {
		return err
	}

	var buf bytes.Buffer

	writeDoc(&buf, u)

	buf.WriteString("var ")
	buf.WriteString(u.Name)
	buf.WriteString(" = func(")
	buf.WriteString(strings.Join(u.Spec.Names(), ", "))

	if u.Spec.Rank() > 0 {
		buf.WriteString(" uint")
	}

	buf.WriteString(") ")
	buf.WriteString(u.Spec.ReturnType.Text)
	buf.WriteString(" { return ")
	buf.WriteString(AccessExpr(u.TableName(), u.Spec))
	buf.WriteString(" }\n\n")

	buf.WriteString("var ")
	buf.WriteString(u.TableName())

	if u.Spec.Rank() == 0 {
		cell := cells[0]
		if strings.HasPrefix(cell, "{") {
			cell = u.Spec.ReturnType.Text + cell
		}

		buf.WriteByte(' ')
		buf.WriteString(u.Spec.ReturnType.Text)
		buf.WriteString(" = ")
		buf.WriteString(cell)
		buf.WriteString("\n\n")
	} else {
		buf.WriteString(" = ")
		buf.WriteString(TypeOf(u.Spec))
		buf.WriteString("{\n")
		writeDim(&buf, u.Spec, 0, cells, u.Mode == ModeExpr)
		buf.WriteString("}\n\n")
	}

	o.logger.DebugContext(ctx, "generated table",
		slog.String("name", u.Name),
		slog.String("mode", u.Mode.String()),
		slog.String("type", TypeOf(u.Spec)),
		slog.Int("cells", len(cells)),
		slog.Int("bytes", buf.Len()))

	_, err = buf.WriteTo(w)

	return err
}

// validate checks the unit's names and the syntax of its fragments.
func (u Unit) validate() error {
	if u.Spec == nil {
		return ErrGenerate.Wrapf("table %q has no specification", u.Name)
	}

	if !token.IsIdentifier(u.Name) || u.Name == "_" {
		return ErrInvalidName.Wrapf("table name %q is not a Go identifier", u.Name)
	}

	for _, p := range u.Spec.Params {
		if !token.IsIdentifier(p.Name) || p.Name == "uint" || p.Name == u.TableName() {
			return ErrInvalidName.WithPosition(p.Pos).
				Wrapf("parameter name %q cannot be used in table %s", p.Name, u.Name)
		}
	}

	typ := u.Spec.ReturnType
	if _, err := parser.ParseExpr(typ.Text); err != nil {
		return fragmentError(typ, "", err).
			With(slog.String("return_type", typ.Text))
	}

	if u.Mode == ModeGo {
		if _, err := bodyIsStatements(u.Spec); err != nil {
			return err
		}
	}

	return nil
}

// bodyIsStatements reports whether the body must be emitted as a statement
// list rather than a single returned expression.
func bodyIsStatements(spec *lang.Spec) (bool, error) {
	if _, err := parser.ParseExpr(spec.Body.Text); err == nil {
		return false, nil
	}

	prefix := "func() " + spec.ReturnType.Text + " {\n"

	if _, err := parser.ParseExpr(prefix + spec.Body.Text + "\n}"); err != nil {
		return false, fragmentError(spec.Body, prefix, err).
			With(slog.String("body", spec.Body.Text))
	}

	return true, nil
}

// fragmentError converts a go/parser error in source built as prefix+frag
// into an [ErrGenerate] positioned within the specification.
func fragmentError(frag lang.Fragment, prefix string, err error) *lang.Error {
	list, ok := err.(scanner.ErrorList)
	if !ok || len(list) == 0 {
		return ErrGenerate.WithPosition(frag.Pos).Wrap(err)
	}

	first := list[0]

	return ErrGenerate.
		WithPosition(fragmentPos(frag, strings.Count(prefix, "\n"), first.Pos)).
		Wrapf("%s", first.Msg)
}

// fragmentPos maps a position in generated text, which has skip lines
// before the fragment, back to the fragment's position in its source.
func fragmentPos(frag lang.Fragment, skip int, at token.Position) lang.Pos {
	line := at.Line - skip
	if line < 1 {
		return frag.Pos
	}

	text := frag.Text

	start := 0
	for range line - 1 {
		i := strings.IndexByte(text[start:], '\n')
		if i < 0 {
			return frag.Pos
		}

		start += i + 1
	}

	off := min(start+at.Column-1, len(text))
	col := utf8.RuneCountInString(text[start:off]) + 1

	pos := lang.Pos{
		Offset: frag.Pos.Offset + off,
		Line:   frag.Pos.Line + line - 1,
		Col:    col,
	}

	if line == 1 {
		pos.Col = frag.Pos.Col + col - 1
	}

	return pos
}

// writeDoc writes the accessor's doc comment.
func writeDoc(buf *bytes.Buffer, u Unit) {
	doc := strings.TrimSpace(u.Doc)
	if doc == "" {
		doc = u.Name + " returns the precomputed value of:"
	}

	for line := range strings.SplitSeq(doc, "\n") {
		buf.WriteString(strings.TrimRight("// "+line, " "))
		buf.WriteByte('\n')
	}

	buf.WriteString("//\n")

	for line := range strings.SplitSeq(u.Spec.String(), "\n") {
		buf.WriteString("//\t")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

// writeDim writes the elements of dimension d. cells holds the rendered
// cells of the sub-table in row-major order.
func writeDim(buf *bytes.Buffer, spec *lang.Spec, d int, cells []string, compact bool) {
	param := spec.Params[d]

	if d == len(spec.Params)-1 {
		for i, c := range cells {
			buf.WriteString(c)
			buf.WriteByte(',')

			if !compact || (i+1)%8 == 0 || i == len(cells)-1 {
				buf.WriteByte('\n')
			} else {
				buf.WriteByte(' ')
			}
		}

		return
	}

	stride := len(cells) / int(param.Count())

	for i := range int(param.Count()) {
		buf.WriteString("// ")
		buf.WriteString(param.Name)
		buf.WriteString(" = ")
		buf.WriteString(strconv.FormatUint(param.Value(uint64(i)), 10))
		buf.WriteString("\n{\n")
		writeDim(buf, spec, d+1, cells[i*stride:(i+1)*stride], compact)
		buf.WriteString("},\n")
	}
}

// goCells renders every cell as a function literal that binds the
// parameters as constants and evaluates the body.
func goCells(spec *lang.Spec, o options) ([]string, error) {
	if err := spec.CheckSize(o.maxCells); err != nil {
		return nil, err
	}

	stmts, err := bodyIsStatements(spec)
	if err != nil {
		return nil, err
	}

	var head, tail string

	head = "func() " + spec.ReturnType.Text + " {\n"
	if spec.Rank() > 0 {
		head += "const " + strings.Join(spec.Names(), ", ") + " = "
	}

	switch body := spec.Body.Text; {
	case stmts:
		tail = "\n" + body + "\n}()"
	case strings.Contains(body, "\n"):
		tail = "\nreturn (\n" + body + "\n)\n}()"
	default:
		tail = "\nreturn " + body + "\n}()"
	}

	n, _ := spec.Cells()
	cells := make([]string, 0, n)

	var sb strings.Builder

	for _, values := range table.Enumerate(spec) {
		sb.Reset()
		sb.WriteString(head)

		for i, v := range values {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(strconv.FormatUint(v, 10))
		}

		sb.WriteString(tail)
		cells = append(cells, sb.String())
	}

	return cells, nil
}

// exprCells evaluates every cell with expr-lang and renders it as a Go
// literal.
func exprCells(spec *lang.Spec, o options) ([]string, error) {
	tbl, err := table.Eval[any](spec,
		table.WithMaxCells(o.maxCells),
		table.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	cells := make([]string, 0, tbl.Len())

	for p, v := range tbl.All() {
		lit, err := literal(v)
		if err != nil {
			return nil, ErrInvalidValue.WithPosition(spec.Body.Pos).Wrap(err).
				With(slog.Any("values", p.Values()))
		}

		cells = append(cells, lit)
	}

	return cells, nil
}
