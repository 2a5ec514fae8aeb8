package gen

import (
	"bytes"
	"context"
	"errors"
	"go/ast"
	"go/constant"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/lutgen/lang"
)

func mustParse(t testing.TB, src string) *lang.Spec {
	t.Helper()

	spec, err := lang.ParseString(context.Background(), src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	return spec
}

// checked is a generated file after parsing and type checking.
type checked struct {
	file *ast.File
	pkg  *types.Package
	info *types.Info
}

func typeCheck(t *testing.T, src []byte) checked {
	t.Helper()

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, "lut.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse generated file: %v\n%s", err, src)
	}

	info := &types.Info{Types: make(map[ast.Expr]types.TypeAndValue)}
	conf := types.Config{Importer: importer.Default()}

	pkg, err := conf.Check("lut", fset, []*ast.File{f}, info)
	if err != nil {
		t.Fatalf("type check generated file: %v\n%s", err, src)
	}

	return checked{file: f, pkg: pkg, info: info}
}

func (c checked) typeOf(t *testing.T, name string) string {
	t.Helper()

	obj := c.pkg.Scope().Lookup(name)
	if obj == nil {
		t.Fatalf("%s not declared", name)
	}

	return obj.Type().String()
}

// tableExpr returns the initializer of the named package-level variable.
func (c checked) tableExpr(t *testing.T, name string) ast.Expr {
	t.Helper()

	for _, decl := range c.file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok {
			continue
		}

		for _, s := range gd.Specs {
			vs, ok := s.(*ast.ValueSpec)
			if ok && vs.Names[0].Name == name {
				return vs.Values[0]
			}
		}
	}

	t.Fatalf("%s not declared", name)

	return nil
}

// returned collects the constant value of every return statement under
// expr, in source order.
func (c checked) returned(t *testing.T, expr ast.Expr) []int64 {
	t.Helper()

	var vals []int64

	ast.Inspect(expr, func(n ast.Node) bool {
		ret, ok := n.(*ast.ReturnStmt)
		if !ok {
			return true
		}

		tv := c.info.Types[ret.Results[0]]
		if tv.Value == nil {
			t.Fatalf("return value is not constant")
		}

		v, exact := constant.Int64Val(tv.Value)
		if !exact {
			t.Fatalf("return value %v is not an exact int64", tv.Value)
		}

		vals = append(vals, v)

		return false
	})

	return vals
}

// literals collects the basic literals under expr, in source order.
func literals(expr ast.Expr) []string {
	var lits []string

	ast.Inspect(expr, func(n ast.Node) bool {
		if lit, ok := n.(*ast.BasicLit); ok {
			lits = append(lits, lit.Value)
		}

		return true
	})

	return lits
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		src    string
		typ    string
		access string
	}{
		{`|x @ 0..8, y @ 0..16| -> uint32 { x + y }`, "[8][16]uint32", "t[x][y]"},
		{`|x @ 0..=8, y @ 0..=16| -> uint32 { x + y }`, "[9][17]uint32", "t[x][y]"},
		{`|a @ 3..7| -> []string { nil }`, "[4][]string", "t[a]"},
		{`|| -> int { 42 }`, "int", "t"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			spec := mustParse(t, tt.src)

			if got := TypeOf(spec); got != tt.typ {
				t.Errorf("TypeOf() = %q, want %q", got, tt.typ)
			}

			if got := AccessExpr("t", spec); got != tt.access {
				t.Errorf("AccessExpr() = %q, want %q", got, tt.access)
			}
		})
	}
}

func TestFile_GoMode(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		typ   string
		shape [2]int64
	}{
		{"exclusive", `|x @ 0..8, y @ 0..16| -> uint32 { x + y }`, "[8][16]uint32", [2]int64{8, 16}},
		{"inclusive", `|x @ 0..=8, y @ 0..=16| -> uint32 { x + y }`, "[9][17]uint32", [2]int64{9, 17}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := File(context.Background(), "lut", []Unit{
				{Name: "Sum", Spec: mustParse(t, tt.src)},
			})
			if err != nil {
				t.Fatalf("File() error: %v", err)
			}

			c := typeCheck(t, src)

			if got := c.typeOf(t, "_Sum_table"); got != tt.typ {
				t.Errorf("table type = %q, want %q", got, tt.typ)
			}

			if got, want := c.typeOf(t, "Sum"), "func(x uint, y uint) uint32"; got != want {
				t.Errorf("accessor type = %q, want %q", got, want)
			}

			var want []int64

			for x := range tt.shape[0] {
				for y := range tt.shape[1] {
					want = append(want, x+y)
				}
			}

			got := c.returned(t, c.tableExpr(t, "_Sum_table"))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("cells mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFile_GoModeOffsetAndOrder(t *testing.T) {
	src, err := File(context.Background(), "lut", []Unit{
		{Name: "Offset", Spec: mustParse(t, `|x @ 2..5| -> int { x * 10 }`)},
		{Name: "XY", Spec: mustParse(t, `|x @ 0..2, y @ 0..3| -> int { x*10 + y }`)},
		{Name: "YX", Spec: mustParse(t, `|y @ 0..3, x @ 0..2| -> int { x*10 + y }`)},
	})
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}

	c := typeCheck(t, src)

	tests := []struct {
		name string
		typ  string
		want []int64
	}{
		{"_Offset_table", "[3]int", []int64{20, 30, 40}},
		{"_XY_table", "[2][3]int", []int64{0, 1, 2, 10, 11, 12}},
		{"_YX_table", "[3][2]int", []int64{0, 10, 1, 11, 2, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.typeOf(t, tt.name); got != tt.typ {
				t.Errorf("type = %q, want %q", got, tt.typ)
			}

			if diff := cmp.Diff(tt.want, c.returned(t, c.tableExpr(t, tt.name))); diff != "" {
				t.Errorf("cells mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFile_GoModeStatements(t *testing.T) {
	spec := mustParse(t, `|x @ 0..4| -> int {
		if x%2 == 0 {
			return x
		}
		return -x
	}`)

	src, err := File(context.Background(), "lut", []Unit{{Name: "Alt", Spec: spec}})
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}

	c := typeCheck(t, src)

	var lits int

	ast.Inspect(c.tableExpr(t, "_Alt_table"), func(n ast.Node) bool {
		if _, ok := n.(*ast.FuncLit); ok {
			lits++
		}

		return true
	})

	if lits != 4 {
		t.Errorf("got %d cells, want 4", lits)
	}
}

func TestFile_GoModeMultilineExpr(t *testing.T) {
	spec := mustParse(t, "|x @ 0..3| -> int {\n\t// doubled\n\tx +\n\t\tx\n}")

	src, err := File(context.Background(), "lut", []Unit{{Name: "Double", Spec: spec}})
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}

	c := typeCheck(t, src)

	if diff := cmp.Diff([]int64{0, 2, 4}, c.returned(t, c.tableExpr(t, "_Double_table"))); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestFile_ExprMode(t *testing.T) {
	src, err := File(context.Background(), "lut", []Unit{
		{Name: "Mul", Spec: mustParse(t, `|x @ 0..3, y @ 1..=2| -> int { x * y }`), Mode: ModeExpr},
		{Name: "Half", Spec: mustParse(t, `|x @ 1..4| -> float64 { x / 2 }`), Mode: ModeExpr},
		{Name: "Name", Spec: mustParse(t, `|x @ 0..2| -> string { x == 0 ? "zero" : "one" }`), Mode: ModeExpr},
		{Name: "Pair", Spec: mustParse(t, `|x @ 0..2| -> [2]int { [x, x * x] }`), Mode: ModeExpr},
	})
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}

	c := typeCheck(t, src)

	tests := []struct {
		name string
		typ  string
		want []string
	}{
		{"_Mul_table", "[3][2]int", []string{"3", "2", "0", "0", "1", "2", "2", "4"}},
		{"_Half_table", "[3]float64", []string{"3", "0.5", "1.0", "1.5"}},
		{"_Name_table", "[2]string", []string{"2", `"zero"`, `"one"`}},
		{"_Pair_table", "[2][2]int", []string{"2", "2", "0", "0", "1", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.typeOf(t, tt.name); got != tt.typ {
				t.Errorf("type = %q, want %q", got, tt.typ)
			}

			// The array type's length literals come first.
			if diff := cmp.Diff(tt.want, literals(c.tableExpr(t, tt.name))); diff != "" {
				t.Errorf("literals mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFile_ZeroParams(t *testing.T) {
	for _, mode := range []Mode{ModeGo, ModeExpr} {
		t.Run(mode.String(), func(t *testing.T) {
			src, err := File(context.Background(), "lut", []Unit{
				{Name: "Answer", Spec: mustParse(t, `|| -> int { 6 * 7 }`), Mode: mode},
				{Name: "Origin", Spec: mustParse(t, `|| -> [2]int { [0, 1] }`), Mode: ModeExpr},
			})
			if err != nil {
				t.Fatalf("File() error: %v", err)
			}

			c := typeCheck(t, src)

			if got := c.typeOf(t, "_Answer_table"); got != "int" {
				t.Errorf("table type = %q, want int", got)
			}

			if got := c.typeOf(t, "Answer"); got != "func() int" {
				t.Errorf("accessor type = %q, want func() int", got)
			}

			if got := c.typeOf(t, "_Origin_table"); got != "[2]int" {
				t.Errorf("table type = %q, want [2]int", got)
			}
		})
	}
}

func TestFile_Header(t *testing.T) {
	src, err := File(context.Background(), "lut",
		[]Unit{{Name: "Sum", Spec: mustParse(t, `|x @ 0..2| -> int { x }`)}},
		WithSource("tables.yaml"),
		WithImports("math", "math"),
	)
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}

	want := "// Code generated by lutgen from tables.yaml. DO NOT EDIT.\n"
	if !bytes.HasPrefix(src, []byte(want)) {
		t.Errorf("header mismatch, got:\n%s", src)
	}

	f, err := parser.ParseFile(token.NewFileSet(), "lut.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse generated file: %v", err)
	}

	if !ast.IsGenerated(f) {
		t.Error("generated file is not recognized as generated")
	}

	if len(f.Imports) != 1 || f.Imports[0].Path.Value != strconv.Quote("math") {
		t.Errorf("imports = %v, want [\"math\"]", f.Imports)
	}

	if got := Header("gen", ""); got != "// Code generated by gen. DO NOT EDIT." {
		t.Errorf("Header() = %q", got)
	}
}

func TestFile_Doc(t *testing.T) {
	src, err := File(context.Background(), "lut", []Unit{
		{Name: "Sum", Spec: mustParse(t, `|x @ 0..2| -> int { x }`), Doc: "Sum is a table.\nSecond line."},
		{Name: "Plain", Spec: mustParse(t, `|x @ 0..2| -> int { x }`)},
	})
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}

	for _, want := range []string{
		"// Sum is a table.\n// Second line.\n//\n//\t|x @ 0..2| -> int { x }\nvar Sum",
		"// Plain returns the precomputed value of:\n",
	} {
		if !strings.Contains(string(src), want) {
			t.Errorf("missing %q in:\n%s", want, src)
		}
	}
}

func TestFile_Errors(t *testing.T) {
	sum := `|x @ 0..8, y @ 0..16| -> uint32 { x + y }`

	tests := []struct {
		name  string
		pkg   string
		units []Unit
		opts  []Option
		want  error
	}{
		{
			name:  "invalid package",
			pkg:   "my-pkg",
			units: []Unit{{Name: "Sum", Spec: mustParse(t, sum)}},
			want:  ErrInvalidName,
		},
		{
			name:  "invalid table name",
			pkg:   "lut",
			units: []Unit{{Name: "9lives", Spec: mustParse(t, sum)}},
			want:  ErrInvalidName,
		},
		{
			name:  "blank table name",
			pkg:   "lut",
			units: []Unit{{Name: "_", Spec: mustParse(t, sum)}},
			want:  ErrInvalidName,
		},
		{
			name: "duplicate table",
			pkg:  "lut",
			units: []Unit{
				{Name: "Sum", Spec: mustParse(t, sum)},
				{Name: "Sum", Spec: mustParse(t, sum)},
			},
			want: ErrInvalidName,
		},
		{
			name:  "parameter shadows index type",
			pkg:   "lut",
			units: []Unit{{Name: "Sum", Spec: mustParse(t, `|uint @ 0..2| -> int { 1 }`)}},
			want:  ErrInvalidName,
		},
		{
			name:  "missing spec",
			pkg:   "lut",
			units: []Unit{{Name: "Sum"}},
			want:  ErrGenerate,
		},
		{
			name:  "invalid return type",
			pkg:   "lut",
			units: []Unit{{Name: "Sum", Spec: mustParse(t, `|x @ 0..2| -> u32 as int { x }`)}},
			want:  ErrGenerate,
		},
		{
			name:  "invalid go body",
			pkg:   "lut",
			units: []Unit{{Name: "Sum", Spec: mustParse(t, `|x @ 0..2| -> int { x + }`)}},
			want:  ErrGenerate,
		},
		{
			name:  "invalid mode",
			pkg:   "lut",
			units: []Unit{{Name: "Sum", Spec: mustParse(t, sum), Mode: Mode(7)}},
			want:  ErrInvalidMode,
		},
		{
			name:  "non-finite literal",
			pkg:   "lut",
			units: []Unit{{Name: "Inv", Spec: mustParse(t, `|x @ 0..2| -> float64 { 1 / x }`), Mode: ModeExpr}},
			want:  ErrInvalidValue,
		},
		{
			name:  "expr body does not compile",
			pkg:   "lut",
			units: []Unit{{Name: "Sum", Spec: mustParse(t, `|x @ 0..2| -> int { x + z }`), Mode: ModeExpr}},
			want:  lang.ErrBodyCompile,
		},
		{
			name:  "too large go",
			pkg:   "lut",
			units: []Unit{{Name: "Sum", Spec: mustParse(t, sum)}},
			opts:  []Option{WithMaxCells(100)},
			want:  lang.ErrTooLarge,
		},
		{
			name:  "too large expr",
			pkg:   "lut",
			units: []Unit{{Name: "Sum", Spec: mustParse(t, sum), Mode: ModeExpr}},
			opts:  []Option{WithMaxCells(100)},
			want:  lang.ErrTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := File(context.Background(), tt.pkg, tt.units, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("File() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerate_BodyErrorPosition(t *testing.T) {
	spec := mustParse(t, "|x @ 0..2| -> int {\n\tx := 1\n\tx ++ 2\n}")

	err := Generate(context.Background(), &bytes.Buffer{}, Unit{Name: "Bad", Spec: spec})
	if !errors.Is(err, ErrGenerate) {
		t.Fatalf("Generate() error = %v, want ErrGenerate", err)
	}

	var le *lang.Error
	if !errors.As(err, &le) {
		t.Fatalf("error %T is not a *lang.Error", err)
	}

	if got := le.Position().Line; got != 3 {
		t.Errorf("error line = %d, want 3 (%v)", got, err)
	}
}

func TestFragmentPos(t *testing.T) {
	frag := lang.Fragment{
		Text: "a +\n  b",
		Pos:  lang.Pos{Offset: 10, Line: 2, Col: 5},
	}

	tests := []struct {
		name string
		skip int
		at   token.Position
		want lang.Pos
	}{
		{"first line", 0, token.Position{Line: 1, Column: 3}, lang.Pos{Offset: 12, Line: 2, Col: 7}},
		{"second line", 0, token.Position{Line: 2, Column: 3}, lang.Pos{Offset: 16, Line: 3, Col: 3}},
		{"skipped prefix", 1, token.Position{Line: 3, Column: 1}, lang.Pos{Offset: 14, Line: 3, Col: 1}},
		{"in prefix", 1, token.Position{Line: 1, Column: 1}, frag.Pos},
		{"past fragment", 0, token.Position{Line: 5, Column: 1}, frag.Pos},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, fragmentPos(frag, tt.skip, tt.at)); diff != "" {
				t.Errorf("fragmentPos mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		in      any
		want    string
		wantErr bool
	}{
		{in: true, want: "true"},
		{in: "a\"b", want: `"a\"b"`},
		{in: 42, want: "42"},
		{in: int64(-3), want: "-3"},
		{in: uint8(7), want: "7"},
		{in: 2.5, want: "2.5"},
		{in: 2.0, want: "2.0"},
		{in: 1e21, want: "1e+21"},
		{in: []any{1, "x"}, want: `{1, "x"}`},
		{in: map[string]any{"b": 2, "a": 1}, want: `{"a": 1, "b": 2}`},
		{in: nil, wantErr: true},
		{in: struct{}{}, wantErr: true},
		{in: []any{1, nil}, wantErr: true},
	}

	for _, tt := range tests {
		got, err := literal(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("literal(%#v) error = %v, wantErr %v", tt.in, err, tt.wantErr)

			continue
		}

		if got != tt.want {
			t.Errorf("literal(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func BenchmarkFile(b *testing.B) {
	units := []Unit{
		{Name: "Sum", Spec: mustParse(b, `|x @ 0..8, y @ 0..16| -> uint32 { x + y }`)},
		{Name: "Mul", Spec: mustParse(b, `|x @ 0..8, y @ 0..16| -> int { x * y }`), Mode: ModeExpr},
	}

	for b.Loop() {
		if _, err := File(context.Background(), "lut", units); err != nil {
			b.Fatal(err)
		}
	}
}
