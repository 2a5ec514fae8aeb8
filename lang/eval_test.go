package lang

import (
	"context"
	"errors"
	"testing"
)

func TestProgram_Eval(t *testing.T) {
	spec, err := ParseString(context.Background(), `|x @ 0..8, y @ 0..16| -> u32 { x + y }`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	prog, err := spec.Compile()
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	tests := []struct {
		x, y uint64
		want int
	}{
		{3, 10, 13},
		{0, 0, 0},
		{7, 15, 22},
	}

	for _, tt := range tests {
		got, err := prog.Eval(tt.x, tt.y)
		if err != nil {
			t.Fatalf("Eval(%d, %d) error: %v", tt.x, tt.y, err)
		}

		if got != tt.want {
			t.Errorf("Eval(%d, %d) = %v (%T), want %d", tt.x, tt.y, got, got, tt.want)
		}
	}

	if prog.Source() != "x + y" {
		t.Errorf("Source() = %q", prog.Source())
	}
}

func TestProgram_EvalExpressions(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		values []uint64
		want   any
	}{
		{"no params", `|| -> int { 6 * 7 }`, nil, 42},
		{"ternary", `|x @ 0..4| -> int { x > 1 ? 1 : 0 }`, []uint64{3}, 1},
		{"modulo", `|x @ 0..16, m @ 1..4| -> int { x % m }`, []uint64{11, 3}, 2},
		{"division is float", `|x @ 0..16| -> float64 { x / 2 }`, []uint64{5}, 2.5},
		{"let binding", `|x @ 0..4| -> int { let sq = x * x; sq + 1 }`, []uint64{3}, 10},
		{"string result", `|x @ 0..4| -> string { "n" + string(x) }`, []uint64{2}, "n2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			prog, err := spec.Compile()
			if err != nil {
				t.Fatalf("compile error: %v", err)
			}

			got, err := prog.Eval(tt.values...)
			if err != nil {
				t.Fatalf("eval error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Eval() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestSpec_CompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"incomplete expression", `|x @ 0..4| -> int { x + }`},
		{"unknown name", `|x @ 0..4| -> int { x + z }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			_, err = spec.Compile()
			if !errors.Is(err, ErrBodyCompile) {
				t.Fatalf("expected ErrBodyCompile, got %v", err)
			}

			var le *Error
			if errors.As(err, &le) && le.Position() != spec.Body.Pos {
				t.Errorf("error at %v, want body position %v", le.Position(), spec.Body.Pos)
			}
		})
	}
}

func TestProgram_EvalErrors(t *testing.T) {
	spec, err := ParseString(context.Background(), `|x @ 0..4, y @ 0..4| -> int { [1, 2][x] + y }`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	prog, err := spec.Compile()
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	if _, err := prog.Eval(1); !errors.Is(err, ErrBodyEvaluate) {
		t.Errorf("arity mismatch: expected ErrBodyEvaluate, got %v", err)
	}

	if _, err := prog.Eval(1<<63, 0); !errors.Is(err, ErrBodyEvaluate) {
		t.Errorf("int overflow: expected ErrBodyEvaluate, got %v", err)
	}

	if _, err := prog.Eval(3, 0); !errors.Is(err, ErrBodyEvaluate) {
		t.Errorf("index out of range: expected ErrBodyEvaluate, got %v", err)
	}
}

func BenchmarkProgram_Eval(b *testing.B) {
	spec, err := ParseString(context.Background(), `|x @ 0..8, y @ 0..16| -> u32 { x * 16 + y }`)
	if err != nil {
		b.Fatal(err)
	}

	prog, err := spec.Compile()
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		if _, err := prog.Eval(3, 10); err != nil {
			b.Fatal(err)
		}
	}
}
