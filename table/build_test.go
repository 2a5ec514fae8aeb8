package table

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/lutgen/lang"
	"github.com/ardnew/lutgen/log"
)

func TestEval_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		shape []uint64
		at    [][3]uint // x, y, want
		fault [2]uint
	}{
		{
			name:  "exclusive",
			src:   `|x @ 0..8, y @ 0..16| -> uint32 { x + y }`,
			shape: []uint64{8, 16},
			at:    [][3]uint{{3, 10, 13}, {0, 0, 0}, {7, 15, 22}},
			fault: [2]uint{8, 0},
		},
		{
			name:  "inclusive",
			src:   `|x @ 0..=8, y @ 0..=16| -> uint32 { x + y }`,
			shape: []uint64{9, 17},
			at:    [][3]uint{{8, 16, 24}, {0, 0, 0}},
			fault: [2]uint{0, 17},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Eval[uint32](mustParse(t, tt.src))
			if err != nil {
				t.Fatalf("eval error: %v", err)
			}

			shape := tbl.Shape()
			if len(shape) != 2 || shape[0] != tt.shape[0] || shape[1] != tt.shape[1] {
				t.Errorf("Shape() = %v, want %v", shape, tt.shape)
			}

			for _, c := range tt.at {
				if got := tbl.At(c[0], c[1]); got != uint32(c[2]) {
					t.Errorf("At(%d, %d) = %d, want %d", c[0], c[1], got, c[2])
				}
			}

			var ie *IndexError
			if _, err := tbl.Lookup(tt.fault[0], tt.fault[1]); !errors.As(err, &ie) {
				t.Errorf("Lookup(%d, %d) = %v, want *IndexError", tt.fault[0], tt.fault[1], err)
			}
		})
	}
}

func TestEval_MatchesBuild(t *testing.T) {
	spec := mustParse(t, `|a @ 3..7, b @ 1..=4| -> int { a * a - b }`)

	evaluated, err := Eval[int](spec)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	built, err := Build(spec, func(p Point) int { return p.Int("a")*p.Int("a") - p.Int("b") })
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	for p, want := range built.All() {
		idx := p.Indices()
		if got := evaluated.At(uint(idx[0]), uint(idx[1])); got != want {
			t.Errorf("At(%v) = %d, want %d", idx, got, want)
		}
	}
}

func TestEval_Conversions(t *testing.T) {
	t.Run("float to float32", func(t *testing.T) {
		tbl, err := Eval[float32](mustParse(t, `|x @ 0..4| -> float32 { x / 2 }`))
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}

		if got := tbl.At(3); got != 1.5 {
			t.Errorf("At(3) = %v, want 1.5", got)
		}
	})

	t.Run("inexact float to float32", func(t *testing.T) {
		_, err := Eval[float32](mustParse(t, `|x @ 1..2| -> float32 { x / 3 }`))
		if !errors.Is(err, ErrConvert) {
			t.Fatalf("expected ErrConvert, got %v", err)
		}

		var ce *ConvertError
		if !errors.As(err, &ce) || ce.To.String() != "float32" {
			t.Errorf("expected *ConvertError to float32, got %v", err)
		}
	})

	t.Run("float to float64", func(t *testing.T) {
		tbl, err := Eval[float64](mustParse(t, `|x @ 1..2| -> float64 { x / 3 }`))
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}

		if got := tbl.At(0); got != 1.0/3 {
			t.Errorf("At(0) = %v, want %v", got, 1.0/3)
		}
	})

	t.Run("integral float to int", func(t *testing.T) {
		tbl, err := Eval[int](mustParse(t, `|x @ 0..4| -> int { x * 2 / 2 }`))
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}

		if got := tbl.At(3); got != 3 {
			t.Errorf("At(3) = %v, want 3", got)
		}
	})

	t.Run("fractional float to int", func(t *testing.T) {
		_, err := Eval[int](mustParse(t, `|x @ 0..4| -> int { x / 2 }`))
		if !errors.Is(err, ErrConvert) {
			t.Fatalf("expected ErrConvert, got %v", err)
		}

		var ce *ConvertError
		if !errors.As(err, &ce) || ce.To.String() != "int" {
			t.Errorf("expected *ConvertError to int, got %v", err)
		}
	})

	t.Run("negative to unsigned", func(t *testing.T) {
		_, err := Eval[uint8](mustParse(t, `|x @ 0..4| -> uint8 { x - 2 }`))
		if !errors.Is(err, ErrConvert) {
			t.Fatalf("expected ErrConvert, got %v", err)
		}
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := Eval[uint8](mustParse(t, `|x @ 250..260| -> uint8 { x }`))
		if !errors.Is(err, ErrConvert) {
			t.Fatalf("expected ErrConvert, got %v", err)
		}
	})

	t.Run("int to string", func(t *testing.T) {
		_, err := Eval[string](mustParse(t, `|x @ 0..4| -> string { x }`))
		if !errors.Is(err, ErrConvert) {
			t.Fatalf("expected ErrConvert, got %v", err)
		}
	})

	t.Run("strings", func(t *testing.T) {
		tbl, err := Eval[string](mustParse(t, `|x @ 0..3| -> string { ["a", "b", "c"][x] }`))
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}

		if got := tbl.At(1); got != "b" {
			t.Errorf("At(1) = %q, want %q", got, "b")
		}
	})

	t.Run("any", func(t *testing.T) {
		tbl, err := Eval[any](mustParse(t, `|x @ 0..2| -> any { x == 0 ? "zero" : x }`))
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}

		if tbl.At(0) != "zero" || tbl.At(1) != 1 {
			t.Errorf("unexpected cells: %v, %v", tbl.At(0), tbl.At(1))
		}
	})
}

func TestEval_Errors(t *testing.T) {
	_, err := Eval[int](mustParse(t, `|x @ 0..4| -> int { x + undefined }`))
	if !errors.Is(err, lang.ErrBodyCompile) {
		t.Errorf("expected ErrBodyCompile, got %v", err)
	}

	_, err = Eval[int](mustParse(t, `|x @ 0..4| -> int { [1, 2][x] }`))
	if !errors.Is(err, lang.ErrBodyEvaluate) {
		t.Errorf("expected ErrBodyEvaluate, got %v", err)
	}

	_, err = Eval[int](mustParse(t, `|x @ 0..4096, y @ 0..4096| -> int { x }`))
	if !errors.Is(err, lang.ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestCompile(t *testing.T) {
	t.Cleanup(lang.ClearCache)

	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithLevel(log.LevelTrace), log.WithFormat(log.FormatJSON))

	tbl, err := Compile[uint16](context.Background(),
		`|row @ 0..4, col @ 0..4| -> uint16 { row * 4 + col }`,
		WithLogger(logger))
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	if got := tbl.At(2, 3); got != 11 {
		t.Errorf("At(2, 3) = %d, want 11", got)
	}

	if !strings.Contains(buf.String(), `"msg":"table evaluated"`) {
		t.Errorf("expected evaluation to be logged, got: %s", buf.String())
	}

	if _, err := Compile[int](context.Background(), `|x| -> int { x }`); !errors.Is(err, lang.ErrMissingRange) {
		t.Errorf("expected ErrMissingRange, got %v", err)
	}
}

func TestMustCompile(t *testing.T) {
	t.Cleanup(lang.ClearCache)

	tbl := MustCompile[int](`|| -> int { 7 * 6 }`)
	if got := tbl.At(); got != 42 {
		t.Errorf("At() = %d, want 42", got)
	}

	r := expectPanic(t, func() { MustCompile[int](`|x @ 2..1| -> int { x }`) })

	err, ok := r.(error)
	if !ok || !errors.Is(err, lang.ErrInvertedRange) {
		t.Errorf("expected ErrInvertedRange panic, got %v", r)
	}
}

func BenchmarkEval(b *testing.B) {
	spec := mustParse(b, `|x @ 0..64, y @ 0..64| -> uint32 { x * y }`)

	for b.Loop() {
		if _, err := Eval[uint32](spec); err != nil {
			b.Fatal(err)
		}
	}
}
