package lang

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzParseString tests the parser with random inputs to find edge cases.
func FuzzParseString(f *testing.F) {
	// Seed corpus with known valid and invalid inputs
	f.Add(`|x @ 0..8, y @ 0..16| -> u32 { x + y }`)
	f.Add(`|x @ 0..=8| -> u32 { x }`)
	f.Add(`|| -> int { 42 }`)
	f.Add(`|x @ 1..2, y @ 8..0| -> u8 { x }`)
	f.Add(`|x| -> u8 { x }`)
	f.Add(`|x @ 0..n| -> u8 { x }`)
	f.Add(`|_ @ 0..2| -> u8 { 0 }`)
	f.Add(`|i @ 0..2| -> struct{ a int } { struct{ a int }{i} }`)
	f.Add("|x @ 0..2| -> string { \"}\" // {\n}")
	f.Add(`|x @ 0x1_0..0b1| -> u8 { x`)

	f.Fuzz(func(t *testing.T, input string) {
		// Skip invalid UTF-8
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		// Parser should not panic on any input
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on input %q: %v", input, r)
			}
		}()

		spec, err := ParseString(context.Background(), input)
		if err != nil {
			var le *Error
			if !errors.As(err, &le) {
				t.Errorf("expected *Error, got %T: %v", err, err)
			}

			return
		}

		for _, p := range spec.Params {
			if p.Count() == 0 {
				t.Errorf("parameter %s has no values", p)
			}
		}

		again, err := ParseString(context.Background(), spec.String())
		if err != nil {
			t.Fatalf("canonical form %q does not parse: %v", spec.String(), err)
		}

		if again.Rank() != spec.Rank() {
			t.Fatalf("canonical form changed rank: %d != %d", again.Rank(), spec.Rank())
		}

		for i, p := range again.Params {
			q := spec.Params[i]
			if p.Name != q.Name || p.Low != q.Low || p.High != q.High ||
				p.Exclusive != q.Exclusive {
				t.Errorf("canonical form changed parameter %d: %s != %s", i, p, q)
			}
		}
	})
}
