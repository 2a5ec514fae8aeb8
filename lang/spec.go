package lang

import (
	"log/slog"
	"math/bits"
	"slices"
	"strconv"
	"strings"
)

// Param is one bounded integer dimension of a table.
type Param struct {
	Name      string
	Low       uint64
	High      uint64
	Pos       Pos // Position of the parameter name
	RangePos  Pos // Position of the range sub-pattern
	Exclusive bool
}

// Count returns the number of values the parameter takes:
// High-Low for an exclusive range and High-Low+1 for an inclusive one.
func (p Param) Count() uint64 {
	if p.Exclusive {
		return p.High - p.Low
	}

	return p.High - p.Low + 1
}

// Value returns the parameter value bound at index i, Low+i.
func (p Param) Value(i uint64) uint64 { return p.Low + i }

// Operator returns the range operator, ".." or "..=".
func (p Param) Operator() string {
	if p.Exclusive {
		return ".."
	}

	return "..="
}

func (p Param) String() string {
	return p.Name + " @ " +
		strconv.FormatUint(p.Low, 10) + p.Operator() +
		strconv.FormatUint(p.High, 10)
}

// LogValue implements slog.LogValuer.
func (p Param) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", p.Name),
		slog.Uint64("low", p.Low),
		slog.Uint64("high", p.High),
		slog.Bool("exclusive", p.Exclusive),
		slog.Uint64("count", p.Count()),
	)
}

// Fragment is opaque source text captured verbatim from a specification.
type Fragment struct {
	Text string
	Pos  Pos
}

// Spec is a parsed and validated table specification.
//
// A Spec returned by this package is never modified afterwards and may be
// shared between goroutines.
type Spec struct {
	Source     string
	ReturnType Fragment
	Body       Fragment // Block contents without the enclosing braces
	Params     []Param
}

// Rank returns the number of table dimensions.
func (s *Spec) Rank() int { return len(s.Params) }

// Shape returns the element count of each dimension, outermost first.
func (s *Spec) Shape() []uint64 {
	shape := make([]uint64, len(s.Params))
	for i, p := range s.Params {
		shape[i] = p.Count()
	}

	return shape
}

// Names returns the parameter names in declaration order.
func (s *Spec) Names() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}

	return names
}

// Param returns the parameter with the given name.
func (s *Spec) Param(name string) (Param, bool) {
	i := slices.IndexFunc(s.Params, func(p Param) bool { return p.Name == name })
	if i < 0 {
		return Param{}, false
	}

	return s.Params[i], true
}

// Cells returns the total number of table cells, the product of all
// dimension counts. It reports false if the product overflows uint64.
// A specification without parameters has exactly one cell.
func (s *Spec) Cells() (uint64, bool) {
	n := uint64(1)

	for _, p := range s.Params {
		hi, lo := bits.Mul64(n, p.Count())
		if hi != 0 {
			return 0, false
		}

		n = lo
	}

	return n, true
}

// CheckSize returns [ErrTooLarge] if the table has more than limit cells.
func (s *Spec) CheckSize(limit uint64) error {
	n, ok := s.Cells()
	if !ok {
		return ErrTooLarge.Wrapf("cell count overflows uint64").
			With(slog.Any("shape", s.Shape()))
	}

	if n > limit {
		return ErrTooLarge.
			Wrapf("%d cells exceeds limit of %d", n, limit).
			With(slog.Uint64("cells", n), slog.Uint64("limit", limit))
	}

	return nil
}

// String returns the specification in canonical form.
func (s *Spec) String() string {
	var sb strings.Builder

	sb.WriteByte('|')

	for i, p := range s.Params {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(p.String())
	}

	sb.WriteString("| -> ")
	sb.WriteString(s.ReturnType.Text)

	if strings.Contains(s.Body.Text, "\n") || strings.Contains(s.Body.Text, "//") {
		sb.WriteString(" {\n\t")
		sb.WriteString(strings.ReplaceAll(s.Body.Text, "\n", "\n\t"))
		sb.WriteString("\n}")
	} else {
		sb.WriteString(" { ")
		sb.WriteString(s.Body.Text)
		sb.WriteString(" }")
	}

	return sb.String()
}

// clone returns a copy that shares no mutable state with s.
func (s *Spec) clone() *Spec {
	c := *s
	c.Params = slices.Clone(s.Params)

	return &c
}
