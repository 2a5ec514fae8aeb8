package table

import (
	"iter"
	"slices"

	"github.com/ardnew/lutgen/lang"
)

// Table is an immutable dense lookup table over the parameter ranges of a
// specification.
type Table[T any] struct {
	spec   *lang.Spec
	shape  []uint64
	stride []uint64
	cells  []T
}

// Spec returns the specification the table was built from.
func (t *Table[T]) Spec() *lang.Spec { return t.spec }

// Rank returns the number of dimensions.
func (t *Table[T]) Rank() int { return len(t.shape) }

// Shape returns the length of each dimension, outermost first.
func (t *Table[T]) Shape() []uint64 { return slices.Clone(t.shape) }

// Len returns the total number of cells.
func (t *Table[T]) Len() int { return len(t.cells) }

// At returns the cell at the given indices, one per parameter in
// declaration order. It panics with an [*ArityError] or [*IndexError] if
// the indices do not address a cell.
func (t *Table[T]) At(idx ...uint) T {
	v, err := t.Lookup(idx...)
	if err != nil {
		panic(err)
	}

	return v
}

// Lookup returns the cell at the given indices, or an [*ArityError] or
// [*IndexError] if they do not address a cell.
func (t *Table[T]) Lookup(idx ...uint) (T, error) {
	var zero T

	if len(idx) != len(t.shape) {
		return zero, &ArityError{Want: len(t.shape), Got: len(idx)}
	}

	off := uint64(0)

	for d, i := range idx {
		if uint64(i) >= t.shape[d] {
			return zero, t.indexError(d, i)
		}

		off += uint64(i) * t.stride[d]
	}

	return t.cells[off], nil
}

// All yields every cell with its point in row-major order. The point is
// only valid until the next iteration.
func (t *Table[T]) All() iter.Seq2[Point, T] {
	return func(yield func(Point, T) bool) {
		for i, p := range enumerate(t.spec) {
			if !yield(p, t.cells[i]) {
				return
			}
		}
	}
}

func (t *Table[T]) indexError(d int, i uint) *IndexError {
	return &IndexError{
		Param: t.spec.Params[d].Name,
		Dim:   d,
		Index: i,
		Len:   t.shape[d],
	}
}

// cell returns the cell at idx, panicking with an [*IndexError] if any index
// is out of range. The number of indices must equal the rank.
func (t *Table[T]) cell(idx ...uint) T {
	off := uint64(0)

	for d, i := range idx {
		if uint64(i) >= t.shape[d] {
			panic(t.indexError(d, i))
		}

		off += uint64(i) * t.stride[d]
	}

	return t.cells[off]
}

// Func0 returns the accessor of a table without parameters.
func Func0[T any](t *Table[T]) (func() T, error) {
	if err := t.checkRank(0); err != nil {
		return nil, err
	}

	v := t.cells[0]

	return func() T { return v }, nil
}

// Func1 returns the accessor of a one-dimensional table.
func Func1[T any](t *Table[T]) (func(uint) T, error) {
	if err := t.checkRank(1); err != nil {
		return nil, err
	}

	return func(a uint) T { return t.cell(a) }, nil
}

// Func2 returns the accessor of a two-dimensional table. Arguments follow
// parameter declaration order.
func Func2[T any](t *Table[T]) (func(uint, uint) T, error) {
	if err := t.checkRank(2); err != nil {
		return nil, err
	}

	return func(a, b uint) T { return t.cell(a, b) }, nil
}

// Func3 returns the accessor of a three-dimensional table.
func Func3[T any](t *Table[T]) (func(uint, uint, uint) T, error) {
	if err := t.checkRank(3); err != nil {
		return nil, err
	}

	return func(a, b, c uint) T { return t.cell(a, b, c) }, nil
}

// Func4 returns the accessor of a four-dimensional table.
func Func4[T any](t *Table[T]) (func(uint, uint, uint, uint) T, error) {
	if err := t.checkRank(4); err != nil {
		return nil, err
	}

	return func(a, b, c, d uint) T { return t.cell(a, b, c, d) }, nil
}

func (t *Table[T]) checkRank(n int) error {
	if len(t.shape) != n {
		return &ArityError{Want: len(t.shape), Got: n}
	}

	return nil
}
