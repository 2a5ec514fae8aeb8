package table

import (
	"iter"

	"github.com/ardnew/lutgen/lang"
)

// Enumerate yields every combination of parameter values in row-major
// order, the first parameter varying slowest, along with its flat cell
// index. A specification without parameters yields one empty combination.
//
// The yielded slice is reused between iterations; copy it to retain it.
func Enumerate(spec *lang.Spec) iter.Seq2[int, []uint64] {
	return func(yield func(int, []uint64) bool) {
		for i, p := range enumerate(spec) {
			if !yield(i, p.values) {
				return
			}
		}
	}
}

// enumerate yields every point of spec in row-major order, reusing one
// Point.
func enumerate(spec *lang.Spec) iter.Seq2[int, Point] {
	return func(yield func(int, Point) bool) {
		n := len(spec.Params)
		p := Point{
			spec:    spec,
			values:  make([]uint64, n),
			indices: make([]uint64, n),
		}

		for d, param := range spec.Params {
			p.values[d] = param.Low
		}

		for i := 0; ; i++ {
			if !yield(i, p) {
				return
			}

			// Odometer step: advance the innermost dimension, carrying
			// outward.
			d := n - 1
			for ; d >= 0; d-- {
				param := spec.Params[d]

				p.indices[d]++
				if p.indices[d] < param.Count() {
					p.values[d] = param.Value(p.indices[d])

					break
				}

				p.indices[d] = 0
				p.values[d] = param.Low
			}

			if d < 0 {
				return
			}
		}
	}
}

// Point is one combination of parameter values.
//
// A Point passed to a callback is only valid for the duration of the call.
type Point struct {
	spec    *lang.Spec
	values  []uint64
	indices []uint64
}

// Len returns the number of parameters.
func (p Point) Len() int { return len(p.values) }

// At returns the value of the i-th parameter.
func (p Point) At(i int) uint64 { return p.values[i] }

// Index returns the zero-based index of the i-th parameter's value within
// its range.
func (p Point) Index(i int) uint64 { return p.indices[i] }

// Lookup returns the value of the named parameter.
func (p Point) Lookup(name string) (uint64, bool) {
	for i, param := range p.spec.Params {
		if param.Name == name {
			return p.values[i], true
		}
	}

	return 0, false
}

// Get returns the value of the named parameter. It panics if the
// specification has no such parameter.
func (p Point) Get(name string) uint64 {
	v, ok := p.Lookup(name)
	if !ok {
		panic("table: no parameter named " + name)
	}

	return v
}

// Int returns the value of the named parameter as an int.
func (p Point) Int(name string) int { return int(p.Get(name)) }

// Values returns a copy of all parameter values in declaration order.
func (p Point) Values() []uint64 {
	return append([]uint64(nil), p.values...)
}

// Indices returns a copy of all parameter indices in declaration order.
func (p Point) Indices() []uint64 {
	return append([]uint64(nil), p.indices...)
}
