package table

import (
	"context"
	"log/slog"
	"math"
	"reflect"
	"time"

	"github.com/ardnew/lutgen/lang"
)

// Build computes a table by calling body once for every point of spec, in
// row-major order.
func Build[T any](spec *lang.Spec, body func(Point) T, opts ...Option) (*Table[T], error) {
	var o options

	applyDefaults(&o)
	applyOptions(&o, opts...)

	t, err := alloc[T](spec, o)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	for i, p := range enumerate(spec) {
		t.cells[i] = body(p)
	}

	o.logger.Debug("table built",
		slog.Any("shape", t.shape),
		slog.Int("cells", len(t.cells)),
		slog.Duration("elapsed", time.Since(start)))

	return t, nil
}

// Eval computes a table by evaluating the body of spec as an expr-lang
// expression for every point. Each result is converted to T.
func Eval[T any](spec *lang.Spec, opts ...Option) (*Table[T], error) {
	var o options

	applyDefaults(&o)
	applyOptions(&o, opts...)

	t, err := alloc[T](spec, o)
	if err != nil {
		return nil, err
	}

	prog, err := spec.Compile()
	if err != nil {
		return nil, err
	}

	start := time.Now()

	for i, values := range Enumerate(spec) {
		out, err := prog.Eval(values...)
		if err != nil {
			return nil, err
		}

		t.cells[i], err = convert[T](out)
		if err != nil {
			return nil, ErrConvert.WithPosition(spec.Body.Pos).Wrap(err).
				With(slog.Any("values", values))
		}
	}

	o.logger.Debug("table evaluated",
		slog.Any("shape", t.shape),
		slog.Int("cells", len(t.cells)),
		slog.Duration("elapsed", time.Since(start)))

	return t, nil
}

// Compile parses src and evaluates it with [Eval].
func Compile[T any](ctx context.Context, src string, opts ...Option) (*Table[T], error) {
	var o options

	applyDefaults(&o)
	applyOptions(&o, opts...)

	spec, err := lang.ParseCached(ctx, src, lang.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	return Eval[T](spec, opts...)
}

// MustCompile is like [Compile] but panics on error. It simplifies
// initializing package-level tables.
func MustCompile[T any](src string, opts ...Option) *Table[T] {
	t, err := Compile[T](context.Background(), src, opts...)
	if err != nil {
		panic(err)
	}

	return t
}

// alloc allocates an empty table for spec after checking its size.
func alloc[T any](spec *lang.Spec, o options) (*Table[T], error) {
	limit := min(o.maxCells, uint64(math.MaxInt))

	if err := spec.CheckSize(limit); err != nil {
		return nil, err
	}

	n, _ := spec.Cells()

	shape := spec.Shape()
	stride := make([]uint64, len(shape))

	s := uint64(1)
	for d := len(shape) - 1; d >= 0; d-- {
		stride[d] = s
		s *= shape[d]
	}

	return &Table[T]{
		spec:   spec,
		shape:  shape,
		stride: stride,
		cells:  make([]T, n),
	}, nil
}

// convert converts an evaluated cell value to T.
func convert[T any](v any) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}

	var zero T

	to := reflect.TypeFor[T]()

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return zero, &ConvertError{Value: v, To: to}
	}

	if !rv.CanConvert(to) || !lossless(rv, to) {
		return zero, &ConvertError{Value: v, To: to}
	}

	out, ok := rv.Convert(to).Interface().(T)
	if !ok {
		return zero, &ConvertError{Value: v, To: to}
	}

	return out, nil
}

// lossless reports whether converting a numeric value to type to preserves
// its value. Non-numeric conversions are always accepted.
func lossless(v reflect.Value, to reflect.Type) bool {
	switch {
	case to.Kind() == reflect.String:
		return v.Kind() == reflect.String

	case isInt(v.Kind()) && isUint(to.Kind()):
		return v.Int() >= 0 && !reflect.Zero(to).OverflowUint(uint64(v.Int()))

	case isInt(v.Kind()) && isInt(to.Kind()):
		return !reflect.Zero(to).OverflowInt(v.Int())

	case isUint(v.Kind()) && isInt(to.Kind()):
		return v.Uint() <= math.MaxInt64 && !reflect.Zero(to).OverflowInt(int64(v.Uint()))

	case isUint(v.Kind()) && isUint(to.Kind()):
		return !reflect.Zero(to).OverflowUint(v.Uint())

	case isFloat(v.Kind()) && (isInt(to.Kind()) || isUint(to.Kind())):
		f := v.Float()

		return f >= math.MinInt64 && f < math.MaxInt64 && f == math.Trunc(f) &&
			lossless(reflect.ValueOf(int64(f)), to)

	case isFloat(v.Kind()) && to.Kind() == reflect.Float32:
		f := v.Float()

		return math.IsNaN(f) || float64(float32(f)) == f
	}

	return true
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
