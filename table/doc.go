// Package table builds dense lookup tables from [lang.Spec] values at run
// time.
//
// A table holds one precomputed cell for every combination of parameter
// values, stored in row-major order: the first parameter is the outermost
// (slowest varying) dimension. Accessors take one index per parameter in
// declaration order, where index i of a parameter selects the value Low+i.
//
// Cells are computed either by a Go callback ([Build]) or by evaluating the
// specification body with expr-lang ([Eval], [Compile]). Tables are
// immutable once built and safe for concurrent use.
//
// Indexing outside a dimension panics with an [*IndexError]; use
// [Table.Lookup] to receive the error instead.
package table
