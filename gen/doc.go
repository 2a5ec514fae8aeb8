// Package gen emits Go source for lookup tables.
//
// For every [Unit] the generator writes two package-level declarations: a
// hidden table holding one cell per combination of parameter values, typed
// as nested arrays ([TypeOf]), and an exported accessor that indexes it:
//
//	var Sum = func(x, y uint) uint32 { return _Sum_table[x][y] }
//
//	var _Sum_table = [8][16]uint32{ ... }
//
// The first parameter indexes the outermost array. The accessor relies on
// Go's bounds checks, so an index at or beyond a dimension's length panics
// with a runtime error naming the index and the length.
//
// # Modes
//
// In [ModeGo] each cell re-emits the specification body verbatim inside a
// function literal that binds every parameter as a named constant, leaving
// evaluation to the Go compiler. A body that is not a single expression is
// emitted as a statement list and must return.
//
// In [ModeExpr] the body is evaluated at generation time with expr-lang and
// each cell is emitted as a literal.
package gen
