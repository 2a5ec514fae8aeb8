// Package lang parses and validates lookup table specifications.
//
// A specification names one or more bounded integer parameters, a result
// type, and a body computed from those parameters:
//
//	|x @ 0..8, y @ 0..=16| -> uint32 { x + y }
//
// Ranges written `lo..hi` exclude the upper bound and ranges written
// `lo..=hi` include it. Both bounds must be non-negative integer literals
// using Go literal syntax (decimal, 0x, 0o, 0b, with optional `_`
// separators).
//
// # Grammar
//
// Informal EBNF:
//
//	Spec   → '|' ( Param ( ',' Param )* ','? )? '|' '->' Type Block EOF
//	Param  → Identifier '@' Range
//	Range  → IntLit '..' IntLit | IntLit '..=' IntLit
//	Type   → <token run up to the final top-level Block>
//	Block  → '{' <balanced tokens> '}'
//
// The return type and the body are opaque: the parser records their source
// text and position but never interprets them. A type ending in `struct` or
// `interface` owns the brace group that follows it.
//
// # Parameter order
//
// Parameters are significant in declaration order. The first parameter is
// the outermost (slowest varying) dimension of the table and the first
// argument of its accessor.
//
// # Errors
//
// Every failure is an [*Error] tagged with the position of the offending
// input. Use [errors.Is] against the sentinels ([ErrSyntax],
// [ErrMissingRange], [ErrInvertedRange], ...) to classify them and
// [Error.Snippet] to render the offending line.
//
// # Evaluation
//
// [Spec.Compile] compiles the body as an expr-lang expression with every
// parameter bound to an int, for generators and runtime tables that compute
// cells without a Go toolchain.
package lang
