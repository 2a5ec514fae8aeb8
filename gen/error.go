package gen

import "github.com/ardnew/lutgen/lang"

// Predefined errors (sentinel values).
var (
	ErrGenerate     = lang.NewError("code generation failed")
	ErrInvalidName  = lang.NewError("invalid identifier")
	ErrInvalidMode  = lang.NewError("invalid mode")
	ErrInvalidValue = lang.NewError("cell value has no Go literal")
)
