package cmd

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/lutgen/lang"
)

// Error is a command failure, optionally attributed to the source text that
// caused it.
type Error struct {
	msg    string
	origin string
	err    error
	attrs  []slog.Attr
}

func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	var sb strings.Builder

	if e.origin != "" {
		sb.WriteString(e.origin)
		sb.WriteString(": ")
	}

	sb.WriteString(e.msg)

	if e.err != nil {
		if e.msg != "" {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg && t.err == nil && t.origin == ""
}

// Position returns the position of the first [lang.Error] in the chain that
// has one.
func (e *Error) Position() (lang.Pos, bool) {
	err := e.err

	for {
		var le *lang.Error
		if !errors.As(err, &le) {
			return lang.Pos{}, false
		}

		if pos := le.Position(); pos.IsValid() {
			return pos, true
		}

		err = le.Unwrap()
	}
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.origin != "" {
		attrs = append(attrs, slog.String("origin", e.origin))
	}

	if pos, ok := e.Position(); ok {
		attrs = append(attrs, slog.Any("pos", pos))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// In returns a copy of e attributed to the named source: a file path, "-"
// for stdin, or "<arg>" for a specification given on the command line.
func (e *Error) In(origin string) *Error {
	c := *e
	c.origin = origin

	return &c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...)

	return &c
}

// argOrigin names a specification passed directly on the command line.
const argOrigin = "<arg>"

var (
	ErrNoInput     = NewError("no table specification given")
	ErrNoPackage   = NewError("no package name (use --package or set $GOPACKAGE)")
	ErrGenerate    = NewError("generate tables")
	ErrWriteOutput = NewError("write generated file")
	ErrCheck       = NewError("check failed")
	ErrInspect     = NewError("inspect specification")
	ErrEvaluate    = NewError("evaluate table")
)
