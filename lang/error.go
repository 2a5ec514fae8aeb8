package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax          = NewError("syntax error")
	ErrPatternShape    = NewError("invalid parameter pattern")
	ErrMissingRange    = NewError("missing range")
	ErrNonLiteralBound = NewError("invalid range bound")
	ErrInvertedRange   = NewError("inverted range")
	ErrEmptyRange      = NewError("empty range")
	ErrDuplicateParam  = NewError("duplicate parameter")
	ErrReservedName    = NewError("reserved parameter name")
	ErrTooLarge        = NewError("table too large")
	ErrReadInput       = NewError("failed to read input")
	ErrBodyCompile     = NewError("body compilation failed")
	ErrBodyEvaluate    = NewError("body evaluation failed")
)

// Error represents an error with an optional source position and structured
// logging attributes. It implements both error and slog.LogValuer.
//
// Errors derived from a sentinel with [Error.With], [Error.Wrap] or
// [Error.WithPosition] still match it with [errors.Is].
type Error struct {
	base  *Error      // Sentinel this error derives from
	err   error       // Wrapped error (for errors.Unwrap)
	msg   string      // Short description
	attrs []slog.Attr // Attributes for structured logging
	pos   Pos
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.base = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<line>:<col>: <msg>: <err>", omitting any part
// that is not set.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	msg := strings.Join(part, ": ")
	if e.pos.IsValid() {
		return e.pos.String() + ": " + msg
	}

	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e derives from the sentinel target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.base != nil && t == e.base
}

// Position returns the source position associated with the error, if any.
func (e *Error) Position() Pos { return e.pos }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos.IsValid() {
		attrs = append(attrs, slog.Any("pos", e.pos))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// Wrapf creates a new Error wrapping a formatted message.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	c := *e
	c.attrs = newAttrs

	return &c
}

// WithPosition returns a copy of the error tagged with a source position.
func (e *Error) WithPosition(pos Pos) *Error {
	c := *e
	c.pos = pos

	return &c
}

// Snippet renders the source line containing the error position with a
// caret under the offending column. It returns an empty string if the error
// has no position within source.
func (e *Error) Snippet(source string) string {
	if !e.pos.IsValid() {
		return ""
	}

	lines := strings.Split(source, "\n")
	if e.pos.Line > len(lines) {
		return ""
	}

	var buf strings.Builder

	line := strings.TrimRight(lines[e.pos.Line-1], "\r")

	// Print the line with line number
	buf.WriteString("  ")
	buf.WriteString(strconv.Itoa(e.pos.Line))
	buf.WriteString(" | ")
	buf.WriteString(line)
	buf.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(strconv.Itoa(e.pos.Line))+5)

	// Tabs keep their width so the caret lines up in a terminal.
	col := 0
	for _, r := range line {
		if col >= e.pos.Col-1 {
			break
		}

		if r == '\t' {
			padding += "\t"
		} else {
			padding += " "
		}

		col++
	}

	buf.WriteString(padding)
	buf.WriteString("^\n")

	return buf.String()
}
