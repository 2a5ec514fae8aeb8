package pkg

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a chain of errors, outermost context first. An Error derived from
// a sentinel with [Error.Wrap] or [Error.Wrapf] begins with the sentinel's
// chain, so [errors.Is] matches it against the sentinel.
type Error []error

// Sentinel errors of the lutgen packages that read files.
//
//nolint:gochecknoglobals
var (
	// ErrReadInput wraps the I/O error from reading a specification or
	// manifest.
	ErrReadInput = MakeErrorf("failed to read input")

	// ErrManifest wraps the decoder error, which usually carries the
	// offending line or block.
	ErrManifest = MakeErrorf("invalid manifest")

	// ErrManifestFormat reports a manifest whose extension or format name
	// does not map to a supported format.
	ErrManifestFormat = MakeErrorf("unsupported manifest format")

	// ErrManifestEntry reports an incomplete or conflicting table entry,
	// such as a missing name or spec.
	ErrManifestEntry = MakeErrorf("invalid manifest table")
)

// MakeErrorf returns a one-element chain holding a formatted message.
func MakeErrorf(format string, args ...any) Error {
	return Error{fmt.Errorf(format, args...)}
}

func (e Error) Error() string {
	part := make([]string, 0, len(e))

	for _, err := range e {
		if err != nil {
			part = append(part, err.Error())
		}
	}

	return strings.Join(part, ": ")
}

// Wrap returns a new chain extending the receiver with errs. Nil errors are
// skipped.
func (e Error) Wrap(errs ...error) Error {
	out := make(Error, len(e), len(e)+len(errs))
	copy(out, e)

	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}

	return out
}

// Wrapf returns a new chain extending the receiver with a formatted error.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Is reports whether target is an [Error] whose chain prefixes the receiver's
// chain.
func (e Error) Is(target error) bool {
	var t Error
	if !errors.As(target, &t) || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i := range t {
		if e[i] != t[i] {
			return false
		}
	}

	return true
}

// Unwrap returns the errors of the chain.
func (e Error) Unwrap() []error { return e }
