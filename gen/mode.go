package gen

//go:generate go tool stringer --linecomment --type Mode --output mode_string.go

import (
	"iter"
	"strings"
)

// Mode selects how table cells are computed.
type Mode int

const (
	ModeGo   Mode = iota // go
	ModeExpr             // expr
)

// DefaultMode is the mode used when none is specified.
const DefaultMode = ModeGo

// Modes returns an iterator over the names of all modes.
func Modes() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, m := range []Mode{ModeGo, ModeExpr} {
			if !yield(m.String()) {
				return
			}
		}
	}
}

// ParseMode parses a mode name. The empty string yields [DefaultMode].
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultMode, nil
	case "go":
		return ModeGo, nil
	case "expr":
		return ModeExpr, nil
	default:
		return DefaultMode, ErrInvalidMode.Wrapf("%q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}

	*m = mode

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
