package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"log/slog"
	"strconv"
)

// Pos identifies a location in specification source text.
// Line and Col are 1-based; Col counts runes.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

// IsValid reports whether the position refers to a location in source.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// LogValue implements slog.LogValuer.
func (p Pos) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", p.Line),
		slog.Int("col", p.Col),
	)
}

// Kind classifies a [Token].
type Kind int

const (
	KindIllegal        Kind = iota // illegal
	KindEOF                        // EOF
	KindIdent                      // identifier
	KindInt                        // integer
	KindFloat                      // float
	KindString                     // string
	KindRune                       // rune
	KindPipe                       // |
	KindComma                      // ,
	KindAt                         // @
	KindRange                      // ..
	KindRangeInclusive             // ..=
	KindArrow                      // ->
	KindLBrace                     // {
	KindRBrace                     // }
	KindLParen                     // (
	KindRParen                     // )
	KindLBrack                     // [
	KindRBrack                     // ]
	KindPunct                      // punctuation
)

// Token is a lexical unit of specification source.
type Token struct {
	Text string
	Pos  Pos
	Kind Kind
}

// End returns the byte offset just past the token.
func (t Token) End() int { return t.Pos.Offset + len(t.Text) }

func (t Token) describe() string {
	switch t.Kind {
	case KindEOF:
		return "end of input"
	case KindIdent, KindInt, KindFloat, KindString, KindRune, KindIllegal:
		return t.Kind.String() + " `" + t.Text + "`"
	default:
		return "`" + t.Text + "`"
	}
}

// isOpen reports whether k opens a bracketed group.
func (k Kind) isOpen() bool {
	return k == KindLBrace || k == KindLParen || k == KindLBrack
}

// isClose reports whether k closes a bracketed group.
func (k Kind) isClose() bool {
	return k == KindRBrace || k == KindRParen || k == KindRBrack
}

// closer returns the kind that closes the group opened by k.
func (k Kind) closer() Kind {
	switch k {
	case KindLBrace:
		return KindRBrace
	case KindLParen:
		return KindRParen
	case KindLBrack:
		return KindRBrack
	default:
		return KindIllegal
	}
}
