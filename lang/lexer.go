package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer splits specification source into tokens. Comments and whitespace
// are skipped. String, raw string and rune literals are scanned whole so
// that brackets inside them never affect group balancing.
type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

// tokenize scans the entire source. The final token is always KindEOF
// unless an illegal token is found, in which case an error is returned.
func tokenize(src string) ([]Token, error) {
	l := newLexer(src)
	toks := make([]Token, 0, len(src)/2+1)

	for {
		tok := l.next()

		switch tok.Kind {
		case KindIllegal:
			return nil, ErrSyntax.WithPosition(tok.Pos).
				Wrapf("unterminated %s", l.illegalWhat(tok))

		case KindEOF:
			return append(toks, tok), nil
		}

		toks = append(toks, tok)
	}
}

func (l *lexer) illegalWhat(tok Token) string {
	switch {
	case strings.HasPrefix(tok.Text, "/*"):
		return "block comment"
	case strings.HasPrefix(tok.Text, "`"):
		return "raw string literal"
	case strings.HasPrefix(tok.Text, "'"):
		return "rune literal"
	default:
		return "string literal"
	}
}

func (l *lexer) next() Token {
	if start, ok := l.skipWhitespaceAndComments(); !ok {
		return Token{Kind: KindIllegal, Text: l.src[start.Offset:l.pos], Pos: start}
	}

	start := l.position()
	if l.eof() {
		return Token{Kind: KindEOF, Pos: start}
	}

	var kind Kind

	r := l.peek()

	switch {
	case isIdentifierStart(r):
		for !l.eof() && isIdentifierContinue(l.peek()) {
			l.advance()
		}

		kind = KindIdent

	case r >= '0' && r <= '9':
		kind = l.scanNumber()

	case r == '"':
		kind = l.scanQuoted('"', KindString)

	case r == '`':
		kind = l.scanRaw()

	case r == '\'':
		kind = l.scanRune()

	default:
		kind = l.scanPunct()
	}

	return Token{Kind: kind, Text: l.src[start.Offset:l.pos], Pos: start}
}

// scanNumber scans an integer or floating-point literal. A '.' followed by
// another '.' ends the literal so that `0..8` lexes as `0`, `..`, `8`.
// Exponent signs are left as punctuation; numbers outside range bounds are
// only ever reproduced from source text.
func (l *lexer) scanNumber() Kind {
	kind := KindInt

	for !l.eof() {
		r := l.peek()

		switch {
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			l.advance()

		case r == '.' && l.peekByte(1) != '.':
			kind = KindFloat

			l.advance()

		default:
			return kind
		}
	}

	return kind
}

func (l *lexer) scanQuoted(quote rune, kind Kind) Kind {
	l.advance() // opening quote

	for !l.eof() {
		switch l.peek() {
		case '\\':
			l.advance()

			if !l.eof() {
				l.advance()
			}

		case '\n':
			return KindIllegal

		case quote:
			l.advance()

			return kind

		default:
			l.advance()
		}
	}

	return KindIllegal
}

func (l *lexer) scanRaw() Kind {
	l.advance() // opening backquote

	for !l.eof() {
		if l.peek() == '`' {
			l.advance()

			return KindString
		}

		l.advance()
	}

	return KindIllegal
}

// scanRune scans a rune literal. A quote that does not start a well-formed
// rune literal (a lifetime such as 'a in a foreign type) is punctuation.
func (l *lexer) scanRune() Kind {
	if l.peekByte(1) == '\\' {
		return l.scanQuoted('\'', KindRune)
	}

	_, size := utf8.DecodeRuneInString(l.src[min(l.pos+1, len(l.src)):])
	if size > 0 && l.peekByte(1+size) == '\'' {
		l.advance()
		l.advance()
		l.advance()

		return KindRune
	}

	l.advance()

	return KindPunct
}

func (l *lexer) scanPunct() Kind {
	switch {
	case strings.HasPrefix(l.src[l.pos:], "..="):
		l.advanceN(3)

		return KindRangeInclusive

	case strings.HasPrefix(l.src[l.pos:], ".."):
		l.advanceN(2)

		return KindRange

	case strings.HasPrefix(l.src[l.pos:], "->"):
		l.advanceN(2)

		return KindArrow
	}

	kind := KindPunct

	switch l.peek() {
	case '|':
		kind = KindPipe
	case ',':
		kind = KindComma
	case '@':
		kind = KindAt
	case '{':
		kind = KindLBrace
	case '}':
		kind = KindRBrace
	case '(':
		kind = KindLParen
	case ')':
		kind = KindRParen
	case '[':
		kind = KindLBrack
	case ']':
		kind = KindRBrack
	}

	l.advance()

	return kind
}

// skipWhitespaceAndComments advances past whitespace, line comments and
// block comments. It reports false with the comment's start position if a
// block comment is not terminated.
func (l *lexer) skipWhitespaceAndComments() (Pos, bool) {
	for {
		for !l.eof() && unicode.IsSpace(l.peek()) {
			l.advance()
		}

		switch {
		case strings.HasPrefix(l.src[l.pos:], "//"):
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		case strings.HasPrefix(l.src[l.pos:], "/*"):
			start := l.position()

			end := strings.Index(l.src[l.pos+2:], "*/")
			if end < 0 {
				l.advanceN(len(l.src) - l.pos)

				return start, false
			}

			l.advanceN(end + 4)

		default:
			return l.position(), true
		}
	}
}

// Helper methods

func (l *lexer) position() Pos {
	return Pos{Offset: l.pos, Line: l.line, Col: l.col}
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])

	return r
}

func (l *lexer) peekByte(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}

	return l.src[l.pos+n]
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// advanceN advances past n bytes, keeping line and column current.
func (l *lexer) advanceN(n int) {
	for end := l.pos + n; l.pos < end && !l.eof(); {
		l.advance()
	}
}

// Character classification

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
