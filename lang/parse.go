package lang

import (
	"context"
	"errors"
	"go/token"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/klauspost/readahead"
)

// ParseString parses and validates a specification.
func ParseString(ctx context.Context, s string, opts ...Option) (*Spec, error) {
	o := applyOptions(opts...)

	spec, err := parse(s)
	if err != nil {
		o.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("rank", spec.Rank()),
		slog.Any("shape", spec.Shape()),
		slog.String("return_type", spec.ReturnType.Text))

	return spec, nil
}

// ParseReader reads a specification from r and parses it with
// [ParseCached].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Spec, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	applyOptions(opts...).logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	return ParseCached(ctx, string(data), opts...)
}

// parser holds the parser state over a fully tokenized source.
type parser struct {
	src  string
	toks []Token
	i    int
}

func parse(src string) (*Spec, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{src: src, toks: toks}

	return p.parseSpec()
}

// parseSpec parses: '|' Params '|' '->' Type Block EOF.
func (p *parser) parseSpec() (*Spec, error) {
	if !p.accept(KindPipe) {
		return nil, p.unexpected("`|` to open the parameter list")
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	if !p.accept(KindArrow) {
		return nil, ErrSyntax.WithPosition(p.peek().Pos).
			Wrapf("missing return type: expected `->`, found %s",
				p.peek().describe())
	}

	typ, body, err := p.parseTail()
	if err != nil {
		return nil, err
	}

	spec := &Spec{
		Params:     params,
		ReturnType: typ,
		Body:       body,
		Source:     p.src,
	}

	if _, ok := spec.Cells(); !ok {
		return nil, ErrTooLarge.WithPosition(params[0].Pos).
			Wrapf("cell count overflows uint64").
			With(slog.Any("shape", spec.Shape()))
	}

	return spec, nil
}

// parseParams parses the comma-separated parameter list and the closing '|'.
func (p *parser) parseParams() ([]Param, error) {
	params := make([]Param, 0, 4)
	seen := make(map[string]Pos)

	for !p.accept(KindPipe) {
		if p.peek().Kind == KindEOF {
			return nil, ErrSyntax.WithPosition(p.peek().Pos).
				Wrapf("unterminated parameter list: expected `|`")
		}

		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}

		if first, ok := seen[param.Name]; ok {
			return nil, ErrDuplicateParam.WithPosition(param.Pos).
				Wrapf("parameter `%s` already declared at %s", param.Name, first).
				With(slog.String("name", param.Name))
		}

		seen[param.Name] = param.Pos
		params = append(params, param)

		switch p.peek().Kind {
		case KindComma:
			p.next()

		case KindPipe:

		default:
			return nil, p.unexpected("`,` or `|` after parameter")
		}
	}

	return params, nil
}

const (
	rangeExample   = "this parameter must have a range pattern (e.g. `x @ 1..2` or `y @ 3..=4`)"
	subpatExample  = "only range patterns allowed (e.g. `1..2` or `3..=4`)"
	missingExample = "this parameter must have a specified range pattern (e.g. `%s @ 1..2`)"
)

// parseParam parses: Identifier '@' Range.
func (p *parser) parseParam() (Param, error) {
	tok := p.peek()

	if tok.Kind != KindIdent {
		return Param{}, ErrPatternShape.WithPosition(tok.Pos).
			Wrapf("%s: %s", patternKind(tok), rangeExample).
			With(slog.String("pattern", tok.Text))
	}

	if tok.Text == "_" {
		return Param{}, ErrPatternShape.WithPosition(tok.Pos).
			Wrapf("wildcard pattern `_`: %s", rangeExample)
	}

	p.next()

	switch after := p.peek(); after.Kind {
	case KindAt:
		p.next()

	case KindComma, KindPipe:
		return Param{}, ErrMissingRange.WithPosition(tok.Pos).
			Wrapf("parameter `%s`: "+missingExample, tok.Text, tok.Text).
			With(slog.String("name", tok.Text))

	default:
		return Param{}, ErrPatternShape.WithPosition(after.Pos).
			Wrapf("unexpected %s after `%s`: %s",
				after.describe(), tok.Text, rangeExample).
			With(slog.String("name", tok.Text))
	}

	param := Param{Name: tok.Text, Pos: tok.Pos, RangePos: p.peek().Pos}

	low := p.collectBound()

	op := p.peek()

	switch op.Kind {
	case KindRange:
		param.Exclusive = true
	case KindRangeInclusive:
		param.Exclusive = false
	default:
		pattern := p.text(low, param.RangePos.Offset, op.Pos.Offset)
		if pattern == "" {
			pattern = op.Text
		}

		return Param{}, ErrPatternShape.WithPosition(param.RangePos).
			Wrapf("`%s` after `%s @`: %s", pattern, param.Name, subpatExample).
			With(slog.String("name", param.Name))
	}

	p.next()

	high := p.collectBound()

	// A literal upper bound ends the parameter; anything after it means a
	// delimiter is missing.
	if len(high) > 1 && high[0].Kind == KindInt {
		extra := high[1]

		return Param{}, ErrSyntax.WithPosition(extra.Pos).
			Wrapf("expected `,` or `|` after parameter, found %s", extra.describe()).
			With(slog.String("name", param.Name))
	}

	var err error

	param.Low, err = p.bound(low, op.Pos, "lower")
	if err != nil {
		return Param{}, err
	}

	param.High, err = p.bound(high, p.peek().Pos, "upper")
	if err != nil {
		return Param{}, err
	}

	return param, validate(param)
}

// validate checks the semantic constraints of a parsed parameter.
func validate(param Param) error {
	attrs := []slog.Attr{
		slog.String("name", param.Name),
		slog.Uint64("low", param.Low),
		slog.Uint64("high", param.High),
	}

	switch {
	case token.IsKeyword(param.Name):
		return ErrReservedName.WithPosition(param.Pos).
			Wrapf("`%s` is a Go keyword", param.Name).
			With(attrs...)

	case param.High < param.Low:
		return ErrInvertedRange.WithPosition(param.RangePos).
			Wrapf("range lower bound %d must be less than upper bound %d",
				param.Low, param.High).
			With(attrs...)

	case param.Exclusive && param.High == param.Low:
		return ErrEmptyRange.WithPosition(param.RangePos).
			Wrapf("exclusive range %d..%d has no values", param.Low, param.High).
			With(attrs...)

	case !param.Exclusive && param.Low == 0 && param.High == ^uint64(0):
		return ErrTooLarge.WithPosition(param.RangePos).
			Wrapf("range %s has more than 2^64-1 values", param).
			With(attrs...)
	}

	return nil
}

// collectBound consumes the tokens of one range bound: everything up to a
// range operator, ',' or '|' outside brackets.
func (p *parser) collectBound() []Token {
	start := p.i
	depth := 0

	for {
		tok := p.peek()

		switch {
		case tok.Kind == KindEOF:
			return p.toks[start:p.i]

		case tok.Kind.isOpen():
			depth++

		case tok.Kind.isClose():
			if depth == 0 {
				return p.toks[start:p.i]
			}

			depth--

		case depth == 0 && (tok.Kind == KindRange ||
			tok.Kind == KindRangeInclusive ||
			tok.Kind == KindComma || tok.Kind == KindPipe):
			return p.toks[start:p.i]
		}

		p.next()
	}
}

// bound converts the tokens of a range bound to its value. at is the
// position reported when the bound is missing.
func (p *parser) bound(toks []Token, at Pos, which string) (uint64, error) {
	if len(toks) == 0 {
		return 0, ErrNonLiteralBound.WithPosition(at).
			Wrapf("missing %s bound: must be an integer literal", which)
	}

	text := p.text(toks, toks[0].Pos.Offset, toks[0].Pos.Offset)

	if len(toks) > 1 || toks[0].Kind != KindInt {
		return 0, ErrNonLiteralBound.WithPosition(toks[0].Pos).
			Wrapf("%s bound `%s` must be an integer literal", which, text).
			With(slog.String("bound", text))
	}

	v, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		return 0, ErrNonLiteralBound.WithPosition(toks[0].Pos).
			Wrapf("%s bound `%s` must be an integer literal: %w",
				which, text, errCause(err)).
			With(slog.String("bound", text))
	}

	return v, nil
}

// errCause strips the strconv function and input from a conversion error.
func errCause(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}

	return err
}

// parseTail parses the return type and the body block. The body is the last
// top-level brace group; it must be followed only by the end of input.
func (p *parser) parseTail() (Fragment, Fragment, error) {
	start := p.i

	var (
		stack     []Token
		groupOpen = -1
		owned     bool
		lastClose = -1
	)

	for i := start; i < len(p.toks); i++ {
		tok := p.toks[i]

		switch {
		case tok.Kind == KindEOF:
			if len(stack) > 0 {
				open := stack[len(stack)-1]

				return Fragment{}, Fragment{}, ErrSyntax.WithPosition(open.Pos).
					Wrapf("unbalanced %s: missing %s", open.describe(),
						"`"+open.Kind.closer().String()+"`")
			}

			if lastClose >= 0 && lastClose+1 < i {
				return Fragment{}, Fragment{}, ErrSyntax.
					WithPosition(p.toks[lastClose+1].Pos).
					Wrapf("unexpected %s after body block",
						p.toks[lastClose+1].describe())
			}

			return Fragment{}, Fragment{}, ErrSyntax.WithPosition(tok.Pos).
				Wrapf("missing body block: expected `{`")

		case tok.Kind.isOpen():
			if len(stack) == 0 && tok.Kind == KindLBrace {
				groupOpen = i
				owned = i > start && p.toks[i-1].Kind == KindIdent &&
					(p.toks[i-1].Text == "struct" || p.toks[i-1].Text == "interface")
			}

			stack = append(stack, tok)

		case tok.Kind.isClose():
			if len(stack) == 0 {
				return Fragment{}, Fragment{}, ErrSyntax.WithPosition(tok.Pos).
					Wrapf("unexpected %s", tok.describe())
			}

			open := stack[len(stack)-1]
			if open.Kind.closer() != tok.Kind {
				return Fragment{}, Fragment{}, ErrSyntax.WithPosition(tok.Pos).
					Wrapf("mismatched %s: %s opened at %s",
						tok.describe(), open.describe(), open.Pos)
			}

			stack = stack[:len(stack)-1]

			if len(stack) > 0 || tok.Kind != KindRBrace || owned {
				continue
			}

			lastClose = i

			if p.toks[i+1].Kind == KindEOF {
				return p.fragments(start, groupOpen, i)
			}
		}
	}

	// tokenize always terminates the stream with KindEOF.
	panic("unreachable")
}

// fragments builds the return type and body fragments from token indices.
func (p *parser) fragments(typeStart, open, closing int) (Fragment, Fragment, error) {
	if open == typeStart {
		return Fragment{}, Fragment{}, ErrSyntax.WithPosition(p.toks[open].Pos).
			Wrapf("missing return type before body block")
	}

	typ := Fragment{
		Text: p.src[p.toks[typeStart].Pos.Offset:p.toks[open-1].End()],
		Pos:  p.toks[typeStart].Pos,
	}

	if open+1 == closing {
		return Fragment{}, Fragment{}, ErrSyntax.WithPosition(p.toks[open].Pos).
			Wrapf("empty body block")
	}

	first := p.toks[open+1]
	body := Fragment{
		Text: strings.TrimRightFunc(
			p.src[first.Pos.Offset:p.toks[closing].Pos.Offset],
			unicode.IsSpace,
		),
		Pos: first.Pos,
	}

	return typ, body, nil
}

// text returns the source text spanned by toks, or the source between from
// and to if toks is empty.
func (p *parser) text(toks []Token, from, to int) string {
	if len(toks) == 0 {
		return strings.TrimSpace(p.src[from:to])
	}

	return p.src[toks[0].Pos.Offset:toks[len(toks)-1].End()]
}

// patternKind describes a parameter pattern that does not start with an
// identifier.
func patternKind(tok Token) string {
	switch tok.Kind {
	case KindInt, KindFloat, KindString, KindRune:
		return "literal pattern `" + tok.Text + "`"
	case KindLParen:
		return "tuple pattern"
	case KindLBrack:
		return "slice pattern"
	case KindRange, KindRangeInclusive:
		return "range pattern without a name"
	case KindComma:
		return "empty parameter"
	}

	if tok.Text == "&" {
		return "reference pattern"
	}

	return "pattern " + tok.describe()
}

// Helper methods

func (p *parser) peek() Token { return p.toks[p.i] }

func (p *parser) next() Token {
	tok := p.toks[p.i]
	if tok.Kind != KindEOF {
		p.i++
	}

	return tok
}

func (p *parser) accept(kind Kind) bool {
	if p.peek().Kind == kind {
		p.next()

		return true
	}

	return false
}

func (p *parser) unexpected(expected string) *Error {
	tok := p.peek()

	return ErrSyntax.WithPosition(tok.Pos).
		Wrapf("expected %s, found %s", expected, tok.describe())
}
