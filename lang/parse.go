package lang

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/mdse/log"
)

// DefaultMaxNesting is the default limit on parenthesis nesting in source.
const DefaultMaxNesting = 1000

// Position identifies a location in source text.
type Position struct {
	Offset int // Byte offset, starting at 0
	Line   int // Line number, starting at 1
	Column int // Column number in runes, starting at 1
}

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ParseOption configures the parser.
type ParseOption func(*parser)

// WithMaxNesting limits the parenthesis nesting depth accepted by the
// parser. A limit of zero or less disables the check.
func WithMaxNesting(depth int) ParseOption {
	return func(p *parser) { p.maxNesting = depth }
}

// WithParseLogger sets the logger used for parse tracing.
func WithParseLogger(logger log.Logger) ParseOption {
	return func(p *parser) { p.logger = logger }
}

// ParseString parses s as a document: every top-level item up to the end of
// input, wrapped in a single Expression.
//
// Grammar:
//
//	document = { item } ;
//	item     = list | string | word ;
//	list     = "(" { item } ")" ;
//	string   = '"' { char | escape } '"' ;
//	word     = ( char | escape ) { char | escape } ;
//
// A word is a maximal run of runes other than whitespace, parentheses, and
// double quotes. A backslash escapes the rune after it in words and strings;
// \n, \t, and \r denote control characters.
func ParseString(ctx context.Context, s string, opts ...ParseOption) (Expression, error) {
	p := newParser(s, opts...)

	items, err := p.parseItems(0, p.position())
	if err != nil {
		return Expression{}, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("items", len(items)),
		slog.Int("bytes", len(s)),
	)

	return Expression{items: items}, nil
}

// parser holds the parser state.
type parser struct {
	logger     log.Logger
	input      string
	pos        int
	line       int
	col        int
	maxNesting int
}

func newParser(s string, opts ...ParseOption) *parser {
	p := &parser{
		input:      s,
		line:       1,
		col:        1,
		maxNesting: DefaultMaxNesting,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// parseItems parses items until end of input (depth 0) or a closing
// parenthesis (depth > 0), which is consumed. open is the position of the
// opening parenthesis.
func (p *parser) parseItems(depth int, open Position) ([]Node, error) {
	var items []Node

	for {
		p.skipWhitespace()

		if p.eof() {
			if depth > 0 {
				return nil, ErrParse.WithPosition(open).
					With(slog.String("issue", "unterminated list"))
			}

			return items, nil
		}

		switch r := p.peek(); r {
		case ')':
			if depth == 0 {
				return nil, ErrParse.WithPosition(p.position()).
					With(slog.String("issue", "unexpected )"))
			}

			p.advance()

			return items, nil

		case '(':
			pos := p.position()

			if p.maxNesting > 0 && depth+1 > p.maxNesting {
				return nil, ErrParse.WithPosition(pos).
					With(
						slog.String("issue", "nesting too deep"),
						slog.Int("max_nesting", p.maxNesting),
					)
			}

			p.advance()

			sub, err := p.parseItems(depth+1, pos)
			if err != nil {
				return nil, err
			}

			items = append(items, Expression{items: sub})

		case '"':
			sym, err := p.parseString()
			if err != nil {
				return nil, err
			}

			items = append(items, sym)

		default:
			sym, err := p.parseWord()
			if err != nil {
				return nil, err
			}

			items = append(items, sym)
		}
	}
}

// parseString parses a double-quoted symbol.
func (p *parser) parseString() (Symbol, error) {
	start := p.position()

	p.advance() // opening quote

	var b strings.Builder

	for {
		if p.eof() {
			return Empty, ErrParse.WithPosition(start).
				With(slog.String("issue", "unterminated string"))
		}

		r := p.peek()

		switch r {
		case '"':
			p.advance()

			return Symbol(b.String()), nil

		case '\\':
			e, err := p.parseEscape()
			if err != nil {
				return Empty, err
			}

			b.WriteRune(e)

		default:
			p.advance()
			b.WriteRune(r)
		}
	}
}

// parseWord parses a bare symbol.
func (p *parser) parseWord() (Symbol, error) {
	var b strings.Builder

	for !p.eof() {
		r := p.peek()
		if isDelimiter(r) {
			break
		}

		if r == '\\' {
			e, err := p.parseEscape()
			if err != nil {
				return Empty, err
			}

			b.WriteRune(e)

			continue
		}

		p.advance()
		b.WriteRune(r)
	}

	return Symbol(b.String()), nil
}

// parseEscape consumes a backslash and the rune it escapes.
func (p *parser) parseEscape() (rune, error) {
	pos := p.position()

	p.advance() // backslash

	if p.eof() {
		return 0, ErrParse.WithPosition(pos).
			With(slog.String("issue", "dangling escape"))
	}

	r := p.peek()
	p.advance()

	switch r {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	default:
		return r, nil
	}
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])

	return r
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

func (p *parser) skipWhitespace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.advance()
	}
}

// isDelimiter reports whether r ends a bare word.
func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == '"'
}
