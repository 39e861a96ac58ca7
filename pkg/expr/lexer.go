package expr

import (
	"strconv"
	"strings"
)

// maxNumberLen caps how many source bytes a single number token may
// span, per §4.B.1.
const maxNumberLen = 63

// operatorGlyphChars is the glyph set a lexer run may consume, per
// §4.B.1. Selectors additionally allow a single leading dot.
const operatorGlyphChars = "+-*%/!()<>=|&"

// lexer tokenizes expression source text one token at a time. It
// tracks the last emitted token so numbers can tell a leading '-'
// apart from a binary minus, per §4.B.1's unary-minus rule.
type lexer struct {
	src  string
	pos  int
	last *Token
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isGlyph(c byte) bool {
	return strings.IndexByte(operatorGlyphChars, c) >= 0
}

// next returns the next token, or a *SyntaxError.
func (l *lexer) next() (Token, error) {
	l.skipSpaces()

	start := l.pos
	if l.pos >= len(l.src) {
		tok := Token{Type: TokenEOF, Offset: start}
		l.last = &tok
		return tok, nil
	}

	c := l.src[l.pos]

	// Unary minus is only a number's sign when no token has been
	// emitted yet, or the previous token is an operator other than ')'.
	minusIsNumber := l.last == nil ||
		(l.last.Type == TokenOp && l.last.Op != OpCloseParen)

	var tok Token
	var err error
	switch {
	case isDigit(c) || (minusIsNumber && c == '-' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
		tok, err = l.scanNumber()
	case c == '"' || c == '\'':
		tok, err = l.scanString()
	case c == '.' || isAlpha(c) || isGlyph(c):
		tok, err = l.scanOperatorOrSelector()
	default:
		err = newSyntaxError(start, ErrUnexpectedChar, l.src)
	}
	if err != nil {
		return Token{}, err
	}
	l.last = &tok
	return tok, nil
}

func (l *lexer) skipSpaces() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			l.pos++
		default:
			return
		}
	}
}

// scanNumber consumes an optional leading '-', digits, an optional
// decimal point and fractional digits, and an optional exponent, then
// parses the run as an IEEE-754 double.
func (l *lexer) scanNumber() (Token, error) {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		save := l.pos
		p := l.pos + 1
		if p < len(l.src) && (l.src[p] == '+' || l.src[p] == '-') {
			p++
		}
		if p < len(l.src) && isDigit(l.src[p]) {
			for p < len(l.src) && isDigit(l.src[p]) {
				p++
			}
			l.pos = p
		} else {
			l.pos = save
		}
	}

	if l.pos-start > maxNumberLen {
		return Token{}, newSyntaxError(start, ErrBadNumber, l.src)
	}

	text := l.src[start:l.pos]
	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, newSyntaxError(start, ErrBadNumber, l.src)
	}
	return Token{Type: TokenNum, Num: num, Offset: start}, nil
}

// scanString consumes a single/double-quoted string; '\' escapes the
// next byte verbatim.
func (l *lexer) scanString() (Token, error) {
	start := l.pos
	quote := l.src[l.pos]
	l.pos++

	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' && l.pos+1 < len(l.src) {
			b.WriteByte(l.src[l.pos+1])
			l.pos += 2
			continue
		}
		if c == quote {
			l.pos++
			return Token{Type: TokenStr, Str: b.String(), Offset: start}, nil
		}
		b.WriteByte(c)
		l.pos++
	}
	return Token{}, newSyntaxError(start, ErrUnterminatedString, l.src)
}

// scanOperatorOrSelector consumes a run of alphabetic or operator-glyph
// characters (optionally led by a single '.'), then classifies it
// either as a selector (run started with '.') or as the longest
// matching entry in the operator table.
func (l *lexer) scanOperatorOrSelector() (Token, error) {
	start := l.pos
	isSelector := l.src[l.pos] == '.'
	if isSelector {
		l.pos++
	}
	for l.pos < len(l.src) && (isAlpha(l.src[l.pos]) || isGlyph(l.src[l.pos])) {
		l.pos++
	}
	run := l.src[start:l.pos]

	if isSelector {
		return Token{Type: TokenSelector, Str: run, Offset: start}, nil
	}

	bestLen := 0
	var bestOp Opcode
	for _, entry := range operatorGlyphs {
		if len(entry.glyph) > len(run) || len(entry.glyph) <= bestLen {
			continue
		}
		if run[:len(entry.glyph)] == entry.glyph {
			bestLen = len(entry.glyph)
			bestOp = entry.op
		}
	}
	if bestLen == 0 {
		return Token{}, newSyntaxError(start, ErrUnknownOperator, l.src)
	}
	l.pos = start + bestLen
	return Token{Type: TokenOp, Op: bestOp, Offset: start}, nil
}
