package syntax

import (
	"io"
	"strconv"
	"strings"
)

// Scanner performs lexical analysis on Kaleido source text.
// Tokens are produced lazily, one per call to Next.
type Scanner struct {
	source // embedded character reader

	// Current token info
	tok    Token   // token type
	lit    string  // token literal (identifier name, number text, character)
	val    float64 // numeric value (only valid when tok == _Number)
	char   rune    // character (only valid when tok == _Char)
	tokPos Pos     // token start position

	// Literal accumulation
	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical problem; if nil, problems are silently ignored.
func NewScanner(filename string, src io.Reader, errh func(line, col uint32, msg string)) *Scanner {
	s := &Scanner{
		source: *newSource(filename, src, errh),
	}
	return s
}

// Next advances to the next token.
// Once the input is exhausted every call yields EOF.
func (s *Scanner) Next() {
redo:
	s.skipWhitespace()

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case s.ch == '#':
		s.skipLineComment()
		goto redo

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch) || s.ch == '.':
		s.scanNumber()

	default:
		s.tok = _Char
		s.char = s.ch
		s.lit = string(s.ch)
		s.nextch()
	}
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal text.
func (s *Scanner) Literal() string {
	return s.lit
}

// Value returns the current number's value (only valid when Token() == _Number).
func (s *Scanner) Value() float64 {
	return s.val
}

// Char returns the current character (only valid when Token() == _Char).
func (s *Scanner) Char() rune {
	return s.char
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// skipWhitespace skips all whitespace including newlines.
func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.ch) {
		s.nextch()
	}
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	s.litBuf.Reset()
	s.litBuf.WriteRune(s.ch)
	s.nextch()

	for isLetter(s.ch) || isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}

	s.lit = s.litBuf.String()
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans a maximal run of digits containing at most one decimal point.
// A second '.' ends the literal and is scanned as the next token.
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()

	seenDot := false
	for isDigit(s.ch) || (s.ch == '.' && !seenDot) {
		if s.ch == '.' {
			seenDot = true
		}
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}

	s.lit = s.litBuf.String()
	s.tok = _Number
	s.val = numberValue(s.lit)
}

// numberValue converts a scanned literal to its value.
// A lone "." has no digits and evaluates to 0, like strtod.
func numberValue(lit string) float64 {
	if lit == "." {
		return 0
	}
	// Only digits and one dot reach here, so the only possible error
	// is ErrRange, where v already holds ±Inf or 0.
	v, _ := strconv.ParseFloat(lit, 64)
	return v
}

// skipLineComment skips a '#' comment up to (not including) the end of line.
func (s *Scanner) skipLineComment() {
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}
