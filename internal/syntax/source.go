package syntax

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// source reads the runes of a compilation unit one at a time.
// The input is consumed as it is scanned, never ahead of the current
// rune, so an interactive reader is asked for a new line only when
// the parser needs one.
type source struct {
	r    *bufio.Reader
	name string

	line, col uint32 // of ch, 1-based; col counts runes
	ch        rune   // -1 at the end of input

	errh func(line, col uint32, msg string)
}

// newSource starts reading src and loads its first rune.
// errh may be nil.
func newSource(name string, src io.Reader, errh func(line, col uint32, msg string)) *source {
	s := &source{
		r:    bufio.NewReader(src),
		name: name,
		line: 1,
		errh: errh,
	}

	s.nextch()

	return s
}

// nextch moves to the next rune. Once the input is exhausted ch stays -1.
func (s *source) nextch() {
	switch {
	case s.ch == '\n':
		s.line++
		s.col = 1
	case s.ch < 0 && s.col != 0:
		return
	default:
		s.col++
	}

	r, w, err := s.r.ReadRune()
	if err != nil {
		if err != io.EOF {
			s.error("read: " + err.Error())
		}

		s.ch = -1
		return
	}

	if r == utf8.RuneError && w == 1 {
		s.error("invalid UTF-8 encoding")
	}

	s.ch = r
}

func (s *source) pos() Pos {
	return NewPos(s.name, s.line, s.col)
}

func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.line, s.col, msg)
	}
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isWhitespace reports whether r separates tokens.
// Newlines carry no meaning in this language.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\f' || r == '\v'
}
