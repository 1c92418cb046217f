package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourcePositions(t *testing.T) {
	src := newSource("test.kal", strings.NewReader("a\nbc"), nil)

	type step struct {
		ch        rune
		line, col uint32
	}

	want := []step{
		{'a', 1, 1},
		{'\n', 1, 2},
		{'b', 2, 1},
		{'c', 2, 2},
		{-1, 2, 3},
	}

	for i, w := range want {
		if i > 0 {
			src.nextch()
		}
		assert.Equal(t, w.ch, src.ch, "step %d", i)
		assert.Equal(t, w.line, src.line, "step %d line", i)
		assert.Equal(t, w.col, src.col, "step %d col", i)
	}

	// EOF is sticky and does not move.
	src.nextch()
	assert.Equal(t, rune(-1), src.ch)

	assert.Equal(t, "test.kal:2:3", src.pos().String())
}

func TestSourceUTF8(t *testing.T) {
	src := newSource("test", strings.NewReader("é|"), nil)

	assert.Equal(t, 'é', src.ch)
	src.nextch()
	assert.Equal(t, '|', src.ch)
	assert.Equal(t, uint32(2), src.col)
}

func TestSourceInvalidUTF8(t *testing.T) {
	var msgs []string
	errh := func(line, col uint32, msg string) {
		msgs = append(msgs, msg)
	}

	newSource("test", strings.NewReader("\xff"), errh)

	require.Len(t, msgs, 1)
	assert.Equal(t, "invalid UTF-8 encoding", msgs[0])
}

// lineReader hands out one line per Read and fails if asked for more.
type lineReader struct {
	t     *testing.T
	lines []string
}

func (r *lineReader) Read(p []byte) (int, error) {
	if len(r.lines) == 0 {
		r.t.Fatalf("read past the last line")
	}

	n := copy(p, r.lines[0])
	r.lines = r.lines[1:]

	return n, nil
}

func TestSourceReadsLazily(t *testing.T) {
	r := &lineReader{t: t, lines: []string{"ab\n", "c\n"}}
	src := newSource("stdin", r, nil)

	assert.Equal(t, 'a', src.ch)
	assert.Len(t, r.lines, 1, "only the first line is read")

	src.nextch()
	src.nextch()
	assert.Equal(t, '\n', src.ch)
	assert.Len(t, r.lines, 1)

	src.nextch()
	assert.Equal(t, 'c', src.ch)
	assert.Equal(t, "stdin:2:1", src.pos().String())
}

func TestSourceEmpty(t *testing.T) {
	src := newSource("test", strings.NewReader(""), nil)
	assert.Equal(t, rune(-1), src.ch)

	// Nil handler must not panic.
	src.error("ignored")
}

func TestCharClasses(t *testing.T) {
	for _, r := range "azAZ" {
		assert.True(t, isLetter(r), "isLetter(%q)", r)
	}
	for _, r := range "_09é" {
		assert.False(t, isLetter(r), "isLetter(%q)", r)
	}

	for _, r := range "0123456789" {
		assert.True(t, isDigit(r), "isDigit(%q)", r)
	}
	for _, r := range ".a" {
		assert.False(t, isDigit(r), "isDigit(%q)", r)
	}

	for _, r := range " \t\r\n\f\v" {
		assert.True(t, isWhitespace(r), "isWhitespace(%q)", r)
	}
	for _, r := range "#a;" {
		assert.False(t, isWhitespace(r), "isWhitespace(%q)", r)
	}
}
