package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanAll returns the token kinds and literals of src, EOF included.
func scanAll(t *testing.T, src string) ([]Token, []string) {
	t.Helper()

	s := NewScanner("test.kal", strings.NewReader(src), nil)

	var toks []Token
	var lits []string
	for i := 0; ; i++ {
		require.Less(t, i, 1000, "scanner does not reach EOF")

		s.Next()
		toks = append(toks, s.Token())
		lits = append(lits, s.Literal())

		if s.Token() == _EOF {
			return toks, lits
		}
	}
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		tokens []Token
		lits   []string
	}{
		{"empty", "", []Token{_EOF}, []string{""}},
		{"ident", "foo", []Token{_Name, _EOF}, []string{"foo", ""}},
		{"ident_digits", "x1y2", []Token{_Name, _EOF}, []string{"x1y2", ""}},
		{"underscore_is_char", "_a", []Token{_Char, _Name, _EOF}, []string{"_", "a", ""}},
		{"keywords", "def extern if then else for in var unary binary",
			[]Token{_Def, _Extern, _If, _Then, _Else, _For, _In, _Var, _Unary, _Binary, _EOF},
			[]string{"def", "extern", "if", "then", "else", "for", "in", "var", "unary", "binary", ""}},
		{"number", "42", []Token{_Number, _EOF}, []string{"42", ""}},
		{"number_frac", "3.25", []Token{_Number, _EOF}, []string{"3.25", ""}},
		{"number_leading_dot", ".5", []Token{_Number, _EOF}, []string{".5", ""}},
		{"number_second_dot", "1.2.3", []Token{_Number, _Number, _EOF}, []string{"1.2", ".3", ""}},
		{"chars", "(a, b);", []Token{_Char, _Name, _Char, _Name, _Char, _Char, _EOF},
			[]string{"(", "a", ",", "b", ")", ";", ""}},
		{"comment", "# all of this\nx # and this", []Token{_Name, _EOF}, []string{"x", ""}},
		{"comment_at_eof", "#", []Token{_EOF}, []string{""}},
		{"whitespace", " \t\r\n\f\vx", []Token{_Name, _EOF}, []string{"x", ""}},
		{"no_space_needed", "def f(x)x*2", []Token{_Def, _Name, _Char, _Name, _Char, _Name, _Char, _Number, _EOF},
			[]string{"def", "f", "(", "x", ")", "x", "*", "2", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, lits := scanAll(t, tt.src)
			assert.Equal(t, tt.tokens, toks)
			assert.Equal(t, tt.lits, lits)
		})
	}
}

func TestScanNumberValues(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.25", 3.25},
		{".5", 0.5},
		{"7.", 7},
		{".", 0},
	}

	for _, tt := range tests {
		s := NewScanner("", strings.NewReader(tt.src), nil)
		s.Next()

		require.Equal(t, _Number, s.Token(), tt.src)
		assert.Equal(t, tt.want, s.Value(), tt.src)
	}
}

func TestScanChar(t *testing.T) {
	s := NewScanner("", strings.NewReader("|é"), nil)

	s.Next()
	assert.Equal(t, _Char, s.Token())
	assert.Equal(t, '|', s.Char())

	s.Next()
	assert.Equal(t, _Char, s.Token())
	assert.Equal(t, 'é', s.Char())
}

func TestScanEOFIsSticky(t *testing.T) {
	s := NewScanner("", strings.NewReader("x"), nil)

	s.Next()
	require.Equal(t, _Name, s.Token())

	for i := 0; i < 3; i++ {
		s.Next()
		assert.Equal(t, _EOF, s.Token())
	}
}

func TestScanPositions(t *testing.T) {
	s := NewScanner("pos.kal", strings.NewReader("def f(x)\n  x + 1"), nil)

	want := []string{
		"pos.kal:1:1", // def
		"pos.kal:1:5", // f
		"pos.kal:1:6", // (
		"pos.kal:1:7", // x
		"pos.kal:1:8", // )
		"pos.kal:2:3", // x
		"pos.kal:2:5", // +
		"pos.kal:2:7", // 1
		"pos.kal:2:8", // EOF
	}

	for _, w := range want {
		s.Next()
		assert.Equal(t, w, s.Pos().String(), "token %v %q", s.Token(), s.Literal())
	}
}
