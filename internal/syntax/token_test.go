package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{_EOF, "EOF"},
		{_Name, "NAME"},
		{_Number, "NUMBER"},
		{_Char, "CHAR"},
		{_Def, "def"},
		{_Extern, "extern"},
		{_Binary, "binary"},
		{tokenCount + 3, "token(17)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.tok.String())
	}
}

func TestTokenClasses(t *testing.T) {
	for tok := _Def; tok <= _Binary; tok++ {
		assert.True(t, tok.IsKeyword(), "%v", tok)
	}
	for _, tok := range []Token{_EOF, _Name, _Number, _Char} {
		assert.False(t, tok.IsKeyword(), "%v", tok)
	}

	assert.True(t, EOFToken.IsEOF())
	assert.False(t, NameToken.IsEOF())
}

func TestLookupKeyword(t *testing.T) {
	for word, tok := range keywords {
		assert.Equal(t, tok, LookupKeyword(word))
		assert.Equal(t, word, tok.String())
	}

	for _, word := range []string{"foo", "Def", "define", "x1", "func", "return"} {
		assert.Equal(t, _Name, LookupKeyword(word), word)
	}

	assert.Len(t, keywords, int(_Binary-_Def)+1)
}
