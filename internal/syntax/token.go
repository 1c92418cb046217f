// Package syntax implements lexical and syntactic analysis for the Kaleido language.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF Token = iota // end of input

	// Literals
	_Name   // identifier: foo, x1
	_Number // numeric literal: 1, 2.5, .5

	// Any other single character (operators, punctuation)
	_Char

	// Keywords
	_Def
	_Extern
	_If
	_Then
	_Else
	_For
	_In
	_Var
	_Unary
	_Binary

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF: "EOF",

	_Name:   "NAME",
	_Number: "NUMBER",
	_Char:   "CHAR",

	_Def:    "def",
	_Extern: "extern",
	_If:     "if",
	_Then:   "then",
	_Else:   "else",
	_For:    "for",
	_In:     "in",
	_Var:    "var",
	_Unary:  "unary",
	_Binary: "binary",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Def && t <= _Binary
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// Exported token kinds for packages that inspect the token stream.
const (
	EOFToken    Token = _EOF
	NameToken   Token = _Name
	NumberToken Token = _Number
	CharToken   Token = _Char
)

// keywords maps keyword strings to their token type.
var keywords = map[string]Token{
	"def":    _Def,
	"extern": _Extern,
	"if":     _If,
	"then":   _Then,
	"else":   _Else,
	"for":    _For,
	"in":     _In,
	"var":    _Var,
	"unary":  _Unary,
	"binary": _Binary,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
