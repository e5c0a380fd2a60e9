package token

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
)

// TokenType represents the type of token.
type TokenType int

// Token type constants. These correspond to the types expected by the Participle grammar.
// EOF is -1 to line up with lexer.EOF.
const (
	EOF TokenType = iota - 1
	ILLEGAL
	Comment // -- comment
	Whitespace

	// Literals
	Ident // Identifier (keywords are also lexed as Ident)
	Int   // Integer literal, optionally negative
	Text  // Double-quoted string "..."

	// Punctuation
	LBracket  // [
	RBracket  // ]
	Comma     // ,
	Semicolon // ;
)

// Token represents a lexed token.
type Token struct {
	Type  TokenType
	Value string
	Pos   lexer.Position
}

// String returns a string representation of the token.
func (t Token) String() string {
	val := t.Value
	if len(val) > 20 {
		val = val[:17] + "..."
	}
	return fmt.Sprintf("%s: %q (%s)", t.Pos, val, TokenTypeString(t.Type))
}

// TokenTypeString returns a string representation of the TokenType.
func TokenTypeString(tt TokenType) string {
	if name, ok := Symbols[tt]; ok {
		return name
	}
	return "Unknown(" + strconv.Itoa(int(tt)) + ")"
}

// Symbols maps token type constants to their string representation for Participle.
var Symbols = map[TokenType]string{
	EOF:        "EOF",
	ILLEGAL:    "ILLEGAL",
	Comment:    "Comment",
	Whitespace: "Whitespace",
	Ident:      "Ident",
	Int:        "Int",
	Text:       "Text",
	LBracket:   "LBracket",
	RBracket:   "RBracket",
	Comma:      "Comma",
	Semicolon:  "Semicolon",
}
