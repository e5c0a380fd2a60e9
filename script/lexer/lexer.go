package lexer

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/cockroachdb/errors"

	"github.com/lukeod/nodetracker/script/lexer/token"
)

const eof = -1

// Lexer holds the state of the lexer and implements the participle lexer.Lexer interface.
type Lexer struct {
	input       string // the string being scanned
	filename    string // filename for position information
	start       int    // start position of this item
	pos         int    // current position in the input
	width       int    // width of last rune read from input
	line        int    // 1-based line number
	column      int    // 1-based column number in bytes
	prevLine    int    // line before the last rune read, restored by backup
	prevColumn  int    // column before the last rune read, restored by backup
	startLine   int    // start line of the current token
	startColumn int    // start column of the current token

	problems []string
}

// NewLexer creates a new lexer for the given input string and filename.
func NewLexer(filename, input string) *Lexer {
	return &Lexer{
		input:       input,
		filename:    filename,
		line:        1,
		column:      1,
		startLine:   1,
		startColumn: 1,
	}
}

// Problems returns the messages recorded so far, one per ILLEGAL token.
func (l *Lexer) Problems() []string {
	return l.problems
}

// --- Core Lexing Logic (implements lexer.Lexer) ---

// next returns the next rune in the input.
func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w

	l.prevLine, l.prevColumn = l.line, l.column
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column += w
	}
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *Lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (l *Lexer) backup() {
	if l.width == 0 {
		return
	}
	l.pos -= l.width
	l.line, l.column = l.prevLine, l.prevColumn
	l.width = 0
}

// emitToken returns the pending input as a token of type t.
func (l *Lexer) emitToken(t token.TokenType) lexer.Token {
	return l.emitValue(t, l.input[l.start:l.pos])
}

// emitValue returns a token of type t carrying value instead of the raw input.
func (l *Lexer) emitValue(t token.TokenType, value string) lexer.Token {
	tok := lexer.Token{
		Type:  lexer.TokenType(t),
		Value: value,
		Pos: lexer.Position{
			Filename: l.filename,
			Offset:   l.start,
			Line:     l.startLine,
			Column:   l.startColumn,
		},
	}
	l.ignore()
	return tok
}

// ignore skips over the pending input before this point.
func (l *Lexer) ignore() {
	l.start = l.pos
	l.startLine = l.line
	l.startColumn = l.column
}

// acceptRun consumes a run of runes from the valid set.
func (l *Lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

// recordError notes a problem at the start of the current token.
func (l *Lexer) recordError(message string) {
	l.problems = append(l.problems, fmt.Sprintf("%s:%d:%d: %s", l.filename, l.startLine, l.startColumn, message))
}

// Next returns the next token from the input, implementing the lexer.Lexer interface.
// Errors are reported as ILLEGAL tokens. EOF is signaled by a token with Type lexer.EOF.
func (l *Lexer) Next() (lexer.Token, error) {
	for {
		l.ignore()
		r := l.peek()

		if unicode.IsSpace(r) {
			l.skipWhitespace()
			continue
		}
		if r == '-' && l.peekAhead("--") {
			l.skipComment()
			continue
		}
		if r == eof {
			return l.emitToken(token.EOF), nil
		}

		r = l.next()
		switch {
		case r == '[':
			return l.emitToken(token.LBracket), nil
		case r == ']':
			return l.emitToken(token.RBracket), nil
		case r == ',':
			return l.emitToken(token.Comma), nil
		case r == ';':
			return l.emitToken(token.Semicolon), nil
		case r == '"':
			l.backup()
			return l.lexText(), nil
		case r == '-':
			if unicode.IsDigit(l.peek()) {
				return l.lexNumber(), nil
			}
			l.recordError("'-' must be followed by a digit")
			return l.emitToken(token.ILLEGAL), nil
		case unicode.IsDigit(r):
			l.backup()
			return l.lexNumber(), nil
		case isIdentifierStart(r):
			l.backup()
			return l.lexIdentifier(), nil
		default:
			l.recordError(fmt.Sprintf("Illegal character: %q", r))
			return l.emitToken(token.ILLEGAL), nil
		}
	}
}

// --- Helper Lexing Functions (returning lexer.Token) ---

// skipComment consumes a '--' comment up to and including the end of line.
func (l *Lexer) skipComment() {
	for {
		r := l.next()
		if r == '\n' || r == eof {
			return
		}
	}
}

// skipWhitespace consumes all contiguous whitespace characters.
func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.peek()) {
		l.next()
	}
}

func (l *Lexer) lexIdentifier() lexer.Token {
	l.next() // first character, already known to be an identifier start
	for {
		r := l.peek()
		// "a--b" is the identifier "a" followed by a comment
		if r == '-' && l.peekAhead("--") {
			break
		}
		if !isIdentifierChar(r) {
			break
		}
		l.next()
	}
	return l.emitToken(token.Ident)
}

// lexNumber consumes digits. A leading '-' has already been consumed by the caller.
func (l *Lexer) lexNumber() lexer.Token {
	l.acceptRun("0123456789")
	return l.emitToken(token.Int)
}

// lexText consumes a double-quoted string. The emitted value has the quotes
// removed and every backslash escape replaced by the escaped rune. A string
// holding invalid UTF-8 is consumed whole and emitted as ILLEGAL.
func (l *Lexer) lexText() lexer.Token {
	l.next() // opening '"'

	var builder strings.Builder
	invalid := false
	for {
		r := l.next()
		switch r {
		case '\\':
			escaped := l.next()
			if escaped == eof {
				l.recordError("Unterminated escape sequence at end of string")
				return l.emitToken(token.ILLEGAL)
			}
			l.checkRune(escaped, &invalid)
			builder.WriteRune(escaped)
		case '"':
			if invalid {
				return l.emitToken(token.ILLEGAL)
			}
			return l.emitValue(token.Text, builder.String())
		case '\n', eof:
			if r == '\n' {
				l.backup()
			}
			l.recordError("Unterminated string literal")
			return l.emitToken(token.ILLEGAL)
		default:
			l.checkRune(r, &invalid)
			builder.WriteRune(r)
		}
	}
}

// checkRune records the first undecodable byte of a string literal.
func (l *Lexer) checkRune(r rune, invalid *bool) {
	if r == utf8.RuneError && l.width == 1 && !*invalid {
		l.recordError("Invalid UTF-8 in string literal")
		*invalid = true
	}
}

// --- Character Predicates ---

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

// peekAhead checks if the input starting from the current position matches the given string.
func (l *Lexer) peekAhead(prefix string) bool {
	return strings.HasPrefix(l.input[l.pos:], prefix)
}

// --- Lexer Definition (implements lexer.Definition) ---

var (
	cachedSymbols map[string]lexer.TokenType
	symbolsOnce   sync.Once
)

// LexerDefinition implements the participle lexer.Definition interface.
type LexerDefinition struct{}

// Lex implements lexer.Definition.
func (d *LexerDefinition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	inputBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input for lexing")
	}
	return NewLexer(filename, string(inputBytes)), nil
}

// LexString implements lexer.StringDefinition.
func (d *LexerDefinition) LexString(filename string, input string) (lexer.Lexer, error) {
	return NewLexer(filename, input), nil
}

// LexBytes implements lexer.BytesDefinition.
func (d *LexerDefinition) LexBytes(filename string, input []byte) (lexer.Lexer, error) {
	return NewLexer(filename, string(input)), nil
}

// Symbols implements lexer.Definition, caching the result.
func (d *LexerDefinition) Symbols() map[string]lexer.TokenType {
	symbolsOnce.Do(func() {
		cachedSymbols = make(map[string]lexer.TokenType, len(token.Symbols))
		for tt, name := range token.Symbols {
			cachedSymbols[name] = lexer.TokenType(tt)
		}
	})
	return cachedSymbols
}
