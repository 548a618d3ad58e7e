package jsonls

import (
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token type constants - negative values as per participle convention.
const (
	TokenEOF        lexer.TokenType = lexer.EOF
	TokenString     lexer.TokenType = -(iota + 2) //nolint:mnd // participle convention
	TokenNumber                                   // -?int(.frac)?(exp)?
	TokenIdent                                    // true, false, null and stray words
	TokenColon                                    // :
	TokenComma                                    // ,
	TokenLBracket                                 // [
	TokenRBracket                                 // ]
	TokenLBrace                                   // {
	TokenRBrace                                   // }
	TokenWhitespace                               // spaces, tabs, newlines
	TokenInvalid                                  // any rune that cannot start a token
)

// jsonLexer is the shared lexer definition. It holds no per-lex state.
var jsonLexer = &jsonDefinition{
	symbols: map[string]lexer.TokenType{
		"EOF":        TokenEOF,
		"String":     TokenString,
		"Number":     TokenNumber,
		"Ident":      TokenIdent,
		"Colon":      TokenColon,
		"Comma":      TokenComma,
		"Whitespace": TokenWhitespace,
		"Invalid":    TokenInvalid,
		"[":          TokenLBracket,
		"]":          TokenRBracket,
		"{":          TokenLBrace,
		"}":          TokenRBrace,
	},
}

// jsonDefinition implements lexer.Definition for JSON.
//
// Unlike participle's stock lexers it never fails: runes that cannot start a
// token become TokenInvalid so the parser can report and recover from them.
// Position.Offset counts runes, not bytes, so token offsets share the offset
// domain of the text index.
type jsonDefinition struct {
	symbols map[string]lexer.TokenType
}

// Lexer returns the lexer definition used by the parser.
//
//nolint:ireturn // Exposes participle's interface for callers wiring their own grammar.
func Lexer() lexer.Definition {
	return jsonLexer
}

// Symbols returns the mapping of symbol names to token types.
func (d *jsonDefinition) Symbols() map[string]lexer.TokenType {
	return d.symbols
}

// Lex creates a new Lexer for the given reader.
//
//nolint:ireturn // Required by participle's lexer.Definition interface.
func (d *jsonDefinition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return d.LexString(filename, string(data))
}

// LexString implements lexer.StringDefinition for efficiency.
//
//nolint:ireturn // Required by participle's lexer.StringDefinition interface.
func (d *jsonDefinition) LexString(filename string, input string) (lexer.Lexer, error) {
	return &lexerState{
		filename: filename,
		input:    input,
		line:     1,
		col:      1,
	}, nil
}

// lexerState holds the state for lexing.
type lexerState struct {
	filename string
	input    string
	offset   int // byte offset into input
	runes    int // rune offset into input
	line     int
	col      int
}

// Next returns the next token.
func (l *lexerState) Next() (lexer.Token, error) {
	if l.eof() {
		return lexer.EOFToken(l.pos()), nil
	}

	start := l.pos()
	startByte := l.offset
	r := l.advance()

	switch {
	case isSpace(r):
		for !l.eof() && isSpace(l.peek()) {
			l.advance()
		}

		return l.token(TokenWhitespace, start, startByte), nil
	case r == '"':
		l.scanString()

		return l.token(TokenString, start, startByte), nil
	case r == '-' || isDigit(r):
		if r == '-' && !isDigit(l.peek()) {
			return l.token(TokenInvalid, start, startByte), nil
		}

		l.scanNumber(r)

		return l.token(TokenNumber, start, startByte), nil
	case unicode.IsLetter(r):
		for !l.eof() && isIdentContinue(l.peek()) {
			l.advance()
		}

		return l.token(TokenIdent, start, startByte), nil
	}

	switch r {
	case ':':
		return l.token(TokenColon, start, startByte), nil
	case ',':
		return l.token(TokenComma, start, startByte), nil
	case '[':
		return l.token(TokenLBracket, start, startByte), nil
	case ']':
		return l.token(TokenRBracket, start, startByte), nil
	case '{':
		return l.token(TokenLBrace, start, startByte), nil
	case '}':
		return l.token(TokenRBrace, start, startByte), nil
	}

	return l.token(TokenInvalid, start, startByte), nil
}

func (l *lexerState) pos() lexer.Position {
	return lexer.Position{
		Filename: l.filename,
		Offset:   l.runes,
		Line:     l.line,
		Column:   l.col,
	}
}

func (l *lexerState) eof() bool {
	return l.offset >= len(l.input)
}

func (l *lexerState) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])

	return r
}

func (l *lexerState) peekAt(n int) rune {
	off := l.offset
	for range n {
		if off >= len(l.input) {
			return 0
		}

		_, size := utf8.DecodeRuneInString(l.input[off:])
		off += size
	}

	if off >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[off:])

	return r
}

func (l *lexerState) advance() rune {
	if l.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size
	l.runes++

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *lexerState) token(typ lexer.TokenType, start lexer.Position, startByte int) lexer.Token {
	return lexer.Token{
		Type:  typ,
		Value: l.input[startByte:l.offset],
		Pos:   start,
	}
}

// scanString consumes a string body after the opening quote. An unterminated
// string runs to the end of input; the parser reports the missing quote.
func (l *lexerState) scanString() {
	for !l.eof() {
		switch l.advance() {
		case '\\':
			if !l.eof() {
				l.advance()
			}
		case '"':
			return
		}
	}
}

// scanNumber consumes a number after its first rune. A leading zero ends the
// integer part, so "01" lexes as two numbers.
func (l *lexerState) scanNumber(first rune) {
	if first == '-' {
		first = l.advance()
	}

	if first != '0' {
		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}
	}

	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance() // .

		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}
	}

	if e := l.peek(); e == 'e' || e == 'E' {
		next := l.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) { //nolint:mnd // sign then digit
			l.advance() // e/E

			if next == '+' || next == '-' {
				l.advance()
			}

			for !l.eof() && isDigit(l.peek()) {
				l.advance()
			}
		}
	}
}

// Character helpers.

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
