package jsonls

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Labels attached to errors found inside a construct.
var (
	labelObject = str("object")
	labelArray  = str("array")
	labelString = str("string")
)

// valueStart lists the tokens that can begin a value.
var valueStart = expect("string", "number", "{", "[", "true", "false", "null")

// validEscapes lists the characters that may follow a backslash in a string.
var validEscapes = expect(`"`, `\`, "/", "b", "f", "n", "r", "t", "u")

// ParseWithRecovery parses a complete JSON document and keeps going after
// errors, so a single call reports every syntax error it can find.
//
// The returned value is always non-nil. Parts that failed to parse are
// replaced by KindInvalid placeholders. Errors are returned in the order they
// were found and carry rune-offset spans.
//
// Recovery follows two strategies: inside an object or array the parser skips
// to the next comma or matching closer at the same nesting depth, and a
// missing value is replaced by a placeholder without consuming anything so
// the enclosing construct can resynchronise on the offending token.
func ParseWithRecovery(text string) (*Value, []SyntaxError) {
	p := newParser(text)

	value := p.parseValue(nil)

	if tok := p.peek(); !tok.EOF() {
		p.unexpected(tok, nil, []*string{EndOfInput})

		for !p.peek().EOF() {
			p.next()
		}
	}

	return value, p.errs
}

// Parse parses a JSON document. It returns the (possibly partial) value and
// all syntax errors joined into one error.
func Parse(text string) (*Value, error) {
	value, errs := ParseWithRecovery(text)
	if len(errs) == 0 {
		return value, nil
	}

	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}

	return value, errors.Join(joined...)
}

type parser struct {
	lex       *lexer.PeekingLexer
	errs      []SyntaxError
	lastErrAt int
	lastEnd   int
}

func newParser(text string) *parser {
	// jsonDefinition never fails: unknown runes become TokenInvalid.
	lex, _ := jsonLexer.LexString("", text)
	peeker, _ := lexer.Upgrade(lex, TokenWhitespace)

	return &parser{lex: peeker, lastErrAt: -1}
}

func (p *parser) peek() *lexer.Token {
	return p.lex.Peek()
}

func (p *parser) next() *lexer.Token {
	return p.lex.Next()
}

func spanOf(tok *lexer.Token) Span {
	return Span{
		Start: tok.Pos.Offset,
		End:   tok.Pos.Offset + utf8.RuneCountInString(tok.Value),
	}
}

// report records an error unless one was already recorded at the same offset.
// Several enclosing constructs usually trip over the same token; only the
// innermost one is reported.
func (p *parser) report(err SyntaxError) {
	if err.Span.Start == p.lastErrAt {
		return
	}

	p.lastErrAt = err.Span.Start
	p.errs = append(p.errs, err)
}

func (p *parser) unexpected(tok *lexer.Token, label *string, expected []*string) {
	var found *string
	if !tok.EOF() {
		found = str(tok.Value)
	}

	p.report(SyntaxError{
		Span:     spanOf(tok),
		Label:    label,
		Found:    found,
		Expected: expected,
	})
}

func startsValue(tok *lexer.Token) bool {
	switch tok.Type {
	case TokenString, TokenNumber, TokenLBrace, TokenLBracket:
		return true
	case TokenIdent:
		return isLiteral(tok.Value)
	}

	return false
}

func isLiteral(word string) bool {
	return word == "null" || word == "true" || word == "false"
}

func invalidAt(offset int) *Value {
	return &Value{Kind: KindInvalid, Span: Span{Start: offset, End: offset}}
}

func (p *parser) parseValue(label *string) *Value {
	tok := p.peek()

	switch tok.Type {
	case TokenLBrace:
		return p.parseObject()
	case TokenLBracket:
		return p.parseArray()
	case TokenString:
		return p.parseString(p.next())
	case TokenNumber:
		p.next()
		// The lexer only produces well-formed numbers; overflow yields ±Inf.
		n, _ := strconv.ParseFloat(tok.Value, 64)

		return &Value{Kind: KindNumber, Span: spanOf(tok), Number: n, Raw: tok.Value}
	case TokenIdent:
		p.next()

		switch tok.Value {
		case "null":
			return &Value{Kind: KindNull, Span: spanOf(tok)}
		case "true", "false":
			return &Value{Kind: KindBool, Span: spanOf(tok), Bool: tok.Value == "true"}
		}

		p.unexpected(tok, label, valueStart)

		return &Value{Kind: KindInvalid, Span: spanOf(tok)}
	case TokenInvalid:
		p.next()
		p.unexpected(tok, label, valueStart)

		return &Value{Kind: KindInvalid, Span: spanOf(tok)}
	}

	// End of input, a closer or a separator: leave it for the enclosing construct.
	p.unexpected(tok, label, valueStart)

	return invalidAt(tok.Pos.Offset)
}

func (p *parser) parseObject() *Value {
	open := p.next()
	obj := &Value{Kind: KindObject, Span: Span{Start: open.Pos.Offset}}

	if p.peek().Type == TokenRBrace {
		obj.Span.End = spanOf(p.next()).End

		return obj
	}

	for {
		if m := p.parseMember(); m != nil {
			obj.Members = append(obj.Members, m)
		}

		tok := p.peek()

		switch tok.Type {
		case TokenComma:
			p.next()

			continue
		case TokenRBrace:
			obj.Span.End = spanOf(p.next()).End

			return obj
		}

		p.unexpected(tok, labelObject, expect(",", "}"))

		switch p.recover(TokenRBrace) {
		case stopSeparator:
			continue
		case stopClosed:
			obj.Span.End = p.lastEnd

			return obj
		case stopAbandoned:
			obj.Span.End = p.peek().Pos.Offset

			return obj
		}
	}
}

func (p *parser) parseMember() *Member {
	tok := p.peek()
	if tok.Type != TokenString {
		p.unexpected(tok, labelObject, expect("string"))

		return nil
	}

	key := p.parseString(p.next())
	m := &Member{Key: key.Str, KeySpan: key.Span}

	if p.peek().Type == TokenColon {
		p.next()
	} else {
		p.unexpected(p.peek(), labelObject, expect(":"))

		if !startsValue(p.peek()) {
			m.Value = invalidAt(key.Span.End)

			return m
		}
	}

	m.Value = p.parseValue(labelObject)

	return m
}

func (p *parser) parseArray() *Value {
	open := p.next()
	arr := &Value{Kind: KindArray, Span: Span{Start: open.Pos.Offset}}

	if p.peek().Type == TokenRBracket {
		arr.Span.End = spanOf(p.next()).End

		return arr
	}

	for {
		arr.Items = append(arr.Items, p.parseValue(labelArray))

		tok := p.peek()

		switch tok.Type {
		case TokenComma:
			p.next()

			continue
		case TokenRBracket:
			arr.Span.End = spanOf(p.next()).End

			return arr
		}

		p.unexpected(tok, labelArray, expect(",", "]"))

		switch p.recover(TokenRBracket) {
		case stopSeparator:
			continue
		case stopClosed:
			arr.Span.End = p.lastEnd

			return arr
		case stopAbandoned:
			arr.Span.End = p.peek().Pos.Offset

			return arr
		}
	}
}

// stop is the outcome of skipping tokens during recovery.
type stop int

const (
	// stopSeparator means a comma at the construct's depth was consumed.
	stopSeparator stop = iota
	// stopClosed means the construct's own closer was consumed.
	stopClosed
	// stopAbandoned means end of input or a foreign closer was reached; it is
	// left in place for an enclosing construct.
	stopAbandoned
)

// recover skips tokens until a comma or closer at the current nesting depth.
// Nested objects and arrays are skipped as a whole. The end offset of a
// consumed closer is left in lastEnd.
func (p *parser) recover(closer lexer.TokenType) stop {
	var nesting []lexer.TokenType

	for {
		tok := p.peek()

		switch tok.Type {
		case TokenEOF:
			return stopAbandoned
		case TokenLBrace:
			nesting = append(nesting, TokenRBrace)
		case TokenLBracket:
			nesting = append(nesting, TokenRBracket)
		case TokenRBrace, TokenRBracket:
			if len(nesting) > 0 {
				nesting = nesting[:len(nesting)-1]

				break
			}

			if tok.Type != closer {
				return stopAbandoned
			}

			p.lastEnd = spanOf(p.next()).End

			return stopClosed
		case TokenComma:
			if len(nesting) == 0 {
				p.next()

				return stopSeparator
			}
		}

		p.next()
	}
}

// parseString decodes a string token, reporting bad escapes and a missing
// closing quote. The raw token includes its quotes.
func (p *parser) parseString(tok *lexer.Token) *Value {
	span := spanOf(tok)
	raw := tok.Value

	var sb strings.Builder

	offset := span.Start + 1 // rune offset of the current rune
	terminated := false

	rest := raw[1:]
	for len(rest) > 0 {
		r, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]

		if r == '"' {
			terminated = true

			break
		}

		if r < 0x20 { //nolint:mnd // control characters must be escaped
			p.report(SyntaxError{
				Span:     Span{Start: offset, End: offset + 1},
				Label:    labelString,
				Found:    str(string(r)),
				Expected: expect("escape sequence"),
			})
		}

		if r != '\\' {
			sb.WriteRune(r)

			offset++

			continue
		}

		if len(rest) == 0 {
			break
		}

		esc, escSize := utf8.DecodeRuneInString(rest)
		rest = rest[escSize:]
		escOffset := offset + 1
		offset += 2

		switch esc {
		case '"', '\\', '/':
			sb.WriteRune(esc)
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			var decoded rune

			decoded, rest, offset = p.parseUnicodeEscape(rest, offset)
			sb.WriteRune(decoded)
		default:
			p.report(SyntaxError{
				Span:     Span{Start: escOffset, End: escOffset + 1},
				Label:    labelString,
				Found:    str(string(esc)),
				Expected: validEscapes,
			})
			sb.WriteRune(esc)
		}
	}

	if !terminated {
		p.report(SyntaxError{
			Span:     Span{Start: span.End, End: span.End},
			Label:    labelString,
			Expected: expect(`"`),
		})
	}

	return &Value{Kind: KindString, Span: span, Str: sb.String()}
}

// parseUnicodeEscape decodes the four hex digits after \u, combining UTF-16
// surrogate pairs. It returns the decoded rune, the remaining input and the
// rune offset after the consumed digits.
func (p *parser) parseUnicodeEscape(rest string, offset int) (rune, string, int) {
	r, rest, offset, ok := p.hex4(rest, offset)
	if !ok {
		return utf8.RuneError, rest, offset
	}

	if !utf16.IsSurrogate(r) {
		return r, rest, offset
	}

	if !strings.HasPrefix(rest, `\u`) {
		return utf8.RuneError, rest, offset
	}

	lo, after, afterOffset, ok := p.hex4(rest[2:], offset+2) //nolint:mnd // skip `\u`
	if !ok {
		return utf8.RuneError, after, afterOffset
	}

	return utf16.DecodeRune(r, lo), after, afterOffset
}

func (p *parser) hex4(rest string, offset int) (rune, string, int, bool) {
	var r rune

	for range 4 {
		c, size := utf8.DecodeRuneInString(rest)
		if size == 0 {
			return 0, rest, offset, false
		}

		digit, ok := hexValue(c)
		if !ok {
			p.report(SyntaxError{
				Span:     Span{Start: offset, End: offset + 1},
				Label:    labelString,
				Found:    str(string(c)),
				Expected: expect("hex digit"),
			})

			return 0, rest, offset, false
		}

		r = r<<4 | digit //nolint:mnd // hex digit width
		rest = rest[size:]
		offset++
	}

	return r, rest, offset, true
}

func hexValue(c rune) (rune, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true //nolint:mnd // hex
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true //nolint:mnd // hex
	}

	return 0, false
}
