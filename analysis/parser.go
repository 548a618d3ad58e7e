package analysis

import (
	"github.com/rlch/jsonls"
)

// Parser is a recovering parser. It must report every syntax error it finds
// in text, in discovery order, with spans in rune offsets. The returned value
// is opaque to the engine.
type Parser interface {
	ParseWithRecovery(text string) (any, []jsonls.SyntaxError)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(text string) (any, []jsonls.SyntaxError)

// ParseWithRecovery calls f(text).
func (f ParserFunc) ParseWithRecovery(text string) (any, []jsonls.SyntaxError) {
	return f(text)
}

// JSONParser is the Parser for JSON documents.
var JSONParser Parser = ParserFunc(func(text string) (any, []jsonls.SyntaxError) {
	return jsonls.ParseWithRecovery(text)
})
