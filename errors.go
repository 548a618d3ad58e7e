package jsonls

import "errors"

// ErrConfigNotFound is returned when no config file exists in the directory tree.
var ErrConfigNotFound = errors.New("no .jsonls.yaml found")

// SyntaxError is a single syntax error found by ParseWithRecovery.
//
// Found and Label are nil when absent. A nil Found means the parser ran into the
// end of input. Each element of Expected describes a token the parser would have
// accepted; a nil element stands for the end of input.
type SyntaxError struct {
	Span     Span
	Label    *string
	Found    *string
	Expected []*string
}

// EndOfInput is the Expected entry for the end of input.
var EndOfInput *string

func (e SyntaxError) Error() string {
	msg := "unexpected end of input"
	if e.Found != nil {
		msg = "unexpected " + *e.Found
	}

	if e.Label != nil {
		msg += " in " + *e.Label
	}

	return e.Span.String() + ": " + msg
}

func str(s string) *string {
	return &s
}

// expect builds an Expected list from token descriptors.
func expect(tokens ...string) []*string {
	out := make([]*string, len(tokens))
	for i, t := range tokens {
		out[i] = str(t)
	}

	return out
}
