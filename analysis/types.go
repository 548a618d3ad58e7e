// Package analysis turns parser output into positioned diagnostics.
package analysis

import (
	"github.com/rlch/jsonls/textindex"
)

// AnalyzedFile holds the result of one update cycle for a document.
type AnalyzedFile struct {
	// Value is whatever the parser produced. The engine never inspects it.
	Value any

	// Diagnostics holds one entry per syntax error, in parser order.
	Diagnostics []Diagnostic
}

// Range is a pair of zero-based positions. End is exclusive.
type Range struct {
	Start textindex.Position
	End   textindex.Position
}

// Diagnostic is a positioned, user-facing report of a syntax error.
type Diagnostic struct {
	Range    Range
	Severity DiagnosticSeverity
	Message  string
	Code     string // "syntax-error"
	Source   string // "jsonls" unless configured otherwise
}

// DiagnosticSeverity indicates the severity of a diagnostic.
type DiagnosticSeverity int

// Diagnostic severity constants.
const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// CodeSyntaxError is the code of every diagnostic produced by the engine.
const CodeSyntaxError = "syntax-error"

// DefaultSource is the diagnostic source used when none is configured.
const DefaultSource = "jsonls"
