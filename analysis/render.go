package analysis

import (
	"strings"

	"github.com/rlch/jsonls"
)

// Message renders a syntax error as
//
//	"{Unexpected token|Unexpected end of input}[ while parsing {label}], expected {list}"
//
// where list is the expected tokens joined by ", " ("end of input" for a nil
// entry), or "something else" when nothing specific was expected.
func Message(e jsonls.SyntaxError) string {
	var sb strings.Builder

	if e.Found != nil {
		sb.WriteString("Unexpected token")
	} else {
		sb.WriteString("Unexpected end of input")
	}

	if e.Label != nil {
		sb.WriteString(" while parsing ")
		sb.WriteString(*e.Label)
	}

	sb.WriteString(", expected ")

	if len(e.Expected) == 0 {
		sb.WriteString("something else")

		return sb.String()
	}

	for i, want := range e.Expected {
		if i > 0 {
			sb.WriteString(", ")
		}

		if want == nil {
			sb.WriteString("end of input")
		} else {
			sb.WriteString(*want)
		}
	}

	return sb.String()
}
