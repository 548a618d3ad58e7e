// Package jsonls provides a recovering JSON parser for the jsonls language server.
package jsonls

import (
	"strconv"
	"strings"
)

// Span is a half-open range [Start, End) of rune offsets into a document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether offset lies inside the span. The end offset is
// included so a cursor placed just after a value still resolves to it.
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset <= s.End
}

func (s Span) String() string {
	return "[" + strconv.Itoa(s.Start) + "," + strconv.Itoa(s.End) + ")"
}

// Kind identifies the type of a JSON value.
type Kind int

// Value kinds. KindInvalid marks a placeholder synthesized during error recovery.
const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "boolean",
	KindNumber:  "number",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindNames[k]
}

// Value is a node of the parsed JSON tree.
type Value struct {
	Kind Kind
	Span Span

	Bool    bool
	Number  float64
	Raw     string // source text of a number
	Str     string
	Items   []*Value
	Members []*Member
}

// Member is a key/value pair of an object.
type Member struct {
	Key     string
	KeySpan Span
	Value   *Value
}

// Get returns the value of the last member named key, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != KindObject {
		return nil
	}

	for i := len(v.Members) - 1; i >= 0; i-- {
		if v.Members[i].Key == key {
			return v.Members[i].Value
		}
	}

	return nil
}

// String renders the value back to compact JSON. Invalid placeholders render as "<invalid>".
func (v *Value) String() string {
	var sb strings.Builder

	v.write(&sb)

	return sb.String()
}

func (v *Value) write(sb *strings.Builder) {
	if v == nil {
		sb.WriteString("<nil>")

		return
	}

	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case KindNumber:
		sb.WriteString(strconv.FormatFloat(v.Number, 'g', -1, 64))
	case KindString:
		writeQuoted(sb, v.Str)
	case KindArray:
		sb.WriteByte('[')

		for i, item := range v.Items {
			if i > 0 {
				sb.WriteByte(',')
			}

			item.write(sb)
		}

		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')

		for i, m := range v.Members {
			if i > 0 {
				sb.WriteByte(',')
			}

			writeQuoted(sb, m.Key)
			sb.WriteByte(':')
			m.Value.write(sb)
		}

		sb.WriteByte('}')
	default:
		sb.WriteString("<invalid>")
	}
}
