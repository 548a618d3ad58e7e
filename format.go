package jsonls

import (
	"strings"
)

// DefaultIndent is the indent Format uses when none is given.
const DefaultIndent = "  "

// Format renders a value as indented JSON source. Numbers keep their original
// spelling. Empty objects and arrays stay on one line.
func Format(v *Value, indent string) string {
	if indent == "" {
		indent = DefaultIndent
	}

	var b strings.Builder

	f := &formatter{b: &b, indentUnit: indent}
	f.formatValue(v)

	return b.String() + "\n"
}

type formatter struct {
	b          *strings.Builder
	indentUnit string
	indent     int
}

func (f *formatter) write(s string) {
	f.b.WriteString(s)
}

func (f *formatter) newline() {
	f.write("\n")

	for range f.indent {
		f.write(f.indentUnit)
	}
}

func (f *formatter) formatValue(v *Value) {
	if v == nil {
		f.write("null")

		return
	}

	switch v.Kind {
	case KindNumber:
		if v.Raw != "" {
			f.write(v.Raw)
		} else {
			v.write(f.b)
		}
	case KindArray:
		f.formatArray(v)
	case KindObject:
		f.formatObject(v)
	default:
		v.write(f.b)
	}
}

func (f *formatter) formatArray(v *Value) {
	if len(v.Items) == 0 {
		f.write("[]")

		return
	}

	f.write("[")
	f.indent++

	for i, item := range v.Items {
		if i > 0 {
			f.write(",")
		}

		f.newline()
		f.formatValue(item)
	}

	f.indent--
	f.newline()
	f.write("]")
}

func (f *formatter) formatObject(v *Value) {
	if len(v.Members) == 0 {
		f.write("{}")

		return
	}

	f.write("{")
	f.indent++

	for i, m := range v.Members {
		if i > 0 {
			f.write(",")
		}

		f.newline()
		writeQuoted(f.b, m.Key)
		f.write(": ")
		f.formatValue(m.Value)
	}

	f.indent--
	f.newline()
	f.write("}")
}

const hexDigits = "0123456789abcdef"

// writeQuoted writes s as a JSON string literal.
func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 { //nolint:mnd // control characters
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigits[r>>4])
				sb.WriteByte(hexDigits[r&0xf])

				continue
			}

			sb.WriteRune(r)
		}
	}

	sb.WriteByte('"')
}
