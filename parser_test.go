package jsonls_test

import (
	"errors"
	"math/rand/v2"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/jsonls"
)

func ptr[T any](v T) *T {
	return &v
}

func strs(tokens ...string) []*string {
	out := make([]*string, len(tokens))
	for i, t := range tokens {
		out[i] = ptr(t)
	}

	return out
}

var valueStart = strs("string", "number", "{", "[", "true", "false", "null")

func TestParse_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty object", input: "{}", want: "{}"},
		{name: "empty array", input: " [ ] ", want: "[]"},
		{name: "null", input: "null", want: "null"},
		{name: "number", input: "  -4.5e2\n", want: "-450"},
		{name: "string escapes", input: `"a\"b\\c\/d\né😀"`, want: `"a\"b\\c/d\né😀"`},
		{
			name:  "nested",
			input: "{\n  \"a\": [1, 2.5, true, false],\n  \"b\": {\"c\": null},\n  \"d\": \"x\"\n}",
			want:  `{"a":[1,2.5,true,false],"b":{"c":null},"d":"x"}`,
		},
		{name: "crlf whitespace", input: "{\r\n\"a\":\r\n1\r\n}", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			value, errs := jsonls.ParseWithRecovery(tt.input)
			assert.Empty(t, errs)
			require.NotNil(t, value)
			assert.Equal(t, tt.want, value.String())

			_, err := jsonls.Parse(tt.input)
			assert.NoError(t, err)
		})
	}
}

func TestParseWithRecovery_Errors(t *testing.T) {
	t.Parallel()

	object := ptr("object")
	array := ptr("array")
	str := ptr("string")

	tests := []struct {
		name  string
		input string
		want  []jsonls.SyntaxError
	}{
		{
			name:  "empty text",
			input: "",
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 0, End: 0}, Expected: valueStart},
			},
		},
		{
			name:  "unclosed object",
			input: "{",
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 1, End: 1}, Label: object, Expected: strs("string")},
			},
		},
		{
			name:  "missing comma in array",
			input: "[1 2]",
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 3, End: 4}, Label: array, Found: ptr("2"), Expected: strs(",", "]")},
			},
		},
		{
			name:  "missing colon",
			input: `{"a" 1}`,
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 5, End: 6}, Label: object, Found: ptr("1"), Expected: strs(":")},
			},
		},
		{
			name:  "trailing comma in array",
			input: "[1,]",
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 3, End: 4}, Label: array, Found: ptr("]"), Expected: valueStart},
			},
		},
		{
			name:  "misspelled literal",
			input: `{"a": tru}`,
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 6, End: 9}, Label: object, Found: ptr("tru"), Expected: valueStart},
			},
		},
		{
			name:  "dangling value",
			input: "{\n  \"a\": ,\n}",
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 9, End: 10}, Label: object, Found: ptr(","), Expected: valueStart},
				{Span: jsonls.Span{Start: 11, End: 12}, Label: object, Found: ptr("}"), Expected: strs("string")},
			},
		},
		{
			name:  "invalid escape",
			input: `"ab\qc"`,
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 4, End: 5}, Label: str, Found: ptr("q"), Expected: strs(`"`, `\`, "/", "b", "f", "n", "r", "t", "u")},
			},
		},
		{
			name:  "bad unicode escape",
			input: `"\u12G4"`,
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 5, End: 6}, Label: str, Found: ptr("G"), Expected: strs("hex digit")},
			},
		},
		{
			name:  "unterminated string",
			input: `"abc`,
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 4, End: 4}, Label: str, Expected: strs(`"`)},
			},
		},
		{
			name:  "trailing value",
			input: "[1] 2",
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 4, End: 5}, Found: ptr("2"), Expected: []*string{jsonls.EndOfInput}},
			},
		},
		{
			name:  "invalid rune",
			input: "@",
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 0, End: 1}, Found: ptr("@"), Expected: valueStart},
			},
		},
		{
			name:  "foreign closer reported once",
			input: "[1 }",
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 3, End: 4}, Label: array, Found: ptr("}"), Expected: strs(",", "]")},
			},
		},
		{
			name:  "leading zero",
			input: "[01]",
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 2, End: 3}, Label: array, Found: ptr("1"), Expected: strs(",", "]")},
			},
		},
		{
			name:  "raw control characters in string",
			input: "\"a\tb\nc\"",
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 2, End: 3}, Label: str, Found: ptr("\t"), Expected: strs("escape sequence")},
				{Span: jsonls.Span{Start: 4, End: 5}, Label: str, Found: ptr("\n"), Expected: strs("escape sequence")},
			},
		},
		{
			name:  "offsets count runes",
			input: `["日本", x]`,
			want: []jsonls.SyntaxError{
				{Span: jsonls.Span{Start: 7, End: 8}, Label: array, Found: ptr("x"), Expected: valueStart},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, errs := jsonls.ParseWithRecovery(tt.input)

			if diff := cmp.Diff(tt.want, errs); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseWithRecovery_ContinuesAfterErrors(t *testing.T) {
	t.Parallel()

	value, errs := jsonls.ParseWithRecovery(`{"a": [1 2, 3], "b": 4}`)
	require.Len(t, errs, 1)
	assert.Equal(t, jsonls.Span{Start: 9, End: 10}, errs[0].Span)

	assert.Equal(t, `{"a":[1,3],"b":4}`, value.String())
	assert.Equal(t, 4.0, value.Get("b").Number)
}

func TestParseWithRecovery_ReportsEveryError(t *testing.T) {
	t.Parallel()

	_, errs := jsonls.ParseWithRecovery(`{"a": tru, "b": [1,, 2], "c" 3, "d": "\x"}`)

	found := make([]string, 0, len(errs))
	for _, e := range errs {
		require.NotNil(t, e.Found)
		found = append(found, *e.Found)
	}

	assert.Equal(t, []string{"tru", ",", "3", "x"}, found)
}

func TestParseWithRecovery_SpanInvariants(t *testing.T) {
	t.Parallel()

	alphabet := []rune(`{}[]:,"\ 1-.eE+tfnul` + "\n\r\t@é😀")
	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec // deterministic test input

	for range 2000 {
		runes := make([]rune, rng.IntN(24))
		for i := range runes {
			runes[i] = alphabet[rng.IntN(len(alphabet))]
		}

		text := string(runes)
		length := utf8.RuneCountInString(text)

		value, errs := jsonls.ParseWithRecovery(text)
		require.NotNil(t, value, "input %q", text)

		seen := make(map[int]bool)

		for _, e := range errs {
			assert.LessOrEqual(t, 0, e.Span.Start, "input %q", text)
			assert.LessOrEqual(t, e.Span.Start, e.Span.End, "input %q", text)
			assert.LessOrEqual(t, e.Span.End, length, "input %q", text)
			assert.False(t, seen[e.Span.Start], "duplicate error at %d in %q", e.Span.Start, text)

			seen[e.Span.Start] = true
		}
	}
}

func TestParse_JoinsErrors(t *testing.T) {
	t.Parallel()

	value, err := jsonls.Parse("[1,,2")
	require.Error(t, err)
	require.NotNil(t, value)

	var syntaxErr jsonls.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, jsonls.Span{Start: 3, End: 4}, syntaxErr.Span)
	assert.Equal(t, "[3,4): unexpected , in array", syntaxErr.Error())

	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 2)
}

func TestValue_Get(t *testing.T) {
	t.Parallel()

	value, errs := jsonls.ParseWithRecovery(`{"a": 1, "a": 2, "b": [true]}`)
	require.Empty(t, errs)

	assert.Equal(t, 2.0, value.Get("a").Number, "last duplicate wins")
	assert.Equal(t, jsonls.KindArray, value.Get("b").Kind)
	assert.Nil(t, value.Get("missing"))
	assert.Nil(t, value.Get("b").Get("x"), "Get on a non-object")
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "boolean", jsonls.KindBool.String())
	assert.Equal(t, "object", jsonls.KindObject.String())
	assert.Equal(t, "Kind(99)", jsonls.Kind(99).String())
}
