package jsonls_test

import (
	"strings"
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/rlch/jsonls"
)

func TestLexer_Symbols(t *testing.T) {
	t.Parallel()

	symbols := jsonls.Lexer().Symbols()

	expected := []string{
		"EOF", "String", "Number", "Ident", "Colon", "Comma", "Whitespace", "Invalid",
		"[", "]", "{", "}",
	}

	for _, name := range expected {
		if _, ok := symbols[name]; !ok {
			t.Errorf("missing symbol: %s", name)
		}
	}
}

type tokenExpect struct {
	typ string
	val string
}

func lexTokens(t *testing.T, input string) []tokenExpect {
	t.Helper()

	def := jsonls.Lexer()

	symbolNames := make(map[lexer.TokenType]string)
	for name, typ := range def.Symbols() {
		symbolNames[typ] = name
	}

	lex, err := def.Lex("", strings.NewReader(input))
	require.NoError(t, err)

	var tokens []tokenExpect

	for {
		tok, err := lex.Next()
		require.NoError(t, err)

		if tok.EOF() {
			break
		}

		if tok.Type == jsonls.TokenWhitespace {
			continue
		}

		tokens = append(tokens, tokenExpect{typ: symbolNames[tok.Type], val: tok.Value})
	}

	return tokens
}

func assertTokens(t *testing.T, want, got []tokenExpect) {
	t.Helper()

	if diff := cmp.Diff(want, got, cmp.AllowUnexported(tokenExpect{})); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_Numbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected []tokenExpect
	}{
		{"0", []tokenExpect{{"Number", "0"}}},
		{"123", []tokenExpect{{"Number", "123"}}},
		{"-7", []tokenExpect{{"Number", "-7"}}},
		{"123.456", []tokenExpect{{"Number", "123.456"}}},
		{"1e10", []tokenExpect{{"Number", "1e10"}}},
		{"1E10", []tokenExpect{{"Number", "1E10"}}},
		{"1.5e-3", []tokenExpect{{"Number", "1.5e-3"}}},
		{"1.5e+3", []tokenExpect{{"Number", "1.5e+3"}}},
		{"1.", []tokenExpect{{"Number", "1"}, {"Invalid", "."}}},
		{"1e", []tokenExpect{{"Number", "1"}, {"Ident", "e"}}},
		{"-", []tokenExpect{{"Invalid", "-"}}},
		{"-a", []tokenExpect{{"Invalid", "-"}, {"Ident", "a"}}},
		{"0.5", []tokenExpect{{"Number", "0.5"}}},
		{"-0e3", []tokenExpect{{"Number", "-0e3"}}},
		{"01", []tokenExpect{{"Number", "0"}, {"Number", "1"}}},
		{"-007", []tokenExpect{{"Number", "-0"}, {"Number", "0"}, {"Number", "7"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			assertTokens(t, tt.expected, lexTokens(t, tt.input))
		})
	}
}

func TestLexer_Strings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected []tokenExpect
	}{
		{`""`, []tokenExpect{{"String", `""`}}},
		{`"hello"`, []tokenExpect{{"String", `"hello"`}}},
		{`"a\"b"`, []tokenExpect{{"String", `"a\"b"`}}},
		{`"a\\" 1`, []tokenExpect{{"String", `"a\\"`}, {"Number", "1"}}},
		{`"héllo 😀"`, []tokenExpect{{"String", `"héllo 😀"`}}},
		{`"open`, []tokenExpect{{"String", `"open`}}},
		{`"trailing\`, []tokenExpect{{"String", `"trailing\`}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			assertTokens(t, tt.expected, lexTokens(t, tt.input))
		})
	}
}

func TestLexer_Punctuation(t *testing.T) {
	t.Parallel()

	got := lexTokens(t, `{"a": [1, true], "b": null}`)

	assertTokens(t, []tokenExpect{
		{"{", "{"},
		{"String", `"a"`},
		{"Colon", ":"},
		{"[", "["},
		{"Number", "1"},
		{"Comma", ","},
		{"Ident", "true"},
		{"]", "]"},
		{"Comma", ","},
		{"String", `"b"`},
		{"Colon", ":"},
		{"Ident", "null"},
		{"}", "}"},
	}, got)
}

func TestLexer_InvalidRunes(t *testing.T) {
	t.Parallel()

	got := lexTokens(t, "@ ; 'x' #")

	assertTokens(t, []tokenExpect{
		{"Invalid", "@"},
		{"Invalid", ";"},
		{"Invalid", "'"},
		{"Ident", "x"},
		{"Invalid", "'"},
		{"Invalid", "#"},
	}, got)
}

func TestLexer_RuneOffsets(t *testing.T) {
	t.Parallel()

	lex, err := jsonls.Lexer().Lex("doc.json", strings.NewReader("\"日本\"\n 1"))
	require.NoError(t, err)

	str, err := lex.Next()
	require.NoError(t, err)
	require.Equal(t, jsonls.TokenString, str.Type)
	require.Equal(t, 0, str.Pos.Offset)

	ws, err := lex.Next()
	require.NoError(t, err)
	require.Equal(t, jsonls.TokenWhitespace, ws.Type)
	require.Equal(t, 4, ws.Pos.Offset, "offsets count runes, not bytes")

	num, err := lex.Next()
	require.NoError(t, err)
	require.Equal(t, jsonls.TokenNumber, num.Type)
	require.Equal(t, 6, num.Pos.Offset)
	require.Equal(t, 2, num.Pos.Line)
	require.Equal(t, 2, num.Pos.Column)
	require.Equal(t, "doc.json", num.Pos.Filename)

	eof, err := lex.Next()
	require.NoError(t, err)
	require.True(t, eof.EOF())
	require.Equal(t, 7, eof.Pos.Offset)
}
