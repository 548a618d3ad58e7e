package lsp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/rlch/jsonls/lsp"
)

func completionLabels(t *testing.T, server *lsp.Server, char uint32) []string {
	t.Helper()

	list, err := server.Completion(context.Background(), &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: 0, Character: char},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, list)

	labels := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		labels = append(labels, item.Label)
	}

	return labels
}

func TestServer_Completion(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, lsp.Options{Completion: []string{`"$schema"`}})

	//                           0         1
	//                           012345678901234567
	openDocument(t, server, 1, `{"a": , "b": "xy"}`)

	tests := []struct {
		name string
		char uint32
		want []string
	}{
		{name: "after colon", char: 5, want: []string{"true", "false", "null", "{}", "[]", `"$schema"`}},
		{name: "member position", char: 8, want: []string{`"key": value`}},
		{name: "after open brace", char: 1, want: []string{`"key": value`}},
		{name: "inside string", char: 14, want: []string{}},
		{name: "after complete value", char: 17, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, completionLabels(t, server, tt.char))
		})
	}
}

func TestServer_Completion_ArrayItem(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, lsp.Options{})
	openDocument(t, server, 1, `[1, `)

	labels := completionLabels(t, server, 4)
	assert.Contains(t, labels, "true")
	assert.Contains(t, labels, "{}")
}

func TestServer_Completion_UnclosedObject(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, lsp.Options{})
	openDocument(t, server, 1, `{"a": 1, `)

	assert.Equal(t, []string{`"key": value`}, completionLabels(t, server, 9))
}

func TestServer_FoldingRanges(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, lsp.Options{})
	openDocument(t, server, 1, "{\n  \"a\": [\n    1\n  ],\n  \"b\": {}\n}")

	ranges, err := server.FoldingRanges(context.Background(), &protocol.FoldingRangeParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []protocol.FoldingRange{
		{StartLine: 0, EndLine: 5, Kind: protocol.RegionFoldingRange},
		{StartLine: 1, EndLine: 3, Kind: protocol.RegionFoldingRange},
	}, ranges)
}

func TestServer_DocumentSymbol(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, lsp.Options{})
	openDocument(t, server, 1, `{"a": [1, true], "b": {"c": null}}`)

	result, err := server.DocumentSymbol(context.Background(), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	require.Len(t, result, 2)

	a, ok := result[0].(protocol.DocumentSymbol)
	require.True(t, ok)
	assert.Equal(t, "a", a.Name)
	assert.Equal(t, protocol.SymbolKindArray, a.Kind)
	assert.Equal(t, protocol.Position{Line: 0, Character: 1}, a.Range.Start)
	assert.Equal(t, protocol.Position{Line: 0, Character: 15}, a.Range.End)
	require.Len(t, a.Children, 2)
	assert.Equal(t, "[1]", a.Children[1].Name)
	assert.Equal(t, protocol.SymbolKindBoolean, a.Children[1].Kind)
	assert.Equal(t, "true", a.Children[1].Detail)

	b, ok := result[1].(protocol.DocumentSymbol)
	require.True(t, ok)
	assert.Equal(t, protocol.SymbolKindObject, b.Kind)
	require.Len(t, b.Children, 1)
	assert.Equal(t, "c", b.Children[0].Name)
	assert.Equal(t, protocol.SymbolKindNull, b.Children[0].Kind)
}

func TestServer_Formatting(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, lsp.Options{})
	openDocument(t, server, 1, `{"a":1,"b":[true]}`)

	edits, err := server.Formatting(context.Background(), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Options:      protocol.FormattingOptions{InsertSpaces: true, TabSize: 2},
	})
	require.NoError(t, err)
	require.Len(t, edits, 1)

	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 18},
	}, edits[0].Range)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    true\n  ]\n}\n", edits[0].NewText)
}

func TestServer_Formatting_SkipsBrokenDocuments(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, lsp.Options{})
	openDocument(t, server, 1, `{"a":1,`)

	edits, err := server.Formatting(context.Background(), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Options:      protocol.FormattingOptions{TabSize: 4},
	})
	require.NoError(t, err)
	assert.Nil(t, edits)
}

func TestServer_Formatting_AlreadyFormatted(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, lsp.Options{})
	openDocument(t, server, 1, "[\n\t1\n]\n")

	edits, err := server.Formatting(context.Background(), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Options:      protocol.FormattingOptions{InsertSpaces: false},
	})
	require.NoError(t, err)
	assert.Empty(t, edits)
	assert.NotNil(t, edits)
}
