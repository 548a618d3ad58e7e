package lsp

import (
	"context"
	"unicode"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/jsonls"
	"github.com/rlch/jsonls/analysis"
)

// CompletionKind describes what can be typed at the cursor.
type CompletionKind string

// Completion kinds.
const (
	CompletionKindNone  CompletionKind = "none"
	CompletionKindValue CompletionKind = "value"
	CompletionKindKey   CompletionKind = "key"
)

// keywordCompletions are offered wherever a value may start.
var keywordCompletions = []protocol.CompletionItem{
	{Label: "true", Kind: protocol.CompletionItemKindKeyword, Detail: "boolean"},
	{Label: "false", Kind: protocol.CompletionItemKindKeyword, Detail: "boolean"},
	{Label: "null", Kind: protocol.CompletionItemKindKeyword, Detail: "null"},
	{
		Label:            "{}",
		Kind:             protocol.CompletionItemKindValue,
		Detail:           "object",
		InsertText:       "{$0}",
		InsertTextFormat: protocol.InsertTextFormatSnippet,
	},
	{
		Label:            "[]",
		Kind:             protocol.CompletionItemKindValue,
		Detail:           "array",
		InsertText:       "[$0]",
		InsertTextFormat: protocol.InsertTextFormatSnippet,
	},
}

var memberCompletion = protocol.CompletionItem{
	Label:            `"key": value`,
	Kind:             protocol.CompletionItemKindSnippet,
	Detail:           "member",
	InsertText:       `"${1:key}": $0`,
	InsertTextFormat: protocol.InsertTextFormatSnippet,
}

// Completion handles textDocument/completion requests.
func (s *Server) Completion(_ context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	if err := s.running(); err != nil {
		return nil, err
	}

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	offset, err := offsetAt(doc.Index, params.Position)
	if err != nil {
		return &protocol.CompletionList{}, nil
	}

	kind := completionContext(doc, offset)
	s.logger.Debug("Completion context", zap.String("kind", string(kind)))

	var items []protocol.CompletionItem

	switch kind {
	case CompletionKindNone:
		// Inside a string or after a complete value.
	case CompletionKindKey:
		items = append(items, memberCompletion)
	case CompletionKindValue:
		items = append(items, keywordCompletions...)
		items = append(items, s.extraCompletions()...)
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

func (s *Server) extraCompletions() []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(s.completionExtras))

	for _, extra := range s.completionExtras {
		items = append(items, protocol.CompletionItem{
			Label:      extra,
			Kind:       protocol.CompletionItemKindSnippet,
			Detail:     "configured",
			InsertText: extra,
		})
	}

	return items
}

// completionContext classifies offset by the nearest non-space rune before it
// and the innermost value around it.
func completionContext(doc *Document, offset int) CompletionKind {
	root := doc.Root()

	if v, _ := analysis.ValueAtOffset(root, offset); v != nil && v.Kind == jsonls.KindString &&
		v.Span.Start < offset && (offset < v.Span.End || !closedString(doc.Content, v)) {
		return CompletionKindNone
	}

	runes := []rune(doc.Content)

	prev := offset - 1
	for prev >= 0 && prev < len(runes) && unicode.IsSpace(runes[prev]) {
		prev--
	}

	if prev < 0 {
		return CompletionKindValue
	}

	switch runes[prev] {
	case ':', '[':
		return CompletionKindValue
	case '{':
		return CompletionKindKey
	case ',':
		if container := containerAt(doc.Content, root, offset); container != nil && container.Kind == jsonls.KindObject {
			return CompletionKindKey
		}

		return CompletionKindValue
	}

	return CompletionKindNone
}

// containerAt returns the innermost object or array whose brackets enclose
// offset. A container without its closing bracket extends to its end.
func containerAt(content string, root *jsonls.Value, offset int) *jsonls.Value {
	chain := analysis.Ancestors(root, offset)

	for i := len(chain) - 1; i >= 0; i-- {
		v := chain[i]
		if v.Kind != jsonls.KindObject && v.Kind != jsonls.KindArray {
			continue
		}

		if v.Span.Start < offset && (offset < v.Span.End || !closedContainer(content, v)) {
			return v
		}
	}

	return nil
}

func closedContainer(content string, v *jsonls.Value) bool {
	runes := []rune(content)
	if v.Span.End < 1 || v.Span.End > len(runes) {
		return false
	}

	last := runes[v.Span.End-1]

	return (v.Kind == jsonls.KindObject && last == '}') || (v.Kind == jsonls.KindArray && last == ']')
}

// closedString reports whether the string token v ends with an unescaped quote.
func closedString(content string, v *jsonls.Value) bool {
	runes := []rune(content)
	if v.Span.End > len(runes) || v.Span.Len() < 2 { //nolint:mnd // two quotes
		return false
	}

	if runes[v.Span.End-1] != '"' {
		return false
	}

	backslashes := 0
	for i := v.Span.End - 2; i > v.Span.Start && runes[i] == '\\'; i-- {
		backslashes++
	}

	return backslashes%2 == 0
}
