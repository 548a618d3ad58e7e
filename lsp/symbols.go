package lsp

import (
	"context"
	"strconv"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/jsonls"
	"github.com/rlch/jsonls/textindex"
)

// DocumentSymbol handles textDocument/documentSymbol requests.
// Returns object members and array items as a symbol tree for the outline view.
func (s *Server) DocumentSymbol(_ context.Context, params *protocol.DocumentSymbolParams) ([]any, error) {
	s.logger.Debug("DocumentSymbol",
		zap.String("uri", string(params.TextDocument.URI)))

	if err := s.running(); err != nil {
		return nil, err
	}

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Root() == nil {
		return nil, nil
	}

	symbols := buildDocumentSymbols(doc.Index, doc.Root())

	// Convert to []any for the protocol
	result := make([]any, len(symbols))
	for i, sym := range symbols {
		result[i] = sym
	}

	return result, nil
}

// buildDocumentSymbols returns the symbols for the children of v.
func buildDocumentSymbols(idx *textindex.Index, v *jsonls.Value) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol

	switch v.Kind { //nolint:exhaustive // Scalars have no children.
	case jsonls.KindObject:
		for _, m := range v.Members {
			if m.Value == nil {
				continue
			}

			span := jsonls.Span{Start: m.KeySpan.Start, End: max(m.KeySpan.End, m.Value.Span.End)}
			if sym, ok := valueSymbol(idx, m.Key, span, m.KeySpan, m.Value); ok {
				symbols = append(symbols, sym)
			}
		}
	case jsonls.KindArray:
		for i, item := range v.Items {
			name := "[" + strconv.Itoa(i) + "]"
			if sym, ok := valueSymbol(idx, name, item.Span, item.Span, item); ok {
				symbols = append(symbols, sym)
			}
		}
	}

	return symbols
}

func valueSymbol(idx *textindex.Index, name string, span, selection jsonls.Span, v *jsonls.Value) (protocol.DocumentSymbol, bool) {
	if v.Kind == jsonls.KindInvalid {
		return protocol.DocumentSymbol{}, false
	}

	rng, err := spanToRange(idx, span)
	if err != nil {
		return protocol.DocumentSymbol{}, false
	}

	sel, err := spanToRange(idx, selection)
	if err != nil {
		return protocol.DocumentSymbol{}, false
	}

	sym := protocol.DocumentSymbol{
		Name:           name,
		Kind:           symbolKind(v.Kind),
		Range:          rng,
		SelectionRange: sel,
		Children:       buildDocumentSymbols(idx, v),
	}

	if v.Kind != jsonls.KindObject && v.Kind != jsonls.KindArray {
		sym.Detail = v.String()
	}

	return sym, true
}

func symbolKind(k jsonls.Kind) protocol.SymbolKind {
	switch k {
	case jsonls.KindObject:
		return protocol.SymbolKindObject
	case jsonls.KindArray:
		return protocol.SymbolKindArray
	case jsonls.KindString:
		return protocol.SymbolKindString
	case jsonls.KindNumber:
		return protocol.SymbolKindNumber
	case jsonls.KindBool:
		return protocol.SymbolKindBoolean
	case jsonls.KindNull:
		return protocol.SymbolKindNull
	case jsonls.KindInvalid:
		return protocol.SymbolKindNull
	}

	return protocol.SymbolKindNull
}
