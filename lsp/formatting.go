package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/jsonls"
)

// Formatting handles textDocument/formatting requests.
func (s *Server) Formatting(_ context.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	s.logger.Debug("Formatting", zap.String("uri", string(params.TextDocument.URI)))

	if err := s.running(); err != nil {
		return nil, err
	}

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	// Need a valid parse to format (no syntax errors)
	if doc.Root() == nil || len(doc.Analysis.Diagnostics) > 0 {
		return nil, nil
	}

	formatted := jsonls.Format(doc.Root(), indentFor(params.Options))

	// If no change, return empty edits
	if formatted == doc.Content {
		return []protocol.TextEdit{}, nil
	}

	end, err := doc.Index.Position(doc.Index.Len())
	if err != nil {
		return nil, err
	}

	endPos, err := toProtocolPosition(end)
	if err != nil {
		return nil, err
	}

	// Return a single edit that replaces the entire document
	return []protocol.TextEdit{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   endPos,
			},
			NewText: formatted,
		},
	}, nil
}

func indentFor(opts protocol.FormattingOptions) string {
	if !opts.InsertSpaces {
		return "\t"
	}

	if opts.TabSize == 0 {
		return jsonls.DefaultIndent
	}

	return strings.Repeat(" ", int(opts.TabSize))
}
