package lsp

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/jsonls"
	"github.com/rlch/jsonls/analysis"
)

// maxPreview bounds the rendered value shown in a hover.
const maxPreview = 80

// Hover handles textDocument/hover requests. It shows the JSON path and kind
// of the innermost value under the cursor.
func (s *Server) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	s.logger.Debug("Hover",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	if err := s.running(); err != nil {
		return nil, err
	}

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Root() == nil {
		return nil, nil //nolint:nilnil
	}

	offset, err := offsetAt(doc.Index, params.Position)
	if err != nil {
		return nil, nil //nolint:nilnil // Positions past the document have no hover.
	}

	value, path := analysis.ValueAtOffset(doc.Root(), offset)
	if value == nil || value.Kind == jsonls.KindInvalid {
		return nil, nil //nolint:nilnil
	}

	rng, err := spanToRange(doc.Index, value.Span)
	if err != nil {
		s.logger.Warn("Hover span out of range", zap.Error(err))

		return nil, nil //nolint:nilnil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: hoverContent(value, path),
		},
		Range: rangePtr(rng),
	}, nil
}

func hoverContent(v *jsonls.Value, path []analysis.PathSegment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "`%s`: **%s**", analysis.FormatPath(path), v.Kind)

	switch v.Kind { //nolint:exhaustive // Scalars get a preview instead.
	case jsonls.KindObject:
		fmt.Fprintf(&b, " (%d %s)", len(v.Members), plural(len(v.Members), "member", "members"))
	case jsonls.KindArray:
		fmt.Fprintf(&b, " (%d %s)", len(v.Items), plural(len(v.Items), "item", "items"))
	default:
		preview := v.String()
		if runes := []rune(preview); len(runes) > maxPreview {
			preview = string(runes[:maxPreview]) + "…"
		}

		b.WriteString("\n\n```json\n" + preview + "\n```")
	}

	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
