package lsp

import (
	"context"

	"fortio.org/safecast"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/jsonls"
	"github.com/rlch/jsonls/textindex"
)

// FoldingRanges handles textDocument/foldingRange requests.
// Returns a range for every object and array that spans more than one line.
func (s *Server) FoldingRanges(_ context.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	s.logger.Debug("FoldingRanges",
		zap.String("uri", string(params.TextDocument.URI)))

	if err := s.running(); err != nil {
		return nil, err
	}

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Root() == nil {
		return nil, nil
	}

	var ranges []protocol.FoldingRange

	collectFoldingRanges(doc.Index, doc.Root(), &ranges)

	return ranges, nil
}

func collectFoldingRanges(idx *textindex.Index, v *jsonls.Value, out *[]protocol.FoldingRange) {
	if v == nil {
		return
	}

	switch v.Kind { //nolint:exhaustive // Scalars never fold.
	case jsonls.KindObject:
		appendFoldingRange(idx, v.Span, out)

		for _, m := range v.Members {
			collectFoldingRanges(idx, m.Value, out)
		}
	case jsonls.KindArray:
		appendFoldingRange(idx, v.Span, out)

		for _, item := range v.Items {
			collectFoldingRanges(idx, item, out)
		}
	}
}

func appendFoldingRange(idx *textindex.Index, span jsonls.Span, out *[]protocol.FoldingRange) {
	if span.Len() < 2 { //nolint:mnd // an opening and a closing bracket
		return
	}

	startLine, err := idx.LineOf(span.Start)
	if err != nil {
		return
	}

	endLine, err := idx.LineOf(span.End - 1)
	if err != nil || endLine <= startLine {
		return
	}

	start, err := safecast.Conv[uint32](startLine)
	if err != nil {
		return
	}

	end, err := safecast.Conv[uint32](endLine)
	if err != nil {
		return
	}

	*out = append(*out, protocol.FoldingRange{
		StartLine: start,
		EndLine:   end,
		Kind:      protocol.RegionFoldingRange,
	})
}
