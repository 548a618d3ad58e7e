package lsp

import (
	"fortio.org/safecast"
	"go.lsp.dev/protocol"

	"github.com/rlch/jsonls"
	"github.com/rlch/jsonls/analysis"
	"github.com/rlch/jsonls/textindex"
)

// toProtocolPosition converts a zero-based text index position to LSP.
// Both count lines from zero and columns in runes.
//
// LSP defines Character in UTF-16 code units. Runes and UTF-16 units agree
// inside the Basic Multilingual Plane, so columns after a character outside
// it (most emoji) are one less per such character than a standard client
// expects.
func toProtocolPosition(pos textindex.Position) (protocol.Position, error) {
	line, err := safecast.Conv[uint32](pos.Line)
	if err != nil {
		return protocol.Position{}, err
	}

	char, err := safecast.Conv[uint32](pos.Column)
	if err != nil {
		return protocol.Position{}, err
	}

	return protocol.Position{Line: line, Character: char}, nil
}

func toProtocolRange(r analysis.Range) (protocol.Range, error) {
	start, err := toProtocolPosition(r.Start)
	if err != nil {
		return protocol.Range{}, err
	}

	end, err := toProtocolPosition(r.End)
	if err != nil {
		return protocol.Range{}, err
	}

	return protocol.Range{Start: start, End: end}, nil
}

// spanToRange maps a rune-offset span onto an LSP range.
func spanToRange(idx *textindex.Index, span jsonls.Span) (protocol.Range, error) {
	r, err := analysis.SpanToRange(idx, span)
	if err != nil {
		return protocol.Range{}, err
	}

	return toProtocolRange(r)
}

// offsetAt maps an LSP position onto a rune offset. Columns past the end of
// a line clamp to the line end. Character is read as a rune column, with the
// same caveat as toProtocolPosition.
func offsetAt(idx *textindex.Index, pos protocol.Position) (int, error) {
	return idx.Offset(textindex.Position{Line: int(pos.Line), Column: int(pos.Character)})
}

func rangePtr(r protocol.Range) *protocol.Range {
	return &r
}
