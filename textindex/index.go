// Package textindex maps rune offsets in a text buffer to zero-based line and
// column positions.
package textindex

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOutOfRange is returned when an offset or line lies outside the indexed text.
var ErrOutOfRange = errors.New("out of range")

// Position is a zero-based line and column. Columns count runes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Index is an immutable line-start table over a text buffer. Offsets are rune
// offsets in [0, Len()], the end of the buffer being a valid position.
//
// Line breaks are "\n", "\r\n" (a single break) and a lone "\r".
type Index struct {
	// lineStarts[i] is the rune offset of the first rune of line i.
	// lineStarts[0] is always 0.
	lineStarts []int
	length     int
}

// New builds an index over text in a single pass.
func New(text string) *Index {
	idx := &Index{lineStarts: []int{0}}

	offset := 0
	prevCR := false

	for _, r := range text {
		offset++

		switch r {
		case '\n':
			if prevCR {
				// "\r\n": the break was recorded at '\r'; move the line start past '\n'.
				idx.lineStarts[len(idx.lineStarts)-1] = offset
			} else {
				idx.lineStarts = append(idx.lineStarts, offset)
			}
		case '\r':
			idx.lineStarts = append(idx.lineStarts, offset)
		}

		prevCR = r == '\r'
	}

	idx.length = offset

	return idx
}

// Len returns the number of runes in the indexed text.
func (idx *Index) Len() int {
	return idx.length
}

// LineCount returns the number of lines. Empty text has one line.
func (idx *Index) LineCount() int {
	return len(idx.lineStarts)
}

// LineOf returns the line containing offset.
func (idx *Index) LineOf(offset int) (int, error) {
	if offset < 0 || offset > idx.length {
		return 0, fmt.Errorf("%w: offset %d not in [0, %d]", ErrOutOfRange, offset, idx.length)
	}

	// Largest i with lineStarts[i] <= offset.
	line := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	}) - 1

	return line, nil
}

// LineStart returns the offset of the first rune of line.
func (idx *Index) LineStart(line int) (int, error) {
	if line < 0 || line >= len(idx.lineStarts) {
		return 0, fmt.Errorf("%w: line %d not in [0, %d)", ErrOutOfRange, line, len(idx.lineStarts))
	}

	return idx.lineStarts[line], nil
}

// Position translates offset into a line and column.
func (idx *Index) Position(offset int) (Position, error) {
	line, err := idx.LineOf(offset)
	if err != nil {
		return Position{}, err
	}

	start, err := idx.LineStart(line)
	if err != nil {
		return Position{}, err
	}

	return Position{Line: line, Column: offset - start}, nil
}

// Offset translates a position back into an offset. Columns past the end of
// the line are clamped to the last offset on that line, as editors expect.
func (idx *Index) Offset(pos Position) (int, error) {
	start, err := idx.LineStart(pos.Line)
	if err != nil {
		return 0, err
	}

	if pos.Column < 0 {
		return 0, fmt.Errorf("%w: column %d", ErrOutOfRange, pos.Column)
	}

	end := idx.length
	if pos.Line+1 < len(idx.lineStarts) {
		end = idx.lineStarts[pos.Line+1] - 1
	}

	return min(start+pos.Column, end), nil
}
