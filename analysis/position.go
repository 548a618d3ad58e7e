package analysis

import (
	"strconv"
	"strings"

	"github.com/rlch/jsonls"
)

// PathSegment is one step from a value to a child: an object key or an array index.
type PathSegment struct {
	Key   string
	Index int
	IsKey bool
}

// ValueAtOffset finds the most specific value whose span contains offset and
// returns it with the path leading to it from root. Returns nil if no value
// contains the offset.
func ValueAtOffset(root *jsonls.Value, offset int) (*jsonls.Value, []PathSegment) {
	if root == nil || !root.Span.Contains(offset) {
		return nil, nil
	}

	var path []PathSegment

	best := root

	for {
		child, seg, ok := childAt(best, offset)
		if !ok {
			return best, path
		}

		best = child
		path = append(path, seg)
	}
}

func childAt(v *jsonls.Value, offset int) (*jsonls.Value, PathSegment, bool) {
	switch v.Kind { //nolint:exhaustive // Scalars have no children.
	case jsonls.KindObject:
		for _, m := range v.Members {
			if m.Value == nil {
				continue
			}

			// The key belongs to its member: hovering a key resolves to its value.
			if m.KeySpan.Contains(offset) || (m.Value.Span.Len() > 0 && m.Value.Span.Contains(offset)) {
				return m.Value, PathSegment{Key: m.Key, IsKey: true}, true
			}
		}
	case jsonls.KindArray:
		for i, item := range v.Items {
			if item.Span.Len() > 0 && item.Span.Contains(offset) {
				return item, PathSegment{Index: i}, true
			}
		}
	}

	return nil, PathSegment{}, false
}

// FormatPath renders a path in JSONPath notation, e.g. $.a[0]["b c"].
func FormatPath(path []PathSegment) string {
	var sb strings.Builder

	sb.WriteByte('$')

	for _, seg := range path {
		switch {
		case !seg.IsKey:
			sb.WriteString("[" + strconv.Itoa(seg.Index) + "]")
		case isPlainKey(seg.Key):
			sb.WriteString("." + seg.Key)
		default:
			sb.WriteString("[" + strconv.Quote(seg.Key) + "]")
		}
	}

	return sb.String()
}

func isPlainKey(key string) bool {
	if key == "" {
		return false
	}

	for i, r := range key {
		isLetter := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isLetter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}

	return true
}

// Ancestors returns the values containing offset, from root down to the one
// ValueAtOffset would return.
func Ancestors(root *jsonls.Value, offset int) []*jsonls.Value {
	if root == nil || !root.Span.Contains(offset) {
		return nil
	}

	chain := []*jsonls.Value{root}

	for {
		child, _, ok := childAt(chain[len(chain)-1], offset)
		if !ok {
			return chain
		}

		chain = append(chain, child)
	}
}
