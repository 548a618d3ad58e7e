package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rlch/jsonls"
	"github.com/rlch/jsonls/analysis"
)

func ptr[T any](v T) *T {
	return &v
}

func TestMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  jsonls.SyntaxError
		want string
	}{
		{
			name: "end of input with nothing expected",
			err:  jsonls.SyntaxError{},
			want: "Unexpected end of input, expected something else",
		},
		{
			name: "token with label and expectations in order",
			err: jsonls.SyntaxError{
				Label:    ptr("object"),
				Found:    ptr("x"),
				Expected: []*string{ptr(","), ptr("}")},
			},
			want: "Unexpected token while parsing object, expected ,, }",
		},
		{
			name: "token without label",
			err: jsonls.SyntaxError{
				Found:    ptr("]"),
				Expected: []*string{jsonls.EndOfInput},
			},
			want: "Unexpected token, expected end of input",
		},
		{
			name: "end of input mixed with named tokens",
			err: jsonls.SyntaxError{
				Label:    ptr("array"),
				Expected: []*string{ptr("]"), nil},
			},
			want: "Unexpected end of input while parsing array, expected ], end of input",
		},
		{
			name: "token with empty expectation set",
			err: jsonls.SyntaxError{
				Label: ptr("string"),
				Found: ptr("q"),
			},
			want: "Unexpected token while parsing string, expected something else",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, analysis.Message(tt.err))
		})
	}
}
