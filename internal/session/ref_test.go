package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		token    string
		expected Ref
	}{
		{"first", Ref{Kind: RefFirst}},
		{"last", Ref{Kind: RefFirst}},
		{"latest", Ref{Kind: RefFirst}},
		{"last_read", Ref{Kind: RefLastRead}},
		{"it", Ref{Kind: RefThis}},
		{"this", Ref{Kind: RefThis}},
		{"those", Ref{Kind: RefAll}},
		{"all_from_search", Ref{Kind: RefAll}},
		{"1", Ref{Kind: RefIndex, Index: 1}},
		{"12", Ref{Kind: RefIndex, Index: 12}},
		// Zero and negatives are not positions; they pass through.
		{"0", Ref{Kind: RefLiteral, Literal: "0"}},
		{"-3", Ref{Kind: RefLiteral, Literal: "-3"}},
		{"19a4f2b8c", Ref{Kind: RefLiteral, Literal: "19a4f2b8c"}},
		{"", Ref{Kind: RefLiteral, Literal: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseRef(tt.token))
		})
	}
}
