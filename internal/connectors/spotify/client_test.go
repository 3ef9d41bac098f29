package spotify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short", in: "boom", n: 8, want: "boom"},
		{name: "exact", in: "boom", n: 4, want: "boom"},
		{name: "ascii", in: "abcdef", n: 3, want: "abc..."},
		{name: "inside rune", in: "aé", n: 2, want: "a..."},
		{name: "rune boundary", in: "éé", n: 2, want: "é..."},
		{name: "wide rune", in: "a日本", n: 3, want: "a..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestErrorMessage_LongBodyKeepsRunesWhole(t *testing.T) {
	msg := errorMessage([]byte("x" + strings.Repeat("é", 600)))

	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasSuffix(msg, "..."))
	assert.LessOrEqual(t, len(msg), maxErrorBody+3)
}
