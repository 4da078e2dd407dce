package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		size      int
		overlap   int
		want      []string
	}{
		{"short text is one chunk", "abc", 10, 2, []string{"abc"}},
		{"overlapping windows", "abcdefghij", 4, 1, []string{"abcd", "defg", "ghij"}},
		{"overlap not smaller than size", "abcdef", 3, 5, []string{"abc", "def"}},
		{"non-positive size", "abcdef", 0, 0, []string{"abcdef"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitText(tc.text, tc.size, tc.overlap))
		})
	}
}

func TestSplitText_MultiByte(t *testing.T) {
	text := strings.Repeat("é", 10)
	chunks := SplitText(text, 4, 0)

	assert.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
	}
}
