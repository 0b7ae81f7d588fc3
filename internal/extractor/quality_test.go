package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestQuality(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "picks highest resolution",
			input:    "[360p]https://a/360,[720p]https://a/720,[1080p]https://a/1080",
			expected: "https://a/1080",
		},
		{
			name:     "order in the list does not matter",
			input:    "[1080p]https://a/1080,[360p]https://a/360",
			expected: "https://a/1080",
		},
		{
			name:     "strips trailing slash from the winner",
			input:    "[480p]https://a/480,[720p]https://a/720/",
			expected: "https://a/720",
		},
		{
			name:     "no p suffix",
			input:    "[360]https://a/360,[720]https://a/720",
			expected: "https://a/720",
		},
		{
			name:     "single variant",
			input:    "[480p]https://a/480",
			expected: "https://a/480",
		},
		{
			name:     "bare url passes through",
			input:    "https://a/plain.m3u8",
			expected: "https://a/plain.m3u8",
		},
		{
			name:     "empty passes through",
			input:    "",
			expected: "",
		},
		{
			name:     "unreadable bracket format passes through",
			input:    "[hd]https://a/video",
			expected: "[hd]https://a/video",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, BestQuality(tt.input))
		})
	}
}
