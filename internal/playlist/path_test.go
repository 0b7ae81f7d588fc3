package playlist

import (
	"testing"

	"github.com/alvarorichard/goanitube/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDepth(t *testing.T) {
	t.Parallel()
	tests := []struct {
		id       string
		expected int
	}{
		{"0", 1},
		{"0_0", 2},
		{"0_0_1", 3},
		{"12_3_4_5", 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Depth(tt.id), "Depth(%q)", tt.id)
	}
}

func TestUnderIsSegmentAware(t *testing.T) {
	t.Parallel()
	tests := []struct {
		id, parent string
		expected   bool
	}{
		{"0_0", "0_0", true},
		{"0_0_1", "0_0", true},
		{"0_0_1_2", "0_0", true},
		{"0_10", "0_1", false}, // raw prefix, not a segment prefix
		{"0_1", "0_1", true},
		{"0_1_5", "0_1", true},
		{"1_0", "0", false},
		{"0", "0_0", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Under(tt.id, tt.parent),
			"Under(%q, %q)", tt.id, tt.parent)
	}
}

func TestIsDirectChild(t *testing.T) {
	t.Parallel()
	assert.True(t, IsDirectChild("0", "0_1"))
	assert.True(t, IsDirectChild("0_0", "0_0_3"))
	assert.False(t, IsDirectChild("0", "0_1_2"), "grandchild is not direct")
	assert.False(t, IsDirectChild("0_1", "0_10"), "0_10 is a sibling of 0_1")
	assert.False(t, IsDirectChild("0", "0"))
}

func TestChildrenOfPreservesInputOrder(t *testing.T) {
	t.Parallel()
	items := []models.PlaylistItem{
		models.NewPlaylistItem("0_0", "a", ""),
		models.NewPlaylistItem("0_0_2", "b", ""),
		models.NewPlaylistItem("0_0_0", "c", ""),
		models.NewPlaylistItem("0_1", "d", ""),
		models.NewPlaylistItem("0_0_1", "e", ""),
	}
	children := ChildrenOf(items, "0_0")
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"0_0_2", "0_0_0", "0_0_1"}, ids)
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0_1", Truncate("0_1_2_3", 2))
	assert.Equal(t, "0", Truncate("0_1", 1))
	assert.Equal(t, "0_1", Truncate("0_1", 3), "shorter ids pass through")
	assert.Equal(t, "0_1", Truncate("0_1", 2))
}

func TestMaxDepth(t *testing.T) {
	t.Parallel()
	items := []models.PlaylistItem{
		models.NewPlaylistItem("0", "a", ""),
		models.NewPlaylistItem("0_0_1", "b", ""),
		models.NewPlaylistItem("0_1", "c", ""),
	}
	assert.Equal(t, 3, MaxDepth(items))
	assert.Equal(t, 0, MaxDepth(nil))
}
