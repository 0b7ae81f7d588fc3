package playlist

import (
	"testing"

	"github.com/alvarorichard/goanitube/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name            string
		leafLabels      []string
		distinctSources int
		topItems        int
		expected        models.ContentKind
	}{
		{
			name:            "episode keyword wins",
			leafLabels:      []string{"1 серія", "2 серія"},
			distinctSources: 2,
			topItems:        2,
			expected:        models.KindSeries,
		},
		{
			name:            "english episode keyword",
			leafLabels:      []string{"Episode 1", "Episode 2"},
			distinctSources: 2,
			topItems:        1,
			expected:        models.KindSeries,
		},
		{
			name:            "more sources than top items",
			leafLabels:      []string{"a", "b", "c", "d", "e"},
			distinctSources: 5,
			topItems:        2,
			expected:        models.KindSeries,
		},
		{
			name:            "single file movie",
			leafLabels:      []string{"movie"},
			distinctSources: 1,
			topItems:        1,
			expected:        models.KindMovie,
		},
		{
			name:            "tie resolves to movie",
			leafLabels:      []string{"x", "y", "z"},
			distinctSources: 3,
			topItems:        3,
			expected:        models.KindMovie,
		},
		{
			name:            "no leaves at all",
			leafLabels:      nil,
			distinctSources: 0,
			topItems:        0,
			expected:        models.KindMovie,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.leafLabels, tt.distinctSources, tt.topItems)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsPlayerLabel(t *testing.T) {
	t.Parallel()
	assert.True(t, IsPlayerLabel("ПЛЕЄР ASHDI"))
	assert.True(t, IsPlayerLabel("плеєр Tortuga"))
	assert.True(t, IsPlayerLabel("Player 2"))
	assert.False(t, IsPlayerLabel("Озвучення від QTV"))
	assert.False(t, IsPlayerLabel("1 серія"))
}

func TestIsCategoryLabel(t *testing.T) {
	t.Parallel()
	assert.True(t, IsCategoryLabel("ОЗВУЧЕННЯ"))
	assert.True(t, IsCategoryLabel("Субтитри"))
	assert.True(t, IsCategoryLabel("Dubbing"))
	assert.True(t, IsCategoryLabel("Українською"))
	assert.False(t, IsCategoryLabel("ПЛЕЄР ASHDI"))
	assert.False(t, IsCategoryLabel("Tonis"))
}

func TestDetectShape(t *testing.T) {
	t.Parallel()

	flat := []models.PlaylistItem{
		models.NewPlaylistItem("0_0", "ПЛЕЄР ASHDI", ""),
		models.NewPlaylistItem("0_1", "ПЛЕЄР TORTUGA", ""),
	}
	shape := DetectShape(flat)
	assert.True(t, shape.AllPlayers)
	assert.Equal(t, 2, shape.MaxDepth)

	nested := []models.PlaylistItem{
		models.NewPlaylistItem("0_0", "Tonis", ""),
		models.NewPlaylistItem("0_0_0", "ПЛЕЄР ASHDI", ""),
	}
	shape = DetectShape(nested)
	assert.False(t, shape.AllPlayers)
	assert.Equal(t, 3, shape.MaxDepth)

	shape = DetectShape(nil)
	assert.False(t, shape.AllPlayers, "empty set is not the flat shape")
	assert.Equal(t, 0, shape.MaxDepth)
}
