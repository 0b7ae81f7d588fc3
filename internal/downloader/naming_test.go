package downloader

import (
	"path/filepath"
	"testing"

	"github.com/alvarorichard/goanitube/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{"Avatar: The Last Airbender", "Avatar - The Last Airbender"},
		{"Fate/Stay Night", "Fate-Stay Night"},
		{`What "if"?`, "What 'if'"},
		{"A*B<C>D|E", "A-B-C-D-E"},
		{"  spaced   out  ", "spaced out"},
		{"trailing dots...", "trailing dots"},
		{"plain name", "plain name"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SanitizeFilename(tt.input), "SanitizeFilename(%q)", tt.input)
	}
}

func TestEpisodeFilename(t *testing.T) {
	t.Parallel()
	movie := &models.Anime{Title: "Your Name", Year: 2016, Kind: models.KindMovie}
	assert.Equal(t, "Your Name (2016).mp4", EpisodeFilename(movie, &models.Episode{Number: 1}))

	movie.Year = 0
	assert.Equal(t, "Your Name.mp4", EpisodeFilename(movie, &models.Episode{Number: 1}))

	series := &models.Anime{Title: "Avatar: The Last Airbender", Season: 1, Kind: models.KindSeries}
	assert.Equal(t, "Avatar - The Last Airbender S01E03.mp4",
		EpisodeFilename(series, &models.Episode{Number: 3}))

	series.Season = 12
	assert.Equal(t, "Avatar - The Last Airbender S12E10.mp4",
		EpisodeFilename(series, &models.Episode{Number: 10}))
}

func TestTempDownloadPathKeepsExtension(t *testing.T) {
	t.Parallel()
	// The marker must sit before .mp4: when yt-dlp merges video and audio
	// streams its post-processor rewrites the output extension to the merge
	// container, so a trailing marker would leave the result at a name the
	// size check never looks at.
	assert.Equal(t, filepath.Join("out", "Avatar S01E03.part.mp4"),
		tempDownloadPath(filepath.Join("out", "Avatar S01E03.mp4")))
	assert.Equal(t, "Your Name (2016).part.mp4",
		tempDownloadPath("Your Name (2016).mp4"))
	assert.Equal(t, "noext.part", tempDownloadPath("noext"))
}

func TestOutputDirMovie(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	anime := &models.Anime{Title: "Your Name", Year: 2016, Kind: models.KindMovie}

	dir, err := OutputDir(anime, base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "Your Name (2016)"), dir)
	assert.DirExists(t, dir)
}

func TestOutputDirMovieWithoutYear(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	anime := &models.Anime{Title: "Your Name", Kind: models.KindMovie}

	dir, err := OutputDir(anime, base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "Your Name"), dir)
}

func TestOutputDirSeries(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	anime := &models.Anime{Title: "Avatar: The Last Airbender", Season: 2, Kind: models.KindSeries}

	dir, err := OutputDir(anime, base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "Avatar - The Last Airbender", "Season 02"), dir)
	assert.DirExists(t, dir)
}
