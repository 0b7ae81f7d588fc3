package downloader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alvarorichard/goanitube/internal/models"
)

var multiSpacePattern = regexp.MustCompile(`\s+`)

// filenameReplacements maps characters that break at least one common
// filesystem. Colons become " -" so subtitles like "Book 1: Water" stay
// readable.
var filenameReplacements = []struct {
	from, to string
}{
	{":", " -"},
	{"/", "-"},
	{"\\", "-"},
	{"|", "-"},
	{"?", ""},
	{"*", ""},
	{"<", ""},
	{">", ""},
	{`"`, "'"},
}

// SanitizeFilename makes a name safe for every filesystem the output may
// land on.
func SanitizeFilename(name string) string {
	for _, r := range filenameReplacements {
		name = strings.ReplaceAll(name, r.from, r.to)
	}
	name = strings.Trim(name, ". ")
	return multiSpacePattern.ReplaceAllString(name, " ")
}

// tempDownloadPath names the in-progress transfer for finalPath. The part
// marker sits before the extension, not after it: yt-dlp's merge step
// rewrites the output extension to the merge container, so a trailing
// marker would make the merged file land beside the expected temp name.
func tempDownloadPath(finalPath string) string {
	ext := filepath.Ext(finalPath)
	return strings.TrimSuffix(finalPath, ext) + ".part" + ext
}

// OutputDir creates and returns the output directory for a run following
// media-server layout: movies get "Title (Year)/", series get
// "Title/Season NN/".
func OutputDir(anime *models.Anime, baseDir string) (string, error) {
	var dir string
	if anime.Kind == models.KindMovie {
		folder := anime.Title
		if anime.Year > 0 {
			folder = fmt.Sprintf("%s (%d)", anime.Title, anime.Year)
		}
		dir = filepath.Join(baseDir, SanitizeFilename(folder))
	} else {
		season := fmt.Sprintf("Season %02d", anime.Season)
		dir = filepath.Join(baseDir, SanitizeFilename(anime.Title), season)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

// EpisodeFilename names one output file: "Title (Year).mp4" for movies,
// "Title SnnEnn.mp4" for series.
func EpisodeFilename(anime *models.Anime, episode *models.Episode) string {
	var name string
	if anime.Kind == models.KindMovie {
		if anime.Year > 0 {
			name = fmt.Sprintf("%s (%d).mp4", anime.Title, anime.Year)
		} else {
			name = fmt.Sprintf("%s.mp4", anime.Title)
		}
	} else {
		name = fmt.Sprintf("%s S%02dE%02d.mp4", anime.Title, anime.Season, episode.Number)
	}
	return SanitizeFilename(name)
}
