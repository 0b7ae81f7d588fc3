package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestExtractNewsID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		url      string
		expected string
		wantErr  bool
	}{
		{"https://anitube.in.ua/4110-volodar-persniv.html", "4110", false},
		{"https://anitube.in.ua/anime/123-some-title.html", "123", false},
		{"https://anitube.in.ua/", "", true},
		{"https://anitube.in.ua/anime.html", "", true},
	}
	for _, tt := range tests {
		id, err := ExtractNewsID(tt.url)
		if tt.wantErr {
			assert.Error(t, err, "ExtractNewsID(%q)", tt.url)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, id)
	}
}

func TestExtractLoginHash(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abc123",
		extractLoginHash(`<script>var dle_login_hash = 'abc123';</script>`))
	assert.Equal(t, "def456",
		extractLoginHash(`ajax({user_hash: "def456"})`))
	assert.Empty(t, extractLoginHash(`<html>no hash anywhere</html>`))
}

func TestExtractTitlePrefersTweetText(t *testing.T) {
	t.Parallel()
	d := doc(t, `<html><head>
		<meta property="og:title" content="Аватар: Останній захисник"/>
	</head><body>
		<a href="https://twitter.com/intent/tweet?text=%D0%90%D0%B2%D0%B0%D1%82%D0%B0%D1%80%20%2F%20Avatar%3A%20The%20Last%20Airbender%20https%3A%2F%2Fanitube.in.ua%2F1.html">tweet</a>
		<h1 class="title">Аватар</h1>
	</body></html>`)
	assert.Equal(t, "Avatar: The Last Airbender", extractTitle(d))
}

func TestExtractTitleFallbacks(t *testing.T) {
	t.Parallel()
	d := doc(t, `<html><head><meta property="og:title" content="OG Name"/></head></html>`)
	assert.Equal(t, "OG Name", extractTitle(d))

	d = doc(t, `<html><body><h1 class="title"> Page H1 </h1></body></html>`)
	assert.Equal(t, "Page H1", extractTitle(d))

	d = doc(t, `<html><body><h1>Bare H1</h1></body></html>`)
	assert.Equal(t, "Bare H1", extractTitle(d))

	d = doc(t, `<html><body></body></html>`)
	assert.Equal(t, "Unknown", extractTitle(d))
}

func TestExtractTitleSkipsUkrainianOnlyTweet(t *testing.T) {
	t.Parallel()
	// No " / " separator means no English half to prefer.
	d := doc(t, `<html><body>
		<a href="https://twitter.com/intent/tweet?text=%D0%9D%D0%B0%D0%B7%D0%B2%D0%B0"></a>
		<h1>Fallback Name</h1>
	</body></html>`)
	assert.Equal(t, "Fallback Name", extractTitle(d))
}

func TestExtractSeason(t *testing.T) {
	t.Parallel()
	tests := []struct {
		title    string
		expected int
	}{
		{"Attack on Titan Season 4", 4},
		{"Attack on Titan S2", 2},
		{"Мандалорець 3", 3},
		{"One Piece", 1},
		{"", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, extractSeason(tt.title), "extractSeason(%q)", tt.title)
	}
}

func TestBaseTitle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		title    string
		expected string
	}{
		{"Attack on Titan Season 4", "Attack on Titan"},
		{"Attack on Titan S2", "Attack on Titan"},
		{"Мандалорець 3", "Мандалорець"},
		{"One Piece", "One Piece"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, baseTitle(tt.title), "baseTitle(%q)", tt.title)
	}
}

func TestExtractYear(t *testing.T) {
	t.Parallel()
	d := doc(t, `<html><head>
		<meta property="video:release_date" content="2019-04-05"/>
	</head><body>Рік виходу: 2021</body></html>`)
	assert.Equal(t, 2019, extractYear(d), "release_date meta wins")

	d = doc(t, `<html><body>Рік виходу: 2021</body></html>`)
	assert.Equal(t, 2021, extractYear(d))

	d = doc(t, `<html><body>no year here</body></html>`)
	assert.Equal(t, 0, extractYear(d))
}
