package scraper

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/alvarorichard/goanitube/internal/models"
	"github.com/alvarorichard/goanitube/internal/playlist"
	"github.com/alvarorichard/goanitube/internal/util"
	"github.com/pkg/errors"
)

// fallbackVoiceName labels the synthetic voice of old-format pages that
// embed a single player iframe instead of a playlist.
const fallbackVoiceName = "Єдина озвучка"

var embeddedIframePattern = regexp.MustCompile(`(ashdi|tortuga|monster)`)

// playlistEnvelope is the JSON wrapper some responses arrive in. Others
// are the HTML fragment directly.
type playlistEnvelope struct {
	Success *bool  `json:"success"`
	Response string `json:"response"`
}

// Snapshot is one fetched playlist: the raw fragment plus its parsed item
// lists and the structural facts derived from them. Later player and
// episode queries re-read this value instead of re-fetching the page.
type Snapshot struct {
	HTML   string
	Items  []models.PlaylistItem // voice/player nodes
	Leaves []models.PlaylistItem // playable nodes carrying data-file
	Kind   models.ContentKind
	Shape  playlist.Shape
}

// Voices resolves the selectable voice tracks of this snapshot.
func (s *Snapshot) Voices() []models.Voice {
	return playlist.Voices(s.Items, s.Kind, s.Shape)
}

// PlayersFor resolves the player embeds under a voice. Empty means the
// voice doubles as the player.
func (s *Snapshot) PlayersFor(voiceID string) []models.Player {
	return playlist.PlayersFor(s.Items, voiceID)
}

// Episodes resolves the playable episodes for a selection. Resolving the
// same selection twice yields an identical ordered list.
func (s *Snapshot) Episodes(voiceID, playerID string) []models.Episode {
	return playlist.Episodes(s.Leaves, voiceID, playerID, s.Kind, s.Shape)
}

// FetchPlaylist fetches and parses the playlist for anime, populating its
// kind and voice list, and returns the snapshot for later episode and
// player queries. Old-format pages without an AJAX playlist fall back to
// the embedded iframe.
func (c *Client) FetchPlaylist(ctx context.Context, anime *models.Anime) (*Snapshot, error) {
	if c.animeURL == "" {
		return nil, errors.New("anime URL not set: call FetchMetadata first")
	}

	body, err := c.fetchPlaylistFragment(ctx, anime.NewsID)
	if err != nil {
		return nil, err
	}

	html := body
	var envelope playlistEnvelope
	if err := json.Unmarshal([]byte(body), &envelope); err == nil {
		if (envelope.Success != nil && !*envelope.Success) || envelope.Response == "" {
			util.Info("AJAX playlist not available, trying embedded iframe")
			return c.embeddedIframeFallback(ctx, anime)
		}
		html = envelope.Response
	}

	snapshot, err := parseSnapshot(html)
	if err != nil {
		return nil, err
	}

	anime.Kind = snapshot.Kind
	anime.Voices = snapshot.Voices()

	util.Debugf("playlist: %d items, %d leaves, %d voices, type=%s",
		len(snapshot.Items), len(snapshot.Leaves), len(anime.Voices), anime.Kind)
	return snapshot, nil
}

// parseSnapshot parses a playlist HTML fragment into its item lists and
// derives the content kind and shape.
func parseSnapshot(html string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse playlist fragment")
	}

	snapshot := &Snapshot{HTML: html}

	doc.Find(".playlists-lists .playlists-items li").Each(func(i int, s *goquery.Selection) {
		id, _ := s.Attr("data-id")
		label := strings.TrimSpace(s.Text())
		if id == "" || label == "" {
			return
		}
		snapshot.Items = append(snapshot.Items, models.NewPlaylistItem(id, label, ""))
	})

	distinctSources := make(map[string]struct{})
	var leafLabels []string
	doc.Find(".playlists-videos .playlists-items li").Each(func(i int, s *goquery.Selection) {
		id, _ := s.Attr("data-id")
		file, _ := s.Attr("data-file")
		label := strings.TrimSpace(s.Text())
		leafLabels = append(leafLabels, label)
		if id == "" || file == "" {
			return
		}
		distinctSources[file] = struct{}{}
		snapshot.Leaves = append(snapshot.Leaves, models.NewPlaylistItem(id, label, file))
	})

	snapshot.Kind = playlist.Classify(leafLabels, len(distinctSources), len(snapshot.Items))
	snapshot.Shape = playlist.DetectShape(snapshot.Items)
	return snapshot, nil
}

// embeddedIframeFallback handles old-format pages: a single player iframe
// on the anime page itself means one voice, one file, movie.
func (c *Client) embeddedIframeFallback(ctx context.Context, anime *models.Anime) (*Snapshot, error) {
	html, err := c.get(ctx, c.animeURL, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to re-fetch anime page")
	}

	snapshot, err := iframeSnapshot(html)
	if err != nil {
		return nil, err
	}

	anime.Kind = snapshot.Kind
	anime.Voices = snapshot.Voices()
	return snapshot, nil
}

// iframeSnapshot builds a synthetic one-voice movie snapshot around the
// first known player iframe on the page. No iframe yields an empty movie
// snapshot with no voices.
func iframeSnapshot(html string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse anime page")
	}

	var iframeURL string
	doc.Find("iframe").EachWithBreak(func(i int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if src != "" && embeddedIframePattern.MatchString(src) {
			iframeURL = src
			return false
		}
		return true
	})
	if iframeURL == "" {
		util.Warn("no embedded iframe found on page")
		return &Snapshot{Kind: models.KindMovie}, nil
	}
	if !strings.HasPrefix(iframeURL, "http") {
		iframeURL = "https:" + iframeURL
	}

	util.Infof("using embedded iframe: %s", iframeURL)
	return &Snapshot{
		Items:  []models.PlaylistItem{models.NewPlaylistItem("0", fallbackVoiceName, "")},
		Leaves: []models.PlaylistItem{models.NewPlaylistItem("0", fallbackVoiceName, iframeURL)},
		Kind:   models.KindMovie,
		Shape:  playlist.Shape{AllPlayers: true, MaxDepth: 1},
	}, nil
}
