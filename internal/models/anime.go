// Package models contains data structures shared across the application
package models

import "strings"

// PathSeparator separates the segments of a playlist data-id ("0_0_1").
const PathSeparator = "_"

// ContentKind tells a single-file movie apart from a multi-episode series.
type ContentKind int

const (
	KindMovie ContentKind = iota
	KindSeries
)

func (k ContentKind) String() string {
	if k == KindSeries {
		return "series"
	}
	return "movie"
}

// PlaylistItem is one node of the playlist markup. Its only structural
// signal is the underscore-delimited data-id path; Label is free text in
// an uncontrolled Ukrainian/English mix.
type PlaylistItem struct {
	ID    string
	Label string
	Depth int

	// SourceURL is set for leaf items only (the data-file attribute,
	// an iframe URL of a third-party player embed).
	SourceURL string
}

// NewPlaylistItem builds an item with its depth precomputed from the id.
func NewPlaylistItem(id, label, sourceURL string) PlaylistItem {
	return PlaylistItem{
		ID:        id,
		Label:     label,
		Depth:     len(strings.Split(id, PathSeparator)),
		SourceURL: sourceURL,
	}
}

// Voice is a selectable audio/subtitle track option.
type Voice struct {
	ID   string
	Name string
}

// Player is a third-party video embed vendor offered under a voice.
type Player struct {
	ID   string
	Name string
}

// Episode is one playable unit. StreamURL starts empty and is filled
// exactly once by the extraction stage.
type Episode struct {
	Number    int
	ID        string
	SourceURL string
	StreamURL string
}

// Anime is the aggregate root for a single run.
type Anime struct {
	NewsID   string
	Title    string
	Year     int // zero when unknown
	Season   int
	Kind     ContentKind
	Voices   []Voice
	Episodes []Episode
}

// TotalEpisodes returns the number of resolved episodes.
func (a *Anime) TotalEpisodes() int {
	return len(a.Episodes)
}

// DownloadConfig holds the per-run download settings.
type DownloadConfig struct {
	AnimeURL   string
	OutputDir  string
	VoiceIndex int // 1-based, zero means interactive selection
	Title      string
	UseAria2c  bool
}
