package playlist

import (
	"strings"

	"github.com/alvarorichard/goanitube/internal/models"
)

// Keyword sets scraped labels are matched against. The site mixes Ukrainian
// and English freely, so both spellings are carried everywhere.
var (
	seriesKeywords = []string{"СЕРІЯ", "EPISODE", "ЕПІЗОД"}
	playerKeywords = []string{"ПЛЕЄР", "PLAYER"}

	// Category headers are decorative group containers, never selectable.
	categoryKeywords = []string{
		"ОЗВУЧЕННЯ",
		"СУБТИТРИ",
		"DUBBING",
		"SUBTITLES",
		"УКРАЇНСЬКОЮ",
		"RUSSIAN",
		"ENGLISH",
	}
)

func matchesAny(label string, keywords []string) bool {
	upper := strings.ToUpper(label)
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// IsPlayerLabel reports whether a label names a player embed.
func IsPlayerLabel(label string) bool {
	return matchesAny(label, playerKeywords)
}

// IsCategoryLabel reports whether a label is a decorative group header.
func IsCategoryLabel(label string) bool {
	return matchesAny(label, categoryKeywords)
}

// Classify decides movie vs series from leaf labels and cardinality.
//
// Decision order: an explicit episode keyword wins; otherwise more distinct
// backing files than top-level voice/player slots implies episodes exist
// beyond a 1:1 voice-to-file mapping; otherwise the content defaults to a
// single-file movie. An explicit movie label is consistent with the default.
// Ties (distinctSources == topItems) resolve to movie; without labels the
// two cases cannot be told apart.
func Classify(leafLabels []string, distinctSources, topItems int) models.ContentKind {
	for _, label := range leafLabels {
		if matchesAny(label, seriesKeywords) {
			return models.KindSeries
		}
	}
	if distinctSources > topItems {
		return models.KindSeries
	}
	return models.KindMovie
}

// Shape captures the structural predicates of one playlist fetch. They are
// computed once and passed into the resolvers instead of re-scanning labels
// at every branch.
type Shape struct {
	// AllPlayers is true when every item's label matches a player keyword:
	// the flat shape where each item is simultaneously voice and player.
	AllPlayers bool
	// MaxDepth is the greatest id depth present.
	MaxDepth int
}

// DetectShape computes the structural predicates for an item set.
func DetectShape(items []models.PlaylistItem) Shape {
	shape := Shape{AllPlayers: len(items) > 0, MaxDepth: MaxDepth(items)}
	for _, item := range items {
		if !IsPlayerLabel(item.Label) {
			shape.AllPlayers = false
			break
		}
	}
	return shape
}
