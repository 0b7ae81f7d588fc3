package playlist

import (
	"github.com/alvarorichard/goanitube/internal/models"
)

// Voices resolves the selectable voice tracks from the flat item list.
//
// Flat shape: every item is a player, and each player doubles as a voice,
// so all items come back in input order for both kinds. Nested shape:
// non-player items form the voice layer; the exact filter differs between
// movie and series because series playlists carry category headers and a
// distinct player level at max depth.
func Voices(items []models.PlaylistItem, kind models.ContentKind, shape Shape) []models.Voice {
	if shape.AllPlayers {
		voices := make([]models.Voice, 0, len(items))
		for _, item := range items {
			voices = append(voices, models.Voice{ID: item.ID, Name: item.Label})
		}
		return voices
	}
	if kind == models.KindMovie {
		return movieVoices(items, shape)
	}
	return seriesVoices(items, shape)
}

func movieVoices(items []models.PlaylistItem, shape Shape) []models.Voice {
	var voices []models.Voice
	for _, item := range items {
		if IsPlayerLabel(item.Label) {
			continue
		}
		if item.Depth >= shape.MaxDepth {
			continue
		}
		voices = append(voices, models.Voice{ID: item.ID, Name: item.Label})
	}
	return voices
}

func seriesVoices(items []models.PlaylistItem, shape Shape) []models.Voice {
	var voices []models.Voice
	for _, item := range items {
		if IsPlayerLabel(item.Label) || IsCategoryLabel(item.Label) {
			continue
		}
		// Items at max depth are players when a separate player layer can
		// exist at all. A two-level tree has no room for both a voice and a
		// player layer distinct from the leaf, so its max-depth items stay
		// eligible as voices.
		if item.Depth == shape.MaxDepth && shape.MaxDepth > 2 {
			continue
		}
		voices = append(voices, models.Voice{ID: item.ID, Name: item.Label})
	}
	return voices
}

// PlayersFor returns the player embeds offered under a voice: the items
// exactly one level below it, in input order. An empty result is valid and
// means the voice doubles as the player.
func PlayersFor(items []models.PlaylistItem, voiceID string) []models.Player {
	var players []models.Player
	for _, item := range ChildrenOf(items, voiceID) {
		players = append(players, models.Player{ID: item.ID, Name: item.Label})
	}
	return players
}
