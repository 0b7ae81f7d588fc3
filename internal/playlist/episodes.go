package playlist

import (
	"github.com/alvarorichard/goanitube/internal/models"
)

// Episodes resolves the playable leaves for a chosen voice and optional
// player. An empty result is a valid "no episodes found" outcome, never an
// error; the caller decides how to report it.
//
// Numbering is strictly sequential in DOM order. Digits embedded in labels
// are unreliable free text and never drive ordering or identity.
func Episodes(leaves []models.PlaylistItem, voiceID, playerID string, kind models.ContentKind, shape Shape) []models.Episode {
	if kind == models.KindMovie {
		return movieEpisodes(leaves, voiceID, playerID, shape)
	}
	return seriesEpisodes(leaves, voiceID, playerID)
}

func movieEpisodes(leaves []models.PlaylistItem, voiceID, playerID string, shape Shape) []models.Episode {
	var episodes []models.Episode

	if shape.AllPlayers {
		// Flat shape: the chosen voice IS the player and the leaf carrying
		// its exact id is the single movie file.
		for _, leaf := range leaves {
			if leaf.SourceURL == "" || leaf.ID != voiceID {
				continue
			}
			episodes = append(episodes, models.Episode{
				Number:    1,
				ID:        leaf.ID,
				SourceURL: leaf.SourceURL,
			})
		}
		return episodes
	}

	// Nested shape: everything under the voice, narrowed by the player when
	// one was chosen. Without a player the result is ambiguous on purpose;
	// the player-selection step re-invokes with a player id.
	for _, leaf := range leaves {
		if leaf.SourceURL == "" || !Under(leaf.ID, voiceID) {
			continue
		}
		if playerID != "" && !Under(leaf.ID, playerID) {
			continue
		}
		episodes = append(episodes, models.Episode{
			Number:    1,
			ID:        leaf.ID,
			SourceURL: leaf.SourceURL,
		})
	}
	return episodes
}

func seriesEpisodes(leaves []models.PlaylistItem, voiceID, playerID string) []models.Episode {
	if playerID == "" {
		playerID = resolveSeriesPlayer(leaves, voiceID)
		if playerID == "" {
			return nil
		}
	}

	var episodes []models.Episode
	for _, leaf := range leaves {
		if leaf.SourceURL == "" || !Under(leaf.ID, playerID) {
			continue
		}
		episodes = append(episodes, models.Episode{
			Number:    len(episodes) + 1,
			ID:        leaf.ID,
			SourceURL: leaf.SourceURL,
		})
	}
	return episodes
}

// resolveSeriesPlayer picks the player id for a voice when none was chosen.
// If any leaf carries the voice id itself the voice doubles as the player
// (the "direct" case); otherwise the first leaf under the voice, in DOM
// order, donates its id truncated to one level below the voice.
func resolveSeriesPlayer(leaves []models.PlaylistItem, voiceID string) string {
	for _, leaf := range leaves {
		if leaf.ID == voiceID {
			return voiceID
		}
	}
	playerDepth := Depth(voiceID) + 1
	for _, leaf := range leaves {
		if Under(leaf.ID, voiceID) && leaf.Depth >= playerDepth {
			return Truncate(leaf.ID, playerDepth)
		}
	}
	return ""
}
