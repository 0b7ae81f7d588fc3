package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NotNil(t, store)
	defer store.Close()

	entry := Entry{
		NewsID:     "4110",
		Title:      "Avatar - The Last Airbender",
		Season:     1,
		Episode:    3,
		Path:       "/media/Avatar/Season 01/Avatar S01E03.mp4",
		Downloaded: time.Now(),
	}
	store.Record(entry)

	assert.True(t, store.Seen("4110", 1, 3))
	assert.False(t, store.Seen("4110", 1, 4))
	assert.False(t, store.Seen("9999", 1, 3))

	// Re-recording the same episode is an upsert, not an error.
	entry.Path = "/elsewhere/Avatar S01E03.mp4"
	store.Record(entry)
	assert.True(t, store.Seen("4110", 1, 3))
}

func TestNilStoreIsInert(t *testing.T) {
	t.Parallel()
	var store *Store
	store.Record(Entry{NewsID: "1"})
	assert.False(t, store.Seen("1", 1, 1))
	store.Close()
}

func TestOpenEmptyPathDisablesHistory(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Open(""))
}
