// Package history keeps a local record of completed downloads
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/alvarorichard/goanitube/internal/util"
	_ "github.com/mattn/go-sqlite3"
)

const (
	busyTimeout      = 5000 // milliseconds
	defaultCacheSize = -2000
	maxOpenConns     = 2
)

// Entry is one completed download.
type Entry struct {
	NewsID     string
	Title      string
	Season     int
	Episode    int
	Path       string
	Downloaded time.Time
}

// Store records completed downloads in a local sqlite database. A nil
// Store is valid and records nothing, so a failed open degrades to
// "history disabled" instead of failing the run.
type Store struct {
	db *sql.DB
}

// DefaultPath is the history database location under the user's home.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "goanitube", "history.db")
}

// Open opens (creating if needed) the history database. Any failure is
// logged at debug level and yields a nil Store.
func Open(dbPath string) *Store {
	if dbPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		util.Debugf("history disabled: %v", err)
		return nil
	}

	// sqlite wants forward slashes in URI paths on Windows
	uriPath := dbPath
	if runtime.GOOS == "windows" {
		uriPath = strings.ReplaceAll(dbPath, "\\", "/")
	}
	dsn := fmt.Sprintf(
		"file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=%d&_cache_size=%d",
		uriPath, busyTimeout, defaultCacheSize,
	)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		util.Debugf("history disabled: %v", err)
		return nil
	}
	db.SetMaxOpenConns(maxOpenConns)

	const schema = `
		CREATE TABLE IF NOT EXISTS downloads (
			news_id     TEXT NOT NULL,
			title       TEXT NOT NULL,
			season      INTEGER NOT NULL,
			episode     INTEGER NOT NULL,
			path        TEXT NOT NULL,
			downloaded  TIMESTAMP NOT NULL,
			PRIMARY KEY (news_id, season, episode)
		);
	`
	if _, err := db.Exec(schema); err != nil {
		util.Debugf("history disabled: %v", err)
		_ = db.Close()
		return nil
	}

	return &Store{db: db}
}

// Close releases the database handle.
func (s *Store) Close() {
	if s == nil || s.db == nil {
		return
	}
	_ = s.db.Close()
}

// Record upserts one completed download.
func (s *Store) Record(e Entry) {
	if s == nil || s.db == nil {
		return
	}
	const upsert = `
		INSERT INTO downloads (news_id, title, season, episode, path, downloaded)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (news_id, season, episode) DO UPDATE SET
			path = excluded.path,
			downloaded = excluded.downloaded;
	`
	if _, err := s.db.Exec(upsert,
		e.NewsID, e.Title, e.Season, e.Episode, e.Path, e.Downloaded); err != nil {
		util.Debugf("failed to record download: %v", err)
	}
}

// Seen reports whether an episode was downloaded by a previous run.
func (s *Store) Seen(newsID string, season, episode int) bool {
	if s == nil || s.db == nil {
		return false
	}
	const query = `
		SELECT COUNT(*) FROM downloads
		WHERE news_id = ? AND season = ? AND episode = ?;
	`
	var count int
	if err := s.db.QueryRow(query, newsID, season, episode).Scan(&count); err != nil {
		util.Debugf("history query failed: %v", err)
		return false
	}
	return count > 0
}
