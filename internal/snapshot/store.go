// Package snapshot caches the last successful response per read view in
// a local sqlite database, so list and detail views can fall back to
// stale data when the remote API is unreachable. A cached view is valid
// only until the next successful fetch overwrites it.
package snapshot

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the sqlite connection.
type Store struct {
	db *sql.DB
}

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS snapshots (
	view TEXT PRIMARY KEY,
	body BLOB NOT NULL,
	fetched_at DATETIME NOT NULL
);
`

// Open creates or opens the snapshot database at path, creating the
// parent directory if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec(createSnapshotsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &Store{db: db}, nil
}

// Put stores v as the latest snapshot for view, replacing any previous one.
func (s *Store) Put(view string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO snapshots (view, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(view) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		view, body, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// Get decodes the stored snapshot for view into out and reports when it
// was fetched. The second return is false when no snapshot exists.
func (s *Store) Get(view string, out any) (time.Time, bool, error) {
	var body []byte
	var fetchedAt time.Time
	err := s.db.QueryRow(`SELECT body, fetched_at FROM snapshots WHERE view = ?`, view).
		Scan(&body, &fetchedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return time.Time{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return fetchedAt, true, nil
}

// Delete drops the snapshot for view, if any.
func (s *Store) Delete(view string) error {
	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE view = ?`, view); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
