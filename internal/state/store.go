// Package state persists the small slice of client state that survives
// restarts: the previously selected project. Everything else about a view
// session is ephemeral.
package state

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides access to the local state database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// WAL avoids writer stalls if two instances share the database.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS selection (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`)
	return err
}

const keyLastProject = "last_project"

// LastProject returns the previously selected project id, or "" when none
// has been recorded.
func (s *Store) LastProject() (string, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM selection WHERE key = ?", keyLastProject).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read last project: %w", err)
	}
	return v, nil
}

// SetLastProject records the selected project id.
func (s *Store) SetLastProject(projectID string) error {
	_, err := s.db.Exec(`
	INSERT INTO selection (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, keyLastProject, projectID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write last project: %w", err)
	}
	return nil
}
