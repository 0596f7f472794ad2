package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a local SQLite database so resolved
// ratings survive across runs.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the ratings database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// The tool runs single-threaded; one connection keeps SQLite happy.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE IF NOT EXISTS ratings (
			cache_key TEXT PRIMARY KEY,
			rating_json BLOB NOT NULL,
			cached_at DATETIME NOT NULL,
			expires_at DATETIME
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ratings table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get retrieves a record by key. Expired records are deleted on read.
func (s *SQLiteStore) Get(key string) ([]byte, bool) {
	var data []byte
	var expiresAt sql.NullTime

	err := s.db.QueryRow(
		"SELECT rating_json, expires_at FROM ratings WHERE cache_key = ?",
		key,
	).Scan(&data, &expiresAt)
	if err != nil {
		return nil, false
	}

	if expiresAt.Valid && time.Now().After(expiresAt.Time) {
		s.db.Exec("DELETE FROM ratings WHERE cache_key = ?", key)
		return nil, false
	}

	return data, true
}

// Set stores a record under key, replacing any previous record for the
// same key. A zero ttl stores the record without an expiry.
func (s *SQLiteStore) Set(key string, data []byte, ttl time.Duration) error {
	now := time.Now()
	var expiresAt any
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO ratings (cache_key, rating_json, cached_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		key, data, now, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}

	return nil
}

// Clear removes all records.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM ratings"); err != nil {
		return fmt.Errorf("failed to clear ratings cache: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
