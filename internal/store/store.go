// Package store persists photo records and face cluster labels in a
// local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/kozaktomas/photo-organizer/internal/organizer"
)

const schema = `
CREATE TABLE IF NOT EXISTS photos (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	path     TEXT UNIQUE,
	metadata TEXT
);

CREATE TABLE IF NOT EXISTS face_labels (
	cluster_id INTEGER PRIMARY KEY,
	name       TEXT NOT NULL
);
`

// Store wraps the SQLite database holding photo records and face labels.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// UpsertPhotos stores the given records keyed by path, replacing any
// prior record for the same path. All records go in one transaction so a
// partially written scan never becomes visible.
func (s *Store) UpsertPhotos(ctx context.Context, records []*organizer.PhotoRecord) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR REPLACE INTO photos(path, metadata) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		blob, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to serialize record %s: %w", rec.Path, err)
		}
		if _, err := stmt.ExecContext(ctx, rec.Path, string(blob)); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// GetPhoto retrieves the record stored for path, or nil when absent.
func (s *Store) GetPhoto(ctx context.Context, path string) (*organizer.PhotoRecord, error) {
	var blob string
	err := s.conn.QueryRowContext(ctx, "SELECT metadata FROM photos WHERE path = ?", path).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query photo: %w", err)
	}

	var rec organizer.PhotoRecord
	if err := json.Unmarshal([]byte(blob), &rec); err != nil {
		return nil, fmt.Errorf("failed to deserialize record %s: %w", path, err)
	}
	return &rec, nil
}

// ListPhotos returns all stored records ordered by path.
func (s *Store) ListPhotos(ctx context.Context) ([]*organizer.PhotoRecord, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT metadata FROM photos ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer rows.Close()

	var records []*organizer.PhotoRecord
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		var rec organizer.PhotoRecord
		if err := json.Unmarshal([]byte(blob), &rec); err != nil {
			return nil, fmt.Errorf("failed to deserialize record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// CountPhotos returns the number of stored photo records.
func (s *Store) CountPhotos(ctx context.Context) (int, error) {
	var count int
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM photos").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return count, nil
}
