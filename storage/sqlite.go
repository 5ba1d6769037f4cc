package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"weather-dashboard/models"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so searched_at sorts as text
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS history (
	id          TEXT PRIMARY KEY,
	city        TEXT NOT NULL,
	city_key    TEXT NOT NULL,
	searched_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS history_city_key ON history(city_key);`

// SQLiteStore persists settings and history with the pure Go modernc.org/sqlite driver
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL lets the refresher and the command loop write without blocking readers
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Printf("Warning: could not set WAL mode: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns a stored setting
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting: %w", err)
	}
	return value, true, nil
}

// Set stores a setting
func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting: %w", err)
	}
	return nil
}

// AppendHistory records a searched city, replacing earlier searches for the
// same city and keeping only the newest MaxHistory entries. Follows the same
// rules as PushHistory.
func (s *SQLiteStore) AppendHistory(ctx context.Context, entry models.HistoryEntry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	at := entry.SearchedAt.UTC().Format(timeLayout)
	key := CityKey(entry.City)

	var newer int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM history WHERE city_key = ? AND searched_at > ?`,
		key, at).Scan(&newer); err != nil {
		return fmt.Errorf("failed to check history: %w", err)
	}
	if newer > 0 {
		return tx.Commit()
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM history WHERE city_key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove duplicate history: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO history(id, city, city_key, searched_at) VALUES(?, ?, ?, ?)`,
		entry.ID, entry.City, key, at); err != nil {
		return fmt.Errorf("failed to insert history: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM history WHERE id NOT IN (
		SELECT id FROM history ORDER BY searched_at DESC LIMIT ?)`, MaxHistory); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

// ListHistory returns the searched cities, newest first, in local time
func (s *SQLiteStore) ListHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, city, searched_at FROM history ORDER BY searched_at DESC LIMIT ?`, MaxHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	out := make([]models.HistoryEntry, 0)
	for rows.Next() {
		var e models.HistoryEntry
		var ts string
		if err := rows.Scan(&e.ID, &e.City, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		if t, err := time.Parse(timeLayout, ts); err == nil {
			e.SearchedAt = t.Local()
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearHistory forgets every searched city
func (s *SQLiteStore) ClearHistory(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
