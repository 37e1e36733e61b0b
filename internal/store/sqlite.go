package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmylchreest/menucart/pkg/menu"
	_ "modernc.org/sqlite" // Pure Go sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS menus (
	key          TEXT PRIMARY KEY,
	week         INTEGER,
	title        TEXT NOT NULL,
	document     TEXT NOT NULL,
	generated_at TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_menus_week ON menus(week);
`

// SQLiteStore keeps results as JSON documents in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save upserts res under key.
func (s *SQLiteStore) Save(ctx context.Context, key string, res *menu.Result) error {
	doc, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	var week sql.NullInt64
	if res.Week != nil {
		week = sql.NullInt64{Int64: int64(*res.Week), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO menus (key, week, title, document, generated_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			week = excluded.week,
			title = excluded.title,
			document = excluded.document,
			generated_at = excluded.generated_at,
			updated_at = excluded.updated_at`,
		key, week, res.Title, string(doc), res.Generated.UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Get loads the result stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*menu.Result, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM menus WHERE key = ?`, key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	var res menu.Result
	if err := json.Unmarshal([]byte(doc), &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return &res, nil
}

// Keys lists stored keys, weekly menus first by week descending.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM menus ORDER BY week IS NULL, week DESC, key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Name returns "sqlite".
func (s *SQLiteStore) Name() string { return "sqlite" }
