// Package store persists fetched news items and analysis results in SQLite,
// so a batch fetched now can be analyzed or re-read later.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/1NY2/news-collector/internal/analyzer"
	"github.com/1NY2/news-collector/internal/sources"
)

// schema for the collector database. The url uniqueness is partial: items
// without a URL are always kept (they can never collide).
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    title        TEXT NOT NULL,
    url          TEXT NOT NULL DEFAULT '',
    summary      TEXT NOT NULL DEFAULT '',
    source       TEXT NOT NULL DEFAULT '',
    published_at TEXT NOT NULL DEFAULT '',
    score        INTEGER NOT NULL DEFAULT 0,
    extra        TEXT NOT NULL DEFAULT '{}',
    fetched_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_url ON items(url) WHERE url != '';
CREATE INDEX IF NOT EXISTS idx_items_source ON items(source);

CREATE TABLE IF NOT EXISTS analyses (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    summary     TEXT NOT NULL,
    result      TEXT NOT NULL,
    tokens_used INTEGER NOT NULL DEFAULT 0,
    cost        REAL NOT NULL DEFAULT 0,
    created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Store provides collector persistence.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveItems inserts items, skipping URL duplicates already on disk. Returns
// the number of newly stored rows.
func (s *Store) SaveItems(ctx context.Context, items []sources.NewsItem) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO items (title, url, summary, source, published_at, score, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	saved := 0
	for _, item := range items {
		extra, _ := json.Marshal(item.Extra)
		res, err := stmt.ExecContext(ctx, item.Title, item.URL, item.Summary,
			item.Source, item.PublishedAt, item.Score, string(extra))
		if err != nil {
			continue
		}
		n, _ := res.RowsAffected()
		saved += int(n)
	}
	return saved, tx.Commit()
}

// RecentItems returns the most recently fetched items, newest first.
func (s *Store) RecentItems(ctx context.Context, limit int) ([]sources.NewsItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, url, summary, source, published_at, score, extra
		FROM items ORDER BY fetched_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []sources.NewsItem
	for rows.Next() {
		var item sources.NewsItem
		var extraJSON string
		if err := rows.Scan(&item.Title, &item.URL, &item.Summary, &item.Source,
			&item.PublishedAt, &item.Score, &extraJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(extraJSON), &item.Extra); err != nil || item.Extra == nil {
			item.Extra = map[string]any{}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveAnalysis stores one analysis result.
func (s *Store) SaveAnalysis(ctx context.Context, result *analyzer.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (summary, result, tokens_used, cost)
		VALUES (?, ?, ?, ?)
	`, result.Summary, string(payload), result.TokensUsed, result.Cost)
	return err
}

// LatestAnalysis returns the most recent analysis, or nil when none exists.
func (s *Store) LatestAnalysis(ctx context.Context) (*analyzer.AnalysisResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT result FROM analyses ORDER BY created_at DESC, id DESC LIMIT 1
	`)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var result analyzer.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return &result, nil
}

// ItemCount returns the number of stored items.
func (s *Store) ItemCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&n)
	return n, err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
