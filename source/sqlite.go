package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
	idx   INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	body  TEXT NOT NULL
);
`

// SQLite serves items from a sqlite database. Indices are dense: the row with
// idx i is item i.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// ":memory:" databases live and die with their connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	var ver int
	err = db.QueryRowContext(ctx, "SELECT version FROM schema_meta LIMIT 1").Scan(&ver)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_meta (version) VALUES (?)", schemaVersion); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("write schema version: %w", err)
		}
	case err != nil:
		_ = db.Close()
		return nil, fmt.Errorf("check schema version: %w", err)
	case ver > schemaVersion:
		_ = db.Close()
		return nil, fmt.Errorf("schema version %d is newer than supported %d", ver, schemaVersion)
	}

	return &SQLite{db: db}, nil
}

// Fill replaces the stored collection with items, renumbering them densely.
func (s *SQLite) Fill(ctx context.Context, items []Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO items (idx, title, body) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, it := range items {
		if _, err := stmt.ExecContext(ctx, i, it.Title, it.Body); err != nil {
			return fmt.Errorf("insert item %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func (s *SQLite) Get(ctx context.Context, index int) (Item, error) {
	it := Item{Index: index}
	err := s.db.QueryRowContext(ctx, "SELECT title, body FROM items WHERE idx = ?", index).
		Scan(&it.Title, &it.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, fmt.Errorf("get %d: %w", index, ErrOutOfRange)
	}
	if err != nil {
		return Item{}, fmt.Errorf("get %d: %w", index, err)
	}
	return it, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
