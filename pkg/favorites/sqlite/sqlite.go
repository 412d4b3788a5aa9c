// Package sqlite persists favorites records in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"nftfavorites/pkg/favorites"
)

//go:embed schema.sql
var schemaSQL string

// KV is a favorites.KV backed by SQLite in WAL mode.
type KV struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies the schema.
// It is safe to call on an existing database.
func Open(path string) (*KV, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &KV{db: db}, nil
}

// Close closes the database.
func (k *KV) Close() error {
	if k.db == nil {
		return nil
	}
	return k.db.Close()
}

// Get retrieves the record for id.
func (k *KV) Get(ctx context.Context, id favorites.Identity) (favorites.Record, bool, error) {
	var raw string
	err := k.db.QueryRowContext(ctx, `SELECT favorites FROM favorites WHERE id = ?`, id.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return favorites.Record{}, false, nil
	}
	if err != nil {
		return favorites.Record{}, false, fmt.Errorf("select favorites: %w", err)
	}
	items, err := favorites.DecodeFavorites([]byte(raw))
	if err != nil {
		return favorites.Record{}, false, err
	}
	return favorites.Record{ID: id, Favorites: items}, true, nil
}

// Put upserts the record for id.
func (k *KV) Put(ctx context.Context, id favorites.Identity, rec favorites.Record) error {
	raw, err := favorites.EncodeFavorites(rec.Favorites)
	if err != nil {
		return err
	}
	_, err = k.db.ExecContext(ctx, `
INSERT INTO favorites (id, favorites) VALUES (?, ?)
ON CONFLICT (id) DO UPDATE SET
    favorites = excluded.favorites,
    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`, id.String(), string(raw))
	if err != nil {
		return fmt.Errorf("upsert favorites: %w", err)
	}
	return nil
}

// Contains reports whether a record exists for id.
func (k *KV) Contains(ctx context.Context, id favorites.Identity) (bool, error) {
	var ok bool
	if err := k.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM favorites WHERE id = ?)`, id.String()).Scan(&ok); err != nil {
		return false, fmt.Errorf("check favorites: %w", err)
	}
	return ok, nil
}
