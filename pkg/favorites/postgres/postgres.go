package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nftfavorites/pkg/favorites"
)

// KV persists favorites records in PostgreSQL. The favorites table is created
// by the migrations in package migrations.
type KV struct {
	db *sql.DB
}

// New creates a PostgreSQL KV.
func New(db *sql.DB) *KV {
	return &KV{db: db}
}

const (
	selectSQL   = `SELECT favorites FROM favorites WHERE id = $1`
	containsSQL = `SELECT EXISTS (SELECT 1 FROM favorites WHERE id = $1)`
	upsertSQL   = `
INSERT INTO favorites (id, favorites, updated_at)
VALUES ($1, $2::jsonb, NOW())
ON CONFLICT (id) DO UPDATE SET
    favorites = EXCLUDED.favorites,
    updated_at = NOW()`
)

// Get retrieves the record for id.
func (k *KV) Get(ctx context.Context, id favorites.Identity) (favorites.Record, bool, error) {
	var raw []byte
	err := k.db.QueryRowContext(ctx, selectSQL, id.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return favorites.Record{}, false, nil
	}
	if err != nil {
		return favorites.Record{}, false, fmt.Errorf("select favorites: %w", err)
	}
	items, err := favorites.DecodeFavorites(raw)
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
	if _, err := k.db.ExecContext(ctx, upsertSQL, id.String(), string(raw)); err != nil {
		return fmt.Errorf("upsert favorites: %w", err)
	}
	return nil
}

// Contains reports whether a record exists for id.
func (k *KV) Contains(ctx context.Context, id favorites.Identity) (bool, error) {
	var ok bool
	if err := k.db.QueryRowContext(ctx, containsSQL, id.String()).Scan(&ok); err != nil {
		return false, fmt.Errorf("check favorites: %w", err)
	}
	return ok, nil
}
