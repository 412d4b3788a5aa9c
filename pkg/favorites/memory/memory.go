// Package memory implements an in-memory favorites KV.
package memory

import (
	"context"
	"sync"

	"nftfavorites/pkg/favorites"
)

// KV provides an in-memory implementation of favorites.KV.
// Records are copied on the way in and out so callers never share state with the map.
type KV struct {
	mu      sync.RWMutex
	records map[favorites.Identity]favorites.Record
}

// New creates a new in-memory KV.
func New() *KV {
	return &KV{records: make(map[favorites.Identity]favorites.Record)}
}

// Get retrieves the record for id.
func (k *KV) Get(ctx context.Context, id favorites.Identity) (favorites.Record, bool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	rec, ok := k.records[id]
	if !ok {
		return favorites.Record{}, false, nil
	}
	return favorites.Record{ID: rec.ID, Favorites: favorites.CloneItems(rec.Favorites)}, true, nil
}

// Put replaces the record for id. The stored ID is always id.
func (k *KV) Put(ctx context.Context, id favorites.Identity, rec favorites.Record) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.records[id] = favorites.Record{ID: id, Favorites: favorites.CloneItems(rec.Favorites)}
	return nil
}

// Contains reports whether a record exists for id.
func (k *KV) Contains(ctx context.Context, id favorites.Identity) (bool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	_, ok := k.records[id]
	return ok, nil
}

// Len returns the number of stored records.
func (k *KV) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.records)
}
