// Package redis stores favorites records as JSON values in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"nftfavorites/pkg/favorites"
)

// DefaultPrefix namespaces record keys.
const DefaultPrefix = "favorites:"

// KV persists favorites records in Redis under <prefix><identity>.
type KV struct {
	client goredis.UniversalClient
	prefix string
}

// New creates a Redis KV. An empty prefix selects DefaultPrefix.
func New(client goredis.UniversalClient, prefix string) *KV {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &KV{client: client, prefix: prefix}
}

func (k *KV) key(id favorites.Identity) string {
	return k.prefix + id.String()
}

// Get retrieves the record for id.
func (k *KV) Get(ctx context.Context, id favorites.Identity) (favorites.Record, bool, error) {
	raw, err := k.client.Get(ctx, k.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return favorites.Record{}, false, nil
	}
	if err != nil {
		return favorites.Record{}, false, fmt.Errorf("redis get: %w", err)
	}
	rec, err := favorites.DecodeRecord(raw)
	if err != nil {
		return favorites.Record{}, false, err
	}
	rec.ID = id
	return rec, true, nil
}

// Put replaces the record for id. Records never expire.
func (k *KV) Put(ctx context.Context, id favorites.Identity, rec favorites.Record) error {
	raw, err := favorites.EncodeRecord(id, rec)
	if err != nil {
		return err
	}
	if err := k.client.Set(ctx, k.key(id), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Contains reports whether a record exists for id.
func (k *KV) Contains(ctx context.Context, id favorites.Identity) (bool, error) {
	n, err := k.client.Exists(ctx, k.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
