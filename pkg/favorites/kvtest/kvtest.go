// Package kvtest holds the behaviour every favorites.KV backend must share.
package kvtest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"nftfavorites/pkg/favorites"
)

// Run exercises kv against the KV contract and the Store built on it.
func Run(t *testing.T, kv favorites.KV) {
	t.Helper()

	t.Run("missing", func(t *testing.T) {
		ctx := context.Background()
		id := uuid.New()

		ok, err := kv.Contains(ctx, id)
		require.NoError(t, err)
		require.False(t, ok)

		_, ok, err = kv.Get(ctx, id)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("put replaces and stamps id", func(t *testing.T) {
		ctx := context.Background()
		id := uuid.New()

		require.NoError(t, kv.Put(ctx, id, favorites.Record{ID: uuid.New(), Favorites: []favorites.Item{{Name: "A", Symbol: "a"}}}))
		require.NoError(t, kv.Put(ctx, id, favorites.Record{Favorites: []favorites.Item{{Name: "B", Symbol: "b"}, {Name: "C", Symbol: "c"}}}))

		rec, ok, err := kv.Get(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, id, rec.ID)
		require.Equal(t, []favorites.Item{{Name: "B", Symbol: "b"}, {Name: "C", Symbol: "c"}}, rec.Favorites)
	})

	t.Run("empty record survives", func(t *testing.T) {
		ctx := context.Background()
		id := uuid.New()

		require.NoError(t, kv.Put(ctx, id, favorites.Record{}))
		ok, err := kv.Contains(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)

		rec, ok, err := kv.Get(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, rec.Favorites)
		require.Empty(t, rec.Favorites)
	})

	t.Run("store round trip", func(t *testing.T) {
		ctx := context.Background()
		store := favorites.NewStore(kv)
		id := uuid.New()

		_, err := store.Add(ctx, id, favorites.Item{Name: "A", Symbol: "x"})
		require.NoError(t, err)
		_, err = store.Add(ctx, id, favorites.Item{Name: "Cat", Symbol: "CAT"})
		require.NoError(t, err)
		_, err = store.Add(ctx, id, favorites.Item{Name: "B", Symbol: "x"})
		require.NoError(t, err)

		msg, err := store.Remove(ctx, id, "x")
		require.NoError(t, err)
		require.Equal(t, "Nft A removed from favorites", msg)

		got, err := store.List(ctx, id)
		require.NoError(t, err)
		require.Equal(t, []favorites.Item{{Name: "Cat", Symbol: "CAT"}}, got)

		_, err = store.Remove(ctx, id, "CAT")
		require.NoError(t, err)
		got, err = store.List(ctx, id)
		require.NoError(t, err)
		require.Empty(t, got)
	})
}
