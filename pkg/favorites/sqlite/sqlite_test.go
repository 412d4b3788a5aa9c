package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"nftfavorites/pkg/favorites"
	"nftfavorites/pkg/favorites/kvtest"
)

func openTemp(t *testing.T) (*KV, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "favorites.db")
	kv, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv, path
}

func TestKVContract(t *testing.T) {
	kv, _ := openTemp(t)
	kvtest.Run(t, kv)
}

func TestRecordsSurviveReopen(t *testing.T) {
	kv, path := openTemp(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := favorites.NewStore(kv).Add(ctx, id, favorites.Item{Name: "Cat", Symbol: "CAT"})
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := favorites.NewStore(reopened).List(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []favorites.Item{{Name: "Cat", Symbol: "CAT"}}, got)
}
