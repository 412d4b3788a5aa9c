package favorites_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"nftfavorites/pkg/favorites"
)

func TestEncodeRecordStampsIdentity(t *testing.T) {
	id := uuid.MustParse("6f1c1a3e-2b7a-4c8e-9d41-0a5b3c2d1e0f")
	b, err := favorites.EncodeRecord(id, favorites.Record{ID: uuid.New()})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"6f1c1a3e-2b7a-4c8e-9d41-0a5b3c2d1e0f","favorites":[]}`, string(b))

	rec, err := favorites.DecodeRecord(b)
	require.NoError(t, err)
	require.Equal(t, id, rec.ID)
	require.NotNil(t, rec.Favorites)
	require.Empty(t, rec.Favorites)
}

func TestDecodeFavoritesNullIsEmpty(t *testing.T) {
	items, err := favorites.DecodeFavorites([]byte(`null`))
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)

	_, err = favorites.DecodeFavorites([]byte(`{`))
	require.Error(t, err)
}
