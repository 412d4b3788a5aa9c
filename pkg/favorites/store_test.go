package favorites_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"nftfavorites/pkg/errs"
	"nftfavorites/pkg/favorites"
	"nftfavorites/pkg/favorites/memory"
)

func newStore() (*favorites.Store, *memory.KV) {
	kv := memory.New()
	return favorites.NewStore(kv), kv
}

func TestListWithoutRecordIsNotFound(t *testing.T) {
	t.Parallel()
	store, _ := newStore()

	_, err := store.List(t.Context(), uuid.New())
	require.ErrorIs(t, err, favorites.ErrNoFavorites)
	require.Equal(t, errs.KindNotFound, errs.KindOf(err))
	require.Equal(t, "No favorites found", err.Error())
}

func TestAddThenList(t *testing.T) {
	t.Parallel()
	store, _ := newStore()
	p := uuid.New()

	msg, err := store.Add(t.Context(), p, favorites.Item{Name: "Cat", Symbol: "CAT"})
	require.NoError(t, err)
	require.Equal(t, "Nft Cat added to favorites", msg)
	require.Contains(t, msg, "Cat")

	got, err := store.List(t.Context(), p)
	require.NoError(t, err)
	require.Equal(t, []favorites.Item{{Name: "Cat", Symbol: "CAT"}}, got)
}

func TestAddAppendsInOrder(t *testing.T) {
	t.Parallel()
	store, _ := newStore()
	p := uuid.New()

	items := []favorites.Item{
		{Name: "Bored Ape", Symbol: "BAYC"},
		{Name: "Punks", Symbol: "PUNK"},
		{Name: "Azuki", Symbol: "AZUKI"},
	}
	for i, item := range items {
		_, err := store.Add(t.Context(), p, item)
		require.NoError(t, err)

		got, err := store.List(t.Context(), p)
		require.NoError(t, err)
		require.Len(t, got, i+1)
		require.Equal(t, item, got[len(got)-1])
		require.Equal(t, items[:i+1], got)
	}
}

func TestAddKeepsDuplicateSymbols(t *testing.T) {
	t.Parallel()
	store, _ := newStore()
	p := uuid.New()

	_, err := store.Add(t.Context(), p, favorites.Item{Name: "A", Symbol: "x"})
	require.NoError(t, err)
	_, err = store.Add(t.Context(), p, favorites.Item{Name: "A", Symbol: "x"})
	require.NoError(t, err)

	got, err := store.List(t.Context(), p)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestRemoveWithoutRecord(t *testing.T) {
	t.Parallel()
	store, kv := newStore()
	p := uuid.New()

	_, err := store.Remove(t.Context(), p, "CAT")
	require.ErrorIs(t, err, favorites.ErrNoFavorites)
	require.Equal(t, "No favorites found", err.Error())
	require.Equal(t, 0, kv.Len())
}

func TestRemoveUnknownSymbolLeavesRecordUnchanged(t *testing.T) {
	t.Parallel()
	store, _ := newStore()
	p := uuid.New()

	_, err := store.Add(t.Context(), p, favorites.Item{Name: "Cat", Symbol: "CAT"})
	require.NoError(t, err)
	before, err := store.List(t.Context(), p)
	require.NoError(t, err)

	_, err = store.Remove(t.Context(), p, "DOG")
	require.ErrorIs(t, err, favorites.ErrItemNotFound)
	require.Equal(t, "Nft not found", err.Error())

	after, err := store.List(t.Context(), p)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestRemoveDropsAllMatchesAndKeepsEmptyRecord(t *testing.T) {
	t.Parallel()
	store, kv := newStore()
	p := uuid.New()

	_, err := store.Add(t.Context(), p, favorites.Item{Name: "A", Symbol: "x"})
	require.NoError(t, err)
	_, err = store.Add(t.Context(), p, favorites.Item{Name: "B", Symbol: "x"})
	require.NoError(t, err)

	msg, err := store.Remove(t.Context(), p, "x")
	require.NoError(t, err)
	require.Equal(t, "Nft A removed from favorites", msg)

	got, err := store.List(t.Context(), p)
	require.NoError(t, err)
	require.Empty(t, got)
	require.NotNil(t, got)
	require.Equal(t, 1, kv.Len())

	ok, err := kv.Contains(t.Context(), p)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRemovePreservesSurvivorOrder(t *testing.T) {
	t.Parallel()
	store, _ := newStore()
	p := uuid.New()

	for _, item := range []favorites.Item{
		{Name: "One", Symbol: "1"},
		{Name: "Two", Symbol: "2"},
		{Name: "Three", Symbol: "3"},
		{Name: "Two again", Symbol: "2"},
		{Name: "Four", Symbol: "4"},
	} {
		_, err := store.Add(t.Context(), p, item)
		require.NoError(t, err)
	}

	_, err := store.Remove(t.Context(), p, "2")
	require.NoError(t, err)

	got, err := store.List(t.Context(), p)
	require.NoError(t, err)
	require.Equal(t, []favorites.Item{
		{Name: "One", Symbol: "1"},
		{Name: "Three", Symbol: "3"},
		{Name: "Four", Symbol: "4"},
	}, got)
}

func TestListIsStableAndDetached(t *testing.T) {
	t.Parallel()
	store, _ := newStore()
	p := uuid.New()

	_, err := store.Add(t.Context(), p, favorites.Item{Name: "Cat", Symbol: "CAT"})
	require.NoError(t, err)

	first, err := store.List(t.Context(), p)
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := store.List(t.Context(), p)
	require.NoError(t, err)
	third, err := store.List(t.Context(), p)
	require.NoError(t, err)
	require.Equal(t, second, third)
	require.Equal(t, "Cat", second[0].Name)
}

func TestIdentitiesArePartitioned(t *testing.T) {
	t.Parallel()
	store, _ := newStore()
	alice, bob := uuid.New(), uuid.New()

	_, err := store.Add(t.Context(), alice, favorites.Item{Name: "Cat", Symbol: "CAT"})
	require.NoError(t, err)

	_, err = store.List(t.Context(), bob)
	require.ErrorIs(t, err, favorites.ErrNoFavorites)
	_, err = store.Remove(t.Context(), bob, "CAT")
	require.ErrorIs(t, err, favorites.ErrNoFavorites)
}

func TestConcurrentAddsForSameIdentity(t *testing.T) {
	t.Parallel()
	store, _ := newStore()
	p := uuid.New()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Add(context.Background(), p, favorites.Item{Name: "N", Symbol: "N"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.List(t.Context(), p)
	require.NoError(t, err)
	require.Len(t, got, n)
}

func TestAddWritesRecordStampedWithIdentity(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	kv := NewMockKV(ctrl)
	p := uuid.New()
	existing := favorites.Record{ID: uuid.New(), Favorites: []favorites.Item{{Name: "A", Symbol: "a"}}}

	kv.EXPECT().Contains(gomock.Any(), p).Return(true, nil)
	kv.EXPECT().Get(gomock.Any(), p).Return(existing, true, nil)
	kv.EXPECT().Put(gomock.Any(), p, favorites.Record{
		ID:        p,
		Favorites: []favorites.Item{{Name: "A", Symbol: "a"}, {Name: "B", Symbol: "b"}},
	}).Return(nil)

	_, err := favorites.NewStore(kv).Add(t.Context(), p, favorites.Item{Name: "B", Symbol: "b"})
	require.NoError(t, err)
}

func TestBackendFailuresAreFatal(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	kv := NewMockKV(ctrl)
	p := uuid.New()
	boom := errors.New("connection refused")

	kv.EXPECT().Contains(gomock.Any(), p).Return(false, nil)
	kv.EXPECT().Put(gomock.Any(), p, gomock.Any()).Return(boom)
	kv.EXPECT().Get(gomock.Any(), p).Return(favorites.Record{}, false, boom).Times(2)

	store := favorites.NewStore(kv)

	_, err := store.Add(t.Context(), p, favorites.Item{Name: "Cat", Symbol: "CAT"})
	require.ErrorIs(t, err, boom)
	require.Equal(t, errs.KindFatal, errs.KindOf(err))

	_, err = store.Remove(t.Context(), p, "CAT")
	require.ErrorIs(t, err, boom)

	_, err = store.List(t.Context(), p)
	require.ErrorIs(t, err, boom)
}

func TestRemoveNotFoundDoesNotWrite(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	kv := NewMockKV(ctrl)
	p := uuid.New()

	kv.EXPECT().Get(gomock.Any(), p).Return(favorites.Record{ID: p, Favorites: []favorites.Item{{Name: "A", Symbol: "a"}}}, true, nil)
	kv.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := favorites.NewStore(kv).Remove(t.Context(), p, "z")
	require.ErrorIs(t, err, favorites.ErrItemNotFound)
}
