package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nftfavorites/pkg/price"
)

type fakeLookup struct {
	calls int
	msg   string
	err   error
}

func (f *fakeLookup) GetPrice(_ context.Context, itemID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.msg + price.Normalize(itemID), nil
}

func TestCachesWithinTTL(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	f := &fakeLookup{msg: "price of "}
	c := &Lookup{L: f, TTL: time.Minute, Now: func() time.Time { return now }}

	got, err := c.GetPrice(t.Context(), "Bored-Ape")
	require.NoError(t, err)
	require.Equal(t, "price of bored-ape", got)

	// Ids differing only in case share an entry.
	got, err = c.GetPrice(t.Context(), "bored-ape")
	require.NoError(t, err)
	require.Equal(t, "price of bored-ape", got)
	require.Equal(t, 1, f.calls)

	now = now.Add(2 * time.Minute)
	_, err = c.GetPrice(t.Context(), "bored-ape")
	require.NoError(t, err)
	require.Equal(t, 2, f.calls)
}

func TestDoesNotCacheErrors(t *testing.T) {
	f := &fakeLookup{err: price.ErrNotFound}
	c := &Lookup{L: f, TTL: time.Minute}

	for i := 0; i < 2; i++ {
		_, err := c.GetPrice(t.Context(), "x")
		require.ErrorIs(t, err, price.ErrNotFound)
	}
	require.Equal(t, 2, f.calls)
	require.Zero(t, c.Len())
}

func TestZeroTTLPassesThrough(t *testing.T) {
	f := &fakeLookup{msg: "m"}
	c := &Lookup{L: f}

	_, _ = c.GetPrice(t.Context(), "x")
	_, _ = c.GetPrice(t.Context(), "x")
	require.Equal(t, 2, f.calls)
}

func TestMaxItemsBound(t *testing.T) {
	f := &fakeLookup{msg: "m"}
	c := &Lookup{L: f, TTL: time.Minute, MaxItems: 2}

	for _, id := range []string{"a", "b", "c", "d"} {
		_, err := c.GetPrice(t.Context(), id)
		require.NoError(t, err)
	}
	require.LessOrEqual(t, c.Len(), 2)
}

type blockingLookup struct {
	calls   atomic.Int32
	release chan struct{}
}

func (b *blockingLookup) GetPrice(_ context.Context, itemID string) (string, error) {
	b.calls.Add(1)
	<-b.release
	return "price of " + itemID, nil
}

func TestConcurrentMissesShareOneCall(t *testing.T) {
	b := &blockingLookup{release: make(chan struct{})}
	c := &Lookup{L: b, TTL: time.Minute}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg, err := c.GetPrice(context.Background(), "ape")
			if err == nil {
				results[i] = msg
			}
		}(i)
	}

	require.Eventually(t, func() bool { return b.calls.Load() == 1 }, time.Second, time.Millisecond)
	close(b.release)
	wg.Wait()

	require.Equal(t, int32(1), b.calls.Load())
	for _, msg := range results {
		require.Equal(t, "price of ape", msg)
	}
}
