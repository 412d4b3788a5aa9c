// Package favorites keeps a per-identity list of favorite NFT collections on top
// of a durable key-value mapping.
package favorites

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"nftfavorites/pkg/errs"
)

var (
	opsCounter   metric.Int64Counter
	opsCounterMu sync.Once
)

// Store implements add, remove and list over a KV.
//
// Every write is a read-modify-write of the whole record. Writes for the same
// identity are serialized inside the process; the KV itself offers no atomicity.
type Store struct {
	kv KV

	mu    sync.Mutex
	locks map[Identity]*identityLock
}

type identityLock struct {
	mu   sync.Mutex
	refs int
}

// NewStore returns a Store persisting records in kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv, locks: make(map[Identity]*identityLock)}
}

// Add appends item to the favorites of id, creating the record on first use.
// Duplicate symbols are kept.
func (s *Store) Add(ctx context.Context, id Identity, item Item) (string, error) {
	unlock := s.lock(id)
	defer unlock()

	exists, err := s.kv.Contains(ctx, id)
	if err != nil {
		return "", s.done(ctx, "add", fmt.Errorf("lookup favorites: %w", err))
	}

	entry := Record{ID: id, Favorites: []Item{item}}
	if exists {
		rec, ok, err := s.kv.Get(ctx, id)
		if err != nil {
			return "", s.done(ctx, "add", fmt.Errorf("get favorites: %w", err))
		}
		if ok {
			entry.Favorites = append(CloneItems(rec.Favorites), item)
		}
	}
	if err := s.kv.Put(ctx, id, entry); err != nil {
		return "", s.done(ctx, "add", fmt.Errorf("put favorites: %w", err))
	}
	return fmt.Sprintf("Nft %s added to favorites", item.Name), s.done(ctx, "add", nil)
}

// Remove drops every item of id whose symbol equals symbol. The record is kept
// even when it becomes empty.
func (s *Store) Remove(ctx context.Context, id Identity, symbol string) (string, error) {
	unlock := s.lock(id)
	defer unlock()

	rec, ok, err := s.kv.Get(ctx, id)
	if err != nil {
		return "", s.done(ctx, "remove", fmt.Errorf("get favorites: %w", err))
	}
	if !ok {
		return "", s.done(ctx, "remove", ErrNoFavorites)
	}

	var (
		matched   *Item
		remaining = make([]Item, 0, len(rec.Favorites))
	)
	for i := range rec.Favorites {
		if rec.Favorites[i].Symbol == symbol {
			if matched == nil {
				matched = &rec.Favorites[i]
			}
			continue
		}
		remaining = append(remaining, rec.Favorites[i])
	}
	if matched == nil {
		return "", s.done(ctx, "remove", ErrItemNotFound)
	}

	if err := s.kv.Put(ctx, id, Record{ID: id, Favorites: remaining}); err != nil {
		return "", s.done(ctx, "remove", fmt.Errorf("put favorites: %w", err))
	}
	return fmt.Sprintf("Nft %s removed from favorites", matched.Name), s.done(ctx, "remove", nil)
}

// List returns a copy of the favorites of id in insertion order.
func (s *Store) List(ctx context.Context, id Identity) ([]Item, error) {
	rec, ok, err := s.kv.Get(ctx, id)
	if err != nil {
		return nil, s.done(ctx, "list", fmt.Errorf("get favorites: %w", err))
	}
	if !ok {
		return nil, s.done(ctx, "list", ErrNoFavorites)
	}
	return CloneItems(rec.Favorites), s.done(ctx, "list", nil)
}

func (s *Store) lock(id Identity) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &identityLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// done records the outcome of op and returns err unchanged.
func (s *Store) done(ctx context.Context, op string, err error) error {
	opsCounterMu.Do(func() {
		meter := otel.Meter("nftfavorites/favorites")
		counter, cerr := meter.Int64Counter("favorites_operations_total",
			metric.WithDescription("Favorites store operations by outcome"),
			metric.WithUnit("{operation}"))
		if cerr == nil {
			opsCounter = counter
		}
	})
	if opsCounter == nil {
		return err
	}
	outcome := "ok"
	if err != nil {
		outcome = string(errs.KindOf(err))
	}
	opsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("result", outcome),
	))
	return err
}
