package favorites

import (
	"context"

	"github.com/google/uuid"

	"nftfavorites/pkg/errs"
)

// Identity is the fixed-size caller identity used as the partition key.
type Identity = uuid.UUID

// ParseIdentity parses the canonical text form of an Identity.
func ParseIdentity(s string) (Identity, error) {
	return uuid.Parse(s)
}

// Item is a favorited NFT collection.
type Item struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Record holds one identity's favorites in insertion order.
type Record struct {
	ID        Identity `json:"id"`
	Favorites []Item   `json:"favorites"`
}

// KV is the durable identity -> Record mapping backing a Store.
//
//go:generate mockgen -package=favorites_test -destination=mock_kv_test.go -source=favorites.go KV
type KV interface {
	// Get returns the record for id. ok is false when no record exists.
	Get(ctx context.Context, id Identity) (rec Record, ok bool, err error)
	// Put replaces the record stored under id.
	Put(ctx context.Context, id Identity, rec Record) error
	// Contains reports whether a record exists for id.
	Contains(ctx context.Context, id Identity) (bool, error)
}

// Expected failures. Compare with errors.Is.
var (
	ErrNoFavorites  = errs.NotFound("No favorites found")
	ErrItemNotFound = errs.NotFound("Nft not found")
)

// CloneItems returns a copy of items that shares no backing array with it.
// A nil input yields an empty, non-nil slice.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
