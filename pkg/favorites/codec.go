package favorites

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// EncodeFavorites renders items as a JSON array. A nil slice encodes as [].
func EncodeFavorites(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode favorites: %w", err)
	}
	return b, nil
}

// DecodeFavorites parses a JSON array produced by EncodeFavorites.
// The result is never nil so an emptied record still lists as [].
func DecodeFavorites(data []byte) ([]Item, error) {
	items := []Item{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// EncodeRecord renders rec, stamped with id, as JSON.
func EncodeRecord(id Identity, rec Record) ([]byte, error) {
	rec.ID = id
	if rec.Favorites == nil {
		rec.Favorites = []Item{}
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return b, nil
}

// DecodeRecord parses a record produced by EncodeRecord.
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	if rec.Favorites == nil {
		rec.Favorites = []Item{}
	}
	return rec, nil
}
