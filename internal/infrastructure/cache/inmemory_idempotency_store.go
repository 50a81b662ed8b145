package cache

import (
	"context"
	"time"

	"github.com/ams/backend/internal/domain/shared"
	gocache "github.com/patrickmn/go-cache"
)

// InMemoryIdempotencyStore remembers processed event keys in process memory.
// Suitable for a single instance and for tests.
type InMemoryIdempotencyStore struct {
	items *gocache.Cache
}

// NewInMemoryIdempotencyStore creates a store that purges expired keys every five minutes
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		items: gocache.New(gocache.NoExpiration, 5*time.Minute),
	}
}

// MarkProcessed records the key and reports whether it was new
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	// Add fails if an unexpired item exists
	if err := s.items.Add(eventID, struct{}{}, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

// IsProcessed reports whether an unexpired key exists
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	_, found := s.items.Get(eventID)
	return found, nil
}

// Release forgets the key
func (s *InMemoryIdempotencyStore) Release(_ context.Context, eventID string) error {
	s.items.Delete(eventID)
	return nil
}

// Close drops all keys
func (s *InMemoryIdempotencyStore) Close() error {
	s.items.Flush()
	return nil
}

// Size returns the number of stored keys, including expired ones not yet purged
func (s *InMemoryIdempotencyStore) Size() int {
	return s.items.ItemCount()
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
