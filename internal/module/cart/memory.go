package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is the in-memory mock store implementation of Store.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]Cart
}

// NewMemoryStore creates an empty in-memory cart store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[uuid.UUID]Cart)}
}

func (s *MemoryStore) Get(_ context.Context, userID uuid.UUID) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	out := c
	out.Items = make([]Item, len(c.Items))
	copy(out.Items, c.Items)
	return &out, nil
}

func (s *MemoryStore) Save(_ context.Context, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *c
	stored.Items = make([]Item, len(c.Items))
	copy(stored.Items, c.Items)
	s.carts[c.UserID] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
