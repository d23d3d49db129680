package address

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is the in-memory mock store implementation of Repository.
type MemoryRepository struct {
	mu        sync.RWMutex
	addresses map[uuid.UUID]Address
}

// NewMemoryRepository creates an empty in-memory address repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{addresses: make(map[uuid.UUID]Address)}
}

func (r *MemoryRepository) Create(_ context.Context, a *Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.IsDefault {
		r.clearDefault(a.UserID)
	}
	r.addresses[a.ID] = *a
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.addresses[id]
	if !ok {
		return nil, ErrAddressNotFound
	}
	out := a
	return &out, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, a *Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.addresses[a.ID]; !ok {
		return ErrAddressNotFound
	}
	if a.IsDefault {
		r.clearDefault(a.UserID)
	}
	r.addresses[a.ID] = *a
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.addresses[id]; !ok {
		return ErrAddressNotFound
	}
	delete(r.addresses, id)
	return nil
}

func (r *MemoryRepository) SetDefault(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.addresses[id]
	if !ok || a.UserID != userID {
		return ErrAddressNotFound
	}
	r.clearDefault(userID)
	a.IsDefault = true
	r.addresses[id] = a
	return nil
}

func (r *MemoryRepository) clearDefault(userID uuid.UUID) {
	for id, a := range r.addresses {
		if a.UserID == userID && a.IsDefault {
			a.IsDefault = false
			r.addresses[id] = a
		}
	}
}
