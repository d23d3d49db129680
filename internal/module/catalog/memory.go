package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is the in-memory mock store implementation of Repository.
type MemoryRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
}

// NewMemoryRepository creates an empty in-memory product repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{products: make(map[uuid.UUID]Product)}
}

func (r *MemoryRepository) Create(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if strings.EqualFold(existing.SKU, p.SKU) {
			return ErrSKUTaken
		}
	}
	r.products[p.ID] = *p
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	out := p
	return &out, nil
}

func (r *MemoryRepository) GetBySKU(_ context.Context, sku string) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if strings.EqualFold(p.SKU, sku) {
			out := p
			return &out, nil
		}
	}
	return nil, ErrProductNotFound
}

func (r *MemoryRepository) List(_ context.Context, filter ListFilter) ([]Product, int64, error) {
	filter.normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Product
	for _, p := range r.products {
		if filter.ActiveOnly && !p.Active {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.SupplierID != uuid.Nil && p.SupplierID != filter.SupplierID {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PerPage
	if start >= len(matched) {
		return []Product{}, total, nil
	}
	end := start + filter.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MemoryRepository) Update(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return ErrProductNotFound
	}
	r.products[p.ID] = *p
	return nil
}

// Reserve decrements stock for a sale, failing when the product is inactive
// or understocked.
func (r *MemoryRepository) Reserve(_ context.Context, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	if !p.Active || p.Stock < qty {
		return ErrInsufficientStock
	}
	p.Stock -= qty
	r.products[id] = p
	return nil
}

// Restock returns previously reserved units. Unlike AdjustStock it is not
// bounded by max stock, since the units were within bounds when reserved.
func (r *MemoryRepository) Restock(_ context.Context, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	p.Stock += qty
	r.products[id] = p
	return nil
}

func (r *MemoryRepository) AdjustStock(_ context.Context, id uuid.UUID, delta int) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	next := p.Stock + delta
	if next < 0 {
		return nil, ErrInsufficientStock
	}
	if next > p.MaxStock {
		return nil, ErrStockExceedsMax
	}
	p.Stock = next
	r.products[id] = p
	out := p
	return &out, nil
}
