package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/e2ecommerce/server/internal/module/catalog"
)

// StockStore is the slice of the catalog store the in-memory order
// repository needs to reserve and return stock.
type StockStore interface {
	Reserve(ctx context.Context, id uuid.UUID, qty int) error
	Restock(ctx context.Context, id uuid.UUID, qty int) error
}

// MemoryRepository is the in-memory mock store implementation of Repository.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]Order
	stock  StockStore
}

// NewMemoryRepository creates an empty in-memory order repository backed by
// the given stock store.
func NewMemoryRepository(stock StockStore) *MemoryRepository {
	return &MemoryRepository{orders: make(map[uuid.UUID]Order), stock: stock}
}

func (r *MemoryRepository) CreateWithStock(ctx context.Context, o *Order) error {
	var reserved []Item
	for _, item := range o.Items {
		if err := r.stock.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			// Roll back the reservations made so far.
			for _, done := range reserved {
				_ = r.stock.Restock(ctx, done.ProductID, done.Quantity)
			}
			if errors.Is(err, catalog.ErrInsufficientStock) || errors.Is(err, catalog.ErrProductNotFound) {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, item.ProductName)
			}
			return err
		}
		reserved = append(reserved, item)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *MemoryRepository) CancelWithRestock(ctx context.Context, o *Order) error {
	for _, item := range o.Items {
		if err := r.stock.Restock(ctx, item.ProductID, item.Quantity); err != nil &&
			!errors.Is(err, catalog.ErrProductNotFound) {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	out := cloneOrder(&o)
	return &out, nil
}

func (r *MemoryRepository) List(_ context.Context, filter ListFilter) ([]Order, int64, error) {
	filter.normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Order
	for _, o := range r.orders {
		if filter.UserID != uuid.Nil && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		matched = append(matched, cloneOrder(&o))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PerPage
	if start >= len(matched) {
		return []Order{}, total, nil
	}
	end := start + filter.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MemoryRepository) Update(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; !ok {
		return ErrOrderNotFound
	}
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func cloneOrder(o *Order) Order {
	out := *o
	out.Items = make([]Item, len(o.Items))
	copy(out.Items, o.Items)
	return out
}
