package payment

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is the in-memory mock store implementation of Repository.
type MemoryRepository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]Payment
}

// NewMemoryRepository creates an empty in-memory payment repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{payments: make(map[uuid.UUID]Payment)}
}

func (r *MemoryRepository) Create(_ context.Context, p *Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.ID] = clonePayment(p)
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	out := clonePayment(&p)
	return &out, nil
}

func (r *MemoryRepository) GetByTxID(_ context.Context, txid string) (*Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.payments {
		if p.Pix != nil && p.Pix.TxID == txid {
			out := clonePayment(&p)
			return &out, nil
		}
	}
	return nil, ErrPaymentNotFound
}

func (r *MemoryRepository) ListByOrder(_ context.Context, orderID uuid.UUID) ([]Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Payment
	for _, p := range r.payments {
		if p.OrderID == orderID {
			out = append(out, clonePayment(&p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, p *Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.ID]; !ok {
		return ErrPaymentNotFound
	}
	r.payments[p.ID] = clonePayment(p)
	return nil
}

func clonePayment(p *Payment) Payment {
	out := *p
	if p.Card != nil {
		card := *p.Card
		out.Card = &card
	}
	if p.Pix != nil {
		pix := *p.Pix
		out.Pix = &pix
	}
	return out
}
