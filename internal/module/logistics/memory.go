package logistics

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is the in-memory mock store implementation of Repository.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
	byOrder map[uuid.UUID]uuid.UUID
}

// NewMemoryRepository creates an empty in-memory shipment repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[uuid.UUID]Record),
		byOrder: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *MemoryRepository) Create(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byOrder[rec.OrderID]; ok {
		return ErrRecordExists
	}
	r.records[rec.ID] = cloneRecord(rec)
	r.byOrder[rec.OrderID] = rec.ID
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	out := cloneRecord(&rec)
	return &out, nil
}

func (r *MemoryRepository) GetByOrder(_ context.Context, orderID uuid.UUID) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byOrder[orderID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	rec := r.records[id]
	out := cloneRecord(&rec)
	return &out, nil
}

func (r *MemoryRepository) Update(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.ID]; !ok {
		return ErrRecordNotFound
	}
	r.records[rec.ID] = cloneRecord(rec)
	return nil
}

func cloneRecord(rec *Record) Record {
	out := *rec
	out.History = make([]HistoryEntry, len(rec.History))
	copy(out.History, rec.History)
	return out
}
