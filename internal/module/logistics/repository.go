package logistics

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the shipment persistence interface.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	GetByOrder(ctx context.Context, orderID uuid.UUID) (*Record, error)
	Update(ctx context.Context, r *Record) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a database backed shipment repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, rec *Record) error {
	err := r.db.WithContext(ctx).Create(rec).Error
	if err != nil && strings.Contains(err.Error(), "duplicate") {
		return ErrRecordExists
	}
	return err
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *gormRepository) GetByOrder(ctx context.Context, orderID uuid.UUID) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&rec, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *gormRepository) Update(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(rec).Error
}
