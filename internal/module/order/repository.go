package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/e2ecommerce/server/internal/module/catalog"
)

// ListFilter narrows and pages an order listing.
type ListFilter struct {
	UserID  uuid.UUID
	Status  Status
	Page    int
	PerPage int
}

func (f *ListFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
}

// Repository is the order persistence interface. CreateWithStock and
// CancelWithRestock are atomic: either the order and all stock movements
// commit together or nothing does.
type Repository interface {
	CreateWithStock(ctx context.Context, o *Order) error
	CancelWithRestock(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]Order, int64, error)
	Update(ctx context.Context, o *Order) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a database backed order repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateWithStock(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range o.Items {
			res := tx.Model(&catalog.Product{}).
				Where("id = ? AND stock >= ? AND active = ?", item.ProductID, item.Quantity, true).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, item.ProductName)
			}
		}
		return tx.Create(o).Error
	})
}

func (r *gormRepository) CancelWithRestock(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range o.Items {
			err := tx.Model(&catalog.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error
			if err != nil {
				return err
			}
		}
		return tx.Save(o).Error
	})
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *gormRepository) List(ctx context.Context, filter ListFilter) ([]Order, int64, error) {
	filter.normalize()

	query := r.db.WithContext(ctx).Model(&Order{})
	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PerPage).
		Limit(filter.PerPage).
		Find(&orders).Error
	return orders, total, err
}

func (r *gormRepository) Update(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}
