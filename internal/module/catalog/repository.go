package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter narrows and pages a product listing.
type ListFilter struct {
	Category   string
	SupplierID uuid.UUID
	Search     string
	ActiveOnly bool
	Page       int
	PerPage    int
}

func (f *ListFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
}

// Repository is the product persistence interface.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]Product, int64, error)
	Update(ctx context.Context, p *Product) error
	// AdjustStock applies a signed delta, failing if the result would go
	// below zero or above max stock.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Product, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a database backed product repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, p *Product) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if err != nil && strings.Contains(err.Error(), "duplicate") {
		return ErrSKUTaken
	}
	return err
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var p Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	var p Product
	if err := r.db.WithContext(ctx).First(&p, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) List(ctx context.Context, filter ListFilter) ([]Product, int64, error) {
	filter.normalize()

	query := r.db.WithContext(ctx).Model(&Product{})
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.SupplierID != uuid.Nil {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []Product
	err := query.
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PerPage).
		Limit(filter.PerPage).
		Find(&products).Error
	return products, total, err
}

func (r *gormRepository) Update(ctx context.Context, p *Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *gormRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Product, error) {
	var p Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Product{}).
			Where("id = ? AND stock + ? >= 0 AND stock + ? <= max_stock", id, delta, delta).
			Update("stock", gorm.Expr("stock + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&p, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}
			if delta < 0 {
				return ErrInsufficientStock
			}
			return ErrStockExceedsMax
		}
		return tx.First(&p, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
