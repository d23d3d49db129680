package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/e2ecommerce/server/internal/module/user"
	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
)

// Service implements catalog management and browsing.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new catalog service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateInput carries the fields for a new product.
type CreateInput struct {
	SKU         string
	Name        string
	Description string
	Category    string
	ImageURL    string
	Price       int64
	Stock       int
	MaxStock    int
}

func (in *CreateInput) validate() []string {
	var details []string
	if strings.TrimSpace(in.SKU) == "" {
		details = append(details, "sku is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		details = append(details, "name is required")
	}
	if in.Price <= 0 {
		details = append(details, "price must be positive")
	}
	if in.Stock < 0 {
		details = append(details, "stock cannot be negative")
	}
	if in.MaxStock < in.Stock {
		details = append(details, "max stock cannot be below initial stock")
	}
	return details
}

// Create registers a new product owned by the acting supplier.
func (s *Service) Create(ctx context.Context, actor user.Actor, in CreateInput) (*Product, error) {
	if details := in.validate(); len(details) > 0 {
		return nil, apperrors.Validation(details...)
	}

	p := &Product{
		ID:          uuid.New(),
		SupplierID:  actor.ID,
		SKU:         strings.ToUpper(strings.TrimSpace(in.SKU)),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		Price:       in.Price,
		Stock:       in.Stock,
		MaxStock:    in.MaxStock,
		Active:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrSKUTaken) {
			return nil, apperrors.Validation("sku already in use")
		}
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", p.ID.String()),
		zap.String("sku", p.SKU),
		zap.String("supplier_id", p.SupplierID.String()),
	)
	return p, nil
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, err
	}
	return p, nil
}

// List pages through the catalog. Unauthenticated callers only see active
// products; suppliers listing their own catalog see everything.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, int64, error) {
	return s.repo.List(ctx, filter)
}

// UpdateInput carries the mutable product fields. Nil means unchanged.
type UpdateInput struct {
	Name        *string
	Description *string
	Category    *string
	ImageURL    *string
	Price       *int64
	MaxStock    *int
	Active      *bool
}

// Update edits a product. Suppliers may only edit their own products.
func (s *Service) Update(ctx context.Context, actor user.Actor, id uuid.UUID, in UpdateInput) (*Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, p); err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperrors.Validation("name cannot be empty")
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, apperrors.Validation("price must be positive")
		}
		p.Price = *in.Price
	}
	if in.MaxStock != nil {
		if *in.MaxStock < p.Stock {
			return nil, apperrors.Validation("max stock cannot be below current stock")
		}
		p.MaxStock = *in.MaxStock
	}
	if in.Active != nil {
		p.Active = *in.Active
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AdjustStock applies a signed stock delta bounded by zero and max stock.
func (s *Service) AdjustStock(ctx context.Context, actor user.Actor, id uuid.UUID, delta int) (*Product, error) {
	if delta == 0 {
		return nil, apperrors.Validation("delta cannot be zero")
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, p); err != nil {
		return nil, err
	}

	p, err = s.repo.AdjustStock(ctx, id, delta)
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return nil, apperrors.Validation("stock cannot go below zero")
	case errors.Is(err, ErrStockExceedsMax):
		return nil, apperrors.Validation("stock cannot exceed maximum")
	case errors.Is(err, ErrProductNotFound):
		return nil, apperrors.NotFound("product")
	case err != nil:
		return nil, err
	}
	return p, nil
}

// Deactivate removes a product from sale without deleting it.
func (s *Service) Deactivate(ctx context.Context, actor user.Actor, id uuid.UUID) (*Product, error) {
	inactive := false
	return s.Update(ctx, actor, id, UpdateInput{Active: &inactive})
}

func (s *Service) authorize(actor user.Actor, p *Product) error {
	if actor.Is(user.RoleAdmin, user.RoleOperator) {
		return nil
	}
	if actor.Is(user.RoleSupplier) && p.SupplierID == actor.ID {
		return nil
	}
	return apperrors.Forbidden("product belongs to another supplier")
}
