package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/e2ecommerce/server/internal/module/catalog"
	"github.com/e2ecommerce/server/internal/module/logistics"
	"github.com/e2ecommerce/server/internal/module/user"
	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
)

// ProductReader is the slice of the catalog the cart needs to price its
// lines.
type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

// PricedItem is a cart line joined with live catalog data.
type PricedItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   int64     `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	Subtotal    int64     `json:"subtotal"`
	Available   bool      `json:"available"`
}

// PricedCart is the cart with computed totals. Amounts are centavos.
type PricedCart struct {
	Items    []PricedItem `json:"items"`
	Subtotal int64        `json:"subtotal"`
	Freight  int64        `json:"freight"`
	Total    int64        `json:"total"`
}

// Service implements the shopping cart.
type Service struct {
	store    Store
	products ProductReader
	freight  logistics.FeePolicy
	logger   *zap.Logger
}

// NewService creates a new cart service.
func NewService(store Store, products ProductReader, freight logistics.FeePolicy, logger *zap.Logger) *Service {
	return &Service{store: store, products: products, freight: freight, logger: logger}
}

// load returns the actor's cart, empty if none exists yet.
func (s *Service) load(ctx context.Context, actor user.Actor) (*Cart, error) {
	c, err := s.store.Get(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return &Cart{UserID: actor.ID}, nil
		}
		return nil, err
	}
	return c, nil
}

// AddItem puts qty units of a product in the cart, merging with an existing
// line.
func (s *Service) AddItem(ctx context.Context, actor user.Actor, productID uuid.UUID, qty int) (*PricedCart, error) {
	if qty <= 0 {
		return nil, apperrors.Validation("quantity must be positive")
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, err
	}
	if !p.Active {
		return nil, apperrors.Validation("product is not available")
	}

	c, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	c.add(productID, qty)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return s.price(ctx, c)
}

// UpdateQuantity replaces a line's quantity. Zero removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, actor user.Actor, productID uuid.UUID, qty int) (*PricedCart, error) {
	if qty < 0 {
		return nil, apperrors.Validation("quantity cannot be negative")
	}

	c, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}

	if qty == 0 {
		if !c.remove(productID) {
			return nil, apperrors.NotFound("cart item")
		}
	} else if !c.setQuantity(productID, qty) {
		return nil, apperrors.NotFound("cart item")
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return s.price(ctx, c)
}

// RemoveItem drops a line from the cart.
func (s *Service) RemoveItem(ctx context.Context, actor user.Actor, productID uuid.UUID) (*PricedCart, error) {
	c, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !c.remove(productID) {
		return nil, apperrors.NotFound("cart item")
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return s.price(ctx, c)
}

// Get returns the cart with live prices and totals.
func (s *Service) Get(ctx context.Context, actor user.Actor) (*PricedCart, error) {
	c, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.price(ctx, c)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, actor user.Actor) error {
	return s.store.Delete(ctx, actor.ID)
}

func (s *Service) save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = time.Now()
	return s.store.Save(ctx, c)
}

// price joins the cart against the catalog. Lines whose product vanished or
// was deactivated are kept but flagged unavailable and excluded from totals.
func (s *Service) price(ctx context.Context, c *Cart) (*PricedCart, error) {
	out := &PricedCart{Items: []PricedItem{}}

	for _, item := range c.Items {
		p, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				out.Items = append(out.Items, PricedItem{
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
				})
				continue
			}
			return nil, err
		}

		priced := PricedItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    item.Quantity,
			Available:   p.Available(item.Quantity),
		}
		if priced.Available {
			priced.Subtotal = p.Price * int64(item.Quantity)
			out.Subtotal += priced.Subtotal
		}
		out.Items = append(out.Items, priced)
	}

	if out.Subtotal > 0 {
		out.Freight = s.freight.Fee(out.Subtotal)
	}
	out.Total = out.Subtotal + out.Freight
	return out, nil
}
