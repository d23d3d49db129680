package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/e2ecommerce/server/internal/module/address"
	"github.com/e2ecommerce/server/internal/module/catalog"
	"github.com/e2ecommerce/server/internal/module/logistics"
	"github.com/e2ecommerce/server/internal/module/user"
	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
	"github.com/e2ecommerce/server/internal/shared/events"
	"github.com/e2ecommerce/server/internal/utils/metrics"
	"github.com/e2ecommerce/server/internal/utils/random"
)

// ProductReader is the slice of the catalog the order service needs to price
// checkout items.
type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

// AddressReader resolves shipping addresses at checkout.
type AddressReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*address.Address, error)
}

// Service implements checkout and the order lifecycle.
type Service struct {
	repo      Repository
	products  ProductReader
	addresses AddressReader
	freight   logistics.FeePolicy
	bus       *events.Bus
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new order service.
func NewService(
	repo Repository,
	products ProductReader,
	addresses AddressReader,
	freight logistics.FeePolicy,
	bus *events.Bus,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		addresses: addresses,
		freight:   freight,
		bus:       bus,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// newOrderNumber builds the human-facing order number.
func newOrderNumber(at time.Time) string {
	return fmt.Sprintf("ORD-%d-%s", at.UnixMilli(), random.UpperAlphaNum(4))
}

// CheckoutItem is one product line requested at checkout.
type CheckoutItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// CheckoutInput carries the checkout request.
type CheckoutInput struct {
	AddressID uuid.UUID
	Items     []CheckoutItem
}

// Checkout creates an order from the given items, snapshotting catalog
// prices and decrementing stock atomically.
func (s *Service) Checkout(ctx context.Context, actor user.Actor, in CheckoutInput) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, apperrors.Validation("order must have at least one item")
	}

	// Merge duplicate product lines before pricing.
	quantities := make(map[uuid.UUID]int)
	var productIDs []uuid.UUID
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, apperrors.Validation("item quantity must be positive")
		}
		if _, seen := quantities[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	addr, err := s.addresses.GetByID(ctx, in.AddressID)
	if err != nil {
		if errors.Is(err, address.ErrAddressNotFound) {
			return nil, apperrors.NotFound("address")
		}
		return nil, err
	}
	if addr.UserID != actor.ID {
		return nil, apperrors.NotFound("address")
	}

	o := &Order{
		ID:            uuid.New(),
		Number:        newOrderNumber(s.now()),
		UserID:        actor.ID,
		Status:        StatusPending,
		PaymentStatus: "pending",
		ShippingAddress: ShippingAddress{
			Street:     addr.Street,
			Number:     addr.Number,
			Complement: addr.Complement,
			District:   addr.District,
			City:       addr.City,
			State:      addr.State,
			CEP:        addr.CEP,
		},
	}

	for _, productID := range productIDs {
		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				return nil, apperrors.Validation("product not found: " + productID.String())
			}
			return nil, err
		}
		qty := quantities[productID]
		if !p.Available(qty) {
			return nil, apperrors.Validation("insufficient stock for " + p.Name)
		}
		o.Items = append(o.Items, Item{
			ID:          uuid.New(),
			OrderID:     o.ID,
			ProductID:   p.ID,
			ProductName: p.Name,
			SKU:         p.SKU,
			UnitPrice:   p.Price,
			Quantity:    qty,
		})
	}

	o.Recompute()
	o.Freight = s.freight.Fee(o.Subtotal)
	o.Total = o.Subtotal + o.Freight

	if err := s.repo.CreateWithStock(ctx, o); err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return nil, apperrors.Validation(err.Error())
		}
		return nil, err
	}

	s.metrics.OrdersCreatedTotal.Inc()
	s.logger.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.String("user_id", o.UserID.String()),
		zap.Int64("total", o.Total),
		zap.Int("items", len(o.Items)),
	)
	return o, nil
}

// Get returns an order visible to the actor.
func (s *Service) Get(ctx context.Context, actor user.Actor, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, apperrors.NotFound("order")
		}
		return nil, err
	}
	if o.UserID != actor.ID && !actor.Is(user.RoleOperator, user.RoleAdmin) {
		return nil, apperrors.NotFound("order")
	}
	return o, nil
}

// List pages through orders. Clients only see their own.
func (s *Service) List(ctx context.Context, actor user.Actor, filter ListFilter) ([]Order, int64, error) {
	if !actor.Is(user.RoleOperator, user.RoleAdmin) {
		filter.UserID = actor.ID
	}
	return s.repo.List(ctx, filter)
}

// Cancel cancels a pending or paid order, restoring stock and notifying the
// payment side.
func (s *Service) Cancel(ctx context.Context, actor user.Actor, id uuid.UUID, reason string) (*Order, error) {
	o, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.CancelWithRestock(ctx, o); err != nil {
		return nil, err
	}

	s.metrics.OrdersCancelledTotal.Inc()
	s.logger.Info("order cancelled",
		zap.String("order_id", o.ID.String()),
		zap.String("reason", o.CancelReason),
	)
	s.bus.Publish(events.NewOrderCancelled(o.ID, o.CancelReason))
	return o, nil
}

// RequestReturn moves a delivered order to returned while the return window
// is open.
func (s *Service) RequestReturn(ctx context.Context, actor user.Actor, id uuid.UUID, reason string) (*Order, error) {
	o, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := o.MarkReturned(reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order returned", zap.String("order_id", o.ID.String()))
	return o, nil
}

// UpdateStatus applies an operator driven status change through the
// transition table.
func (s *Service) UpdateStatus(ctx context.Context, actor user.Actor, id uuid.UUID, to Status, reason string) (*Order, error) {
	o, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch to {
	case StatusPaid:
		err = o.MarkPaid(now)
	case StatusShipped:
		err = o.MarkShipped(now)
	case StatusDelivered:
		err = o.MarkDelivered(now)
	case StatusCancelled:
		return s.Cancel(ctx, actor, id, reason)
	case StatusReturned:
		err = o.MarkReturned(reason, now)
	default:
		return nil, apperrors.Validation("unknown status: " + string(to))
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	if to == StatusPaid {
		s.bus.Publish(events.NewOrderPaid(o.ID, o.UserID))
	}
	return o, nil
}

// markPaid is invoked when a payment is approved.
func (s *Service) markPaid(ctx context.Context, orderID uuid.UUID) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := o.MarkPaid(s.now()); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return err
	}
	s.bus.Publish(events.NewOrderPaid(o.ID, o.UserID))
	return nil
}

// markShipped is invoked when the shipment enters transit.
func (s *Service) markShipped(ctx context.Context, orderID uuid.UUID) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := o.MarkShipped(s.now()); err != nil {
		return err
	}
	return s.repo.Update(ctx, o)
}

// markDelivered is invoked when the shipment is delivered. A shipment may be
// delivered straight from awaiting_shipment, so a still-paid order passes
// through shipped first.
func (s *Service) markDelivered(ctx context.Context, orderID uuid.UUID) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status == StatusPaid {
		if err := o.MarkShipped(s.now()); err != nil {
			return err
		}
	}
	if err := o.MarkDelivered(s.now()); err != nil {
		return err
	}
	return s.repo.Update(ctx, o)
}
