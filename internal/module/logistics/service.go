package logistics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/e2ecommerce/server/internal/module/user"
	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
	"github.com/e2ecommerce/server/internal/shared/events"
	"github.com/e2ecommerce/server/internal/utils/metrics"
)

// Service implements shipment tracking and the freight quote.
type Service struct {
	repo           Repository
	fees           FeePolicy
	trackingPrefix string
	bus            *events.Bus
	metrics        *metrics.Metrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewService creates a new logistics service.
func NewService(
	repo Repository,
	fees FeePolicy,
	trackingPrefix string,
	bus *events.Bus,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:           repo,
		fees:           fees,
		trackingPrefix: trackingPrefix,
		bus:            bus,
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

// Open creates the shipment record for a freshly paid order.
func (s *Service) Open(ctx context.Context, orderID, userID uuid.UUID) (*Record, error) {
	rec := &Record{
		ID:      uuid.New(),
		OrderID: orderID,
		UserID:  userID,
		Status:  StatusAwaitingShipment,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, ErrRecordExists) {
			return s.repo.GetByOrder(ctx, orderID)
		}
		return nil, err
	}

	s.metrics.ShipmentsTotal.WithLabelValues(string(StatusAwaitingShipment)).Inc()
	s.logger.Info("shipment opened",
		zap.String("record_id", rec.ID.String()),
		zap.String("order_id", orderID.String()),
	)
	return rec, nil
}

// Get returns a shipment by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, apperrors.NotFound("shipment")
		}
		return nil, err
	}
	return rec, nil
}

// GetByOrder returns the shipment attached to an order. Clients only see
// shipments of their own orders.
func (s *Service) GetByOrder(ctx context.Context, actor user.Actor, orderID uuid.UUID) (*Record, error) {
	rec, err := s.repo.GetByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, apperrors.NotFound("shipment")
		}
		return nil, err
	}
	if rec.UserID != actor.ID && !actor.Is(user.RoleOperator, user.RoleAdmin) {
		return nil, apperrors.Forbidden("shipment belongs to another user")
	}
	return rec, nil
}

// UpdateStatus advances the shipment through the graph and notifies the
// order side.
func (s *Service) UpdateStatus(ctx context.Context, actor user.Actor, id uuid.UUID, to Status, reason, carrier string) (*Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := rec.UpdateStatus(to, reason, actor.ID, s.trackingPrefix, s.now()); err != nil {
		return nil, err
	}
	if carrier != "" {
		rec.Carrier = carrier
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.metrics.ShipmentsTotal.WithLabelValues(string(to)).Inc()
	s.logger.Info("shipment status updated",
		zap.String("record_id", rec.ID.String()),
		zap.String("status", string(to)),
		zap.String("tracking_code", rec.TrackingCode),
	)

	switch to {
	case StatusInTransit:
		s.bus.Publish(events.NewShipmentDispatched(rec.ID, rec.OrderID, rec.TrackingCode))
	case StatusDelivered:
		s.bus.Publish(events.NewShipmentDelivered(rec.ID, rec.OrderID))
	}
	return rec, nil
}

// Correct applies an out-of-graph status fix. Admin only; the audit trail
// keeps the correction flagged.
func (s *Service) Correct(ctx context.Context, actor user.Actor, id uuid.UUID, to Status, reason string) (*Record, error) {
	if !actor.Is(user.RoleAdmin) {
		return nil, apperrors.Forbidden("only admins can correct shipment status")
	}

	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := rec.Correct(to, reason, actor.ID, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Warn("shipment status corrected",
		zap.String("record_id", rec.ID.String()),
		zap.String("status", string(to)),
		zap.String("actor_id", actor.ID.String()),
	)
	return rec, nil
}

// QuoteFreight returns the freight fee for an items subtotal.
func (s *Service) QuoteFreight(subtotal int64) (int64, error) {
	if subtotal <= 0 {
		return 0, apperrors.Validation("subtotal must be positive")
	}
	return s.fees.Fee(subtotal), nil
}
