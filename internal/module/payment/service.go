package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/e2ecommerce/server/internal/module/order"
	"github.com/e2ecommerce/server/internal/module/payment/gateway"
	"github.com/e2ecommerce/server/internal/module/user"
	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
	"github.com/e2ecommerce/server/internal/shared/events"
	"github.com/e2ecommerce/server/internal/utils/metrics"
	"github.com/e2ecommerce/server/internal/utils/random"
)

// OrderReader is the slice of the order module the payment service needs to
// validate charges.
type OrderReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
}

// Config carries the payment service settings.
type Config struct {
	PixKey          string
	PixExpiry       time.Duration
	MonthlyRate     float64
	MaxInstallments int
}

// Service implements quotes, charges and the payment lifecycle.
type Service struct {
	repo    Repository
	orders  OrderReader
	gateway gateway.Gateway
	calc    Calculator
	cfg     Config
	bus     *events.Bus
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new payment service.
func NewService(
	repo Repository,
	orders OrderReader,
	gw gateway.Gateway,
	cfg Config,
	bus *events.Bus,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:    repo,
		orders:  orders,
		gateway: gw,
		calc:    Calculator{MonthlyRate: cfg.MonthlyRate, Max: cfg.MaxInstallments},
		cfg:     cfg,
		bus:     bus,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Quote returns the installment plan for paying amount in count parcels.
func (s *Service) Quote(amount int64, count int) (*Plan, error) {
	return s.calc.Quote(amount, count, s.now())
}

// payableOrder loads the order and checks it can receive a payment from the
// actor.
func (s *Service) payableOrder(ctx context.Context, actor user.Actor, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return nil, apperrors.NotFound("order")
		}
		return nil, err
	}
	if o.UserID != actor.ID && !actor.Is(user.RoleOperator, user.RoleAdmin) {
		return nil, apperrors.NotFound("order")
	}
	if o.Status != order.StatusPending {
		return nil, apperrors.InvalidState("payment", string(o.Status))
	}
	return o, nil
}

// PayCard charges the order total on a credit or debit card. Debit cards
// always pay in a single installment.
func (s *Service) PayCard(ctx context.Context, actor user.Actor, orderID uuid.UUID, method Method, in CardInput) (*Payment, error) {
	if method != MethodCreditCard && method != MethodDebitCard {
		return nil, apperrors.Validation("method must be credit_card or debit_card")
	}
	if method == MethodDebitCard && in.Installments > 1 {
		return nil, apperrors.Validation("debit cards pay in a single installment")
	}
	if in.Installments == 0 {
		in.Installments = 1
	}
	if err := ValidateCard(in, s.cfg.MaxInstallments, s.now()); err != nil {
		return nil, err
	}

	o, err := s.payableOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	p := &Payment{
		ID:      uuid.New(),
		OrderID: o.ID,
		UserID:  o.UserID,
		Method:  method,
		Status:  StatusPending,
		Amount:  o.Total,
		Card: &CardData{
			HolderName:   in.HolderName,
			MaskedNumber: MaskPAN(in.Number),
			Installments: in.Installments,
		},
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return s.charge(ctx, p, in)
}

// charge runs the gateway call and settles the payment either way.
func (s *Service) charge(ctx context.Context, p *Payment, in CardInput) (*Payment, error) {
	auth, err := s.gateway.Charge(ctx, gateway.CardCharge{
		Number:       in.Number,
		HolderName:   in.HolderName,
		ExpiryMonth:  in.ExpiryMonth,
		ExpiryYear:   in.ExpiryYear,
		CVV:          in.CVV,
		Amount:       p.Amount,
		Installments: in.Installments,
	})
	if err != nil {
		var decline *gateway.DeclineError
		if errors.As(err, &decline) {
			if ferr := p.MarkFailed(string(decline.Code)); ferr != nil {
				return nil, ferr
			}
			if uerr := s.repo.Update(ctx, p); uerr != nil {
				return nil, uerr
			}
			s.metrics.RecordPayment(string(p.Method), "declined")
			s.metrics.RecordGatewayDecline(string(decline.Code))
			s.logger.Info("payment declined",
				zap.String("payment_id", p.ID.String()),
				zap.String("code", string(decline.Code)),
			)
			return nil, apperrors.GatewayDeclined(string(decline.Code), decline.Message)
		}

		// Infrastructure failure. The payment stays failed but retryable.
		if ferr := p.MarkFailed("gateway_unavailable"); ferr == nil {
			_ = s.repo.Update(ctx, p)
		}
		s.metrics.RecordPayment(string(p.Method), "error")
		s.logger.Error("gateway call failed",
			zap.String("payment_id", p.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	p.Card.Brand = auth.Brand
	if err := p.MarkPaid(s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(string(p.Method), "approved")
	s.logger.Info("payment approved",
		zap.String("payment_id", p.ID.String()),
		zap.String("order_id", p.OrderID.String()),
		zap.String("auth_code", auth.AuthCode),
	)
	s.bus.Publish(events.NewPaymentApproved(p.ID, p.OrderID, p.Amount))
	return p, nil
}

// CreatePix opens a PIX charge for the order total.
func (s *Service) CreatePix(ctx context.Context, actor user.Actor, orderID uuid.UUID, in PixInput) (*Payment, error) {
	o, err := s.payableOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if err := ValidatePix(in, o.Total); err != nil {
		return nil, err
	}

	now := s.now()
	p := &Payment{
		ID:      uuid.New(),
		OrderID: o.ID,
		UserID:  o.UserID,
		Method:  MethodPix,
		Status:  StatusPending,
		Amount:  o.Total,
		Pix:     s.newPixData(now, in),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(string(MethodPix), "created")
	s.logger.Info("pix charge created",
		zap.String("payment_id", p.ID.String()),
		zap.String("txid", p.Pix.TxID),
	)
	return p, nil
}

// newPixData builds the charge details with a fresh transaction id.
func (s *Service) newPixData(now time.Time, in PixInput) *PixData {
	txid := fmt.Sprintf("pix_%d_%s", now.UnixMilli(), random.LowerAlphaNum(9))
	return &PixData{
		TxID:      txid,
		Key:       s.cfg.PixKey,
		QRCode:    "pix.qr.com/" + txid,
		PayerCPF:  in.PayerCPF,
		PayerCNPJ: in.PayerCNPJ,
		ExpiresAt: now.Add(s.cfg.PixExpiry),
	}
}

// GetPixStatus resolves the charge by transaction id. Expiry is evaluated at
// query time and persisted when crossed.
func (s *Service) GetPixStatus(ctx context.Context, txid string) (*Payment, error) {
	p, err := s.repo.GetByTxID(ctx, txid)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			return nil, apperrors.NotFound("pix charge")
		}
		return nil, err
	}

	if p.PixExpired(s.now()) {
		if err := p.MarkExpired(); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, p); err != nil {
			return nil, err
		}
		s.metrics.RecordPayment(string(MethodPix), "expired")
	}
	return p, nil
}

// ConfirmPix settles a pending PIX charge, standing in for the bank
// callback.
func (s *Service) ConfirmPix(ctx context.Context, txid string) (*Payment, error) {
	p, err := s.GetPixStatus(ctx, txid)
	if err != nil {
		return nil, err
	}

	if err := p.MarkPaid(s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(string(MethodPix), "approved")
	s.logger.Info("pix charge settled",
		zap.String("payment_id", p.ID.String()),
		zap.String("txid", txid),
	)
	s.bus.Publish(events.NewPaymentApproved(p.ID, p.OrderID, p.Amount))
	return p, nil
}

// Retry re-attempts a failed payment. Card retries need fresh card data;
// PIX retries issue a new transaction id and expiry.
func (s *Service) Retry(ctx context.Context, actor user.Actor, id uuid.UUID, in *CardInput) (*Payment, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := p.Retry(); err != nil {
		return nil, err
	}

	if p.Method == MethodPix {
		p.Pix = s.newPixData(s.now(), PixInput{PayerCPF: p.Pix.PayerCPF, PayerCNPJ: p.Pix.PayerCNPJ})
		if err := s.repo.Update(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	}

	if in == nil {
		return nil, apperrors.Validation("card data is required to retry")
	}
	if in.Installments == 0 {
		in.Installments = p.Card.Installments
	}
	if err := ValidateCard(*in, s.cfg.MaxInstallments, s.now()); err != nil {
		return nil, err
	}

	p.Card = &CardData{
		HolderName:   in.HolderName,
		MaskedNumber: MaskPAN(in.Number),
		Installments: in.Installments,
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.charge(ctx, p, *in)
}

// Get returns a payment visible to the actor.
func (s *Service) Get(ctx context.Context, actor user.Actor, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			return nil, apperrors.NotFound("payment")
		}
		return nil, err
	}
	if p.UserID != actor.ID && !actor.Is(user.RoleOperator, user.RoleAdmin) {
		return nil, apperrors.NotFound("payment")
	}
	return p, nil
}

// ListByOrder returns the payment attempts against an order.
func (s *Service) ListByOrder(ctx context.Context, actor user.Actor, orderID uuid.UUID) ([]Payment, error) {
	payments, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.Is(user.RoleOperator, user.RoleAdmin) {
		filtered := payments[:0]
		for _, p := range payments {
			if p.UserID == actor.ID {
				filtered = append(filtered, p)
			}
		}
		payments = filtered
	}
	return payments, nil
}

// cancelPending voids the pending payments of a cancelled order.
func (s *Service) cancelPending(ctx context.Context, orderID uuid.UUID) error {
	payments, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	for i := range payments {
		p := &payments[i]
		if p.Status != StatusPending {
			continue
		}
		if err := p.MarkCancelled(); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		s.logger.Info("payment cancelled with order",
			zap.String("payment_id", p.ID.String()),
			zap.String("order_id", orderID.String()),
		)
	}
	return nil
}
