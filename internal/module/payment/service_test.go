package payment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/e2ecommerce/server/internal/module/order"
	"github.com/e2ecommerce/server/internal/module/payment/gateway"
	"github.com/e2ecommerce/server/internal/module/user"
	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
	"github.com/e2ecommerce/server/internal/shared/events"
	"github.com/e2ecommerce/server/internal/utils/metrics"
)

type stubOrders struct {
	orders map[uuid.UUID]*order.Order
}

func (s *stubOrders) GetByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

type paymentFixture struct {
	svc    *Service
	repo   *MemoryRepository
	client user.Actor
	order  *order.Order
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	client := user.Actor{ID: uuid.New(), Role: user.RoleClient}
	o := &order.Order{
		ID:     uuid.New(),
		UserID: client.ID,
		Status: order.StatusPending,
		Total:  100000,
	}

	repo := NewMemoryRepository()
	logger := zap.NewNop()
	svc := NewService(
		repo,
		&stubOrders{orders: map[uuid.UUID]*order.Order{o.ID: o}},
		gateway.NewMock(),
		Config{
			PixKey:          "pix@e2etreinamentos.com.br",
			PixExpiry:       30 * time.Minute,
			MonthlyRate:     0.01,
			MaxInstallments: 10,
		},
		events.NewBus(logger),
		metrics.New("test"),
		logger,
	)

	return &paymentFixture{svc: svc, repo: repo, client: client, order: o}
}

func approvedCard() CardInput {
	return CardInput{
		HolderName:   "ANA SILVA",
		Number:       "4111111111111111",
		ExpiryMonth:  12,
		ExpiryYear:   2030,
		CVV:          "123",
		Installments: 3,
	}
}

func TestPayCreditCardApproved(t *testing.T) {
	f := newPaymentFixture(t)

	p, err := f.svc.PayCard(context.Background(), f.client, f.order.ID, MethodCreditCard, approvedCard())
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, p.Status)
	assert.Equal(t, int64(100000), p.Amount)
	assert.Equal(t, "visa", p.Card.Brand)
	assert.Equal(t, "**** **** **** 1111", p.Card.MaskedNumber)
	assert.NotNil(t, p.PaidAt)
}

func TestPayCardDeclined(t *testing.T) {
	f := newPaymentFixture(t)

	in := approvedCard()
	in.Number = "4000000000000002"
	_, err := f.svc.PayCard(context.Background(), f.client, f.order.ID, MethodCreditCard, in)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrGatewayDeclined)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "insufficient_funds", appErr.Code)

	// The failed attempt is persisted and retryable.
	payments, err := f.repo.ListByOrder(context.Background(), f.order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, StatusFailed, payments[0].Status)
	assert.Equal(t, "insufficient_funds", payments[0].DeclineCode)
}

func TestDebitCardSingleInstallment(t *testing.T) {
	f := newPaymentFixture(t)

	in := approvedCard()
	_, err := f.svc.PayCard(context.Background(), f.client, f.order.ID, MethodDebitCard, in)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	in.Installments = 1
	p, err := f.svc.PayCard(context.Background(), f.client, f.order.ID, MethodDebitCard, in)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Card.Installments)
}

func TestPayCardOrderNotPending(t *testing.T) {
	f := newPaymentFixture(t)
	f.order.Status = order.StatusPaid

	_, err := f.svc.PayCard(context.Background(), f.client, f.order.ID, MethodCreditCard, approvedCard())
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestRetryAfterDecline(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	declined := approvedCard()
	declined.Number = "4000000000000119"
	_, err := f.svc.PayCard(ctx, f.client, f.order.ID, MethodCreditCard, declined)
	require.ErrorIs(t, err, apperrors.ErrGatewayDeclined)

	payments, err := f.repo.ListByOrder(ctx, f.order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)

	good := approvedCard()
	p, err := f.svc.Retry(ctx, f.client, payments[0].ID, &good)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, p.Status)
	assert.Empty(t, p.DeclineCode)
}

func TestRetryNonFailedPayment(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	p, err := f.svc.PayCard(ctx, f.client, f.order.ID, MethodCreditCard, approvedCard())
	require.NoError(t, err)

	good := approvedCard()
	_, err = f.svc.Retry(ctx, f.client, p.ID, &good)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestCreatePix(t *testing.T) {
	f := newPaymentFixture(t)

	p, err := f.svc.CreatePix(context.Background(), f.client, f.order.ID, PixInput{PayerCPF: "12345678901"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, p.Status)
	require.NotNil(t, p.Pix)
	assert.True(t, strings.HasPrefix(p.Pix.TxID, "pix_"))
	assert.Equal(t, "pix@e2etreinamentos.com.br", p.Pix.Key)
	assert.Equal(t, "pix.qr.com/"+p.Pix.TxID, p.Pix.QRCode)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), p.Pix.ExpiresAt, 5*time.Second)
}

func TestPixExpiresAtQueryTime(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePix(ctx, f.client, f.order.ID, PixInput{PayerCPF: "12345678901"})
	require.NoError(t, err)

	got, err := f.svc.GetPixStatus(ctx, p.Pix.TxID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	f.svc.now = func() time.Time { return time.Now().Add(31 * time.Minute) }
	got, err = f.svc.GetPixStatus(ctx, p.Pix.TxID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, got.Status)

	// Expiry is persisted, not just reported.
	stored, err := f.repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, stored.Status)

	_, err = f.svc.ConfirmPix(ctx, p.Pix.TxID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestConfirmPix(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePix(ctx, f.client, f.order.ID, PixInput{PayerCNPJ: "12345678000195"})
	require.NoError(t, err)

	settled, err := f.svc.ConfirmPix(ctx, p.Pix.TxID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, settled.Status)
}

func TestCancelPendingOnOrderCancelled(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePix(ctx, f.client, f.order.ID, PixInput{PayerCPF: "12345678901"})
	require.NoError(t, err)

	handler := NewEventHandler(f.svc)
	require.NoError(t, handler.Handle(events.NewOrderCancelled(f.order.ID, "cancelled by the customer")))

	stored, err := f.repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
}
