package logistics

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/e2ecommerce/server/internal/module/user"
	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
	"github.com/e2ecommerce/server/internal/shared/events"
	"github.com/e2ecommerce/server/internal/utils/metrics"
)

func newTestService() *Service {
	logger := zap.NewNop()
	return NewService(
		NewMemoryRepository(),
		FeePolicy{FreeThreshold: 39900, FlatFee: 10000},
		"E2E",
		events.NewBus(logger),
		metrics.New("test"),
		logger,
	)
}

func operator() user.Actor {
	return user.Actor{ID: uuid.New(), Role: user.RoleOperator}
}

func TestOpenIsIdempotentPerOrder(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	orderID := uuid.New()

	first, err := svc.Open(ctx, orderID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingShipment, first.Status)

	second, err := svc.Open(ctx, orderID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestDispatchAssignsTrackingCodeOnce(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	op := operator()

	rec, err := svc.Open(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, rec.TrackingCode)

	rec, err = svc.UpdateStatus(ctx, op, rec.ID, StatusInTransit, "", "Correios")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rec.TrackingCode, "E2E"))
	assert.Len(t, rec.TrackingCode, 15)
	assert.Equal(t, "Correios", rec.Carrier)
	assert.NotNil(t, rec.ShippingDate)

	code := rec.TrackingCode
	rec, err = svc.UpdateStatus(ctx, op, rec.ID, StatusDelivered, "", "")
	require.NoError(t, err)
	assert.Equal(t, code, rec.TrackingCode)
	assert.NotNil(t, rec.DeliveryDate)
}

func TestUpdateStatusValidatesGraph(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	op := operator()

	rec, err := svc.Open(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)

	rec, err = svc.UpdateStatus(ctx, op, rec.ID, StatusDelivered, "", "")
	require.NoError(t, err)
	assert.False(t, rec.CanBeUpdated())

	_, err = svc.UpdateStatus(ctx, op, rec.ID, StatusInTransit, "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestHistoryIsAppendOnly(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	op := operator()

	rec, err := svc.Open(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)

	rec, err = svc.UpdateStatus(ctx, op, rec.ID, StatusInTransit, "left warehouse", "")
	require.NoError(t, err)
	rec, err = svc.UpdateStatus(ctx, op, rec.ID, StatusDelivered, "", "")
	require.NoError(t, err)

	require.Len(t, rec.History, 2)
	assert.Equal(t, StatusAwaitingShipment, rec.History[0].FromStatus)
	assert.Equal(t, StatusInTransit, rec.History[0].ToStatus)
	assert.Equal(t, "left warehouse", rec.History[0].Reason)
	assert.False(t, rec.History[0].IsCorrection)
	assert.Equal(t, StatusInTransit, rec.History[1].FromStatus)
	assert.Equal(t, StatusDelivered, rec.History[1].ToStatus)
}

func TestCorrectBypassesGraph(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	op := operator()
	admin := user.Actor{ID: uuid.New(), Role: user.RoleAdmin}

	rec, err := svc.Open(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)
	rec, err = svc.UpdateStatus(ctx, op, rec.ID, StatusDelivered, "", "")
	require.NoError(t, err)

	// Operators cannot correct.
	_, err = svc.Correct(ctx, op, rec.ID, StatusInTransit, "scanned at the wrong hub")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Short reasons are rejected, counting characters, not bytes.
	_, err = svc.Correct(ctx, admin, rec.ID, StatusInTransit, "oops")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = svc.Correct(ctx, admin, rec.ID, StatusInTransit, "ééééé")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	rec, err = svc.Correct(ctx, admin, rec.ID, StatusInTransit, "scanned at the wrong hub")
	require.NoError(t, err)
	assert.Equal(t, StatusInTransit, rec.Status)

	last := rec.History[len(rec.History)-1]
	assert.True(t, last.IsCorrection)
	assert.Equal(t, StatusDelivered, last.FromStatus)
	assert.Equal(t, admin.ID, last.ActorID)
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, StatusAwaitingShipment.Progress())
	assert.Equal(t, 50, StatusInTransit.Progress())
	assert.Equal(t, 100, StatusDelivered.Progress())
}

func TestFeePolicy(t *testing.T) {
	policy := FeePolicy{FreeThreshold: 39900, FlatFee: 10000}

	assert.Equal(t, int64(10000), policy.Fee(100))
	assert.Equal(t, int64(10000), policy.Fee(39899))
	assert.Zero(t, policy.Fee(39900))
	assert.Zero(t, policy.Fee(1000000))
}

func TestOrderPaidEventOpensShipment(t *testing.T) {
	svc := newTestService()
	handler := NewEventHandler(svc)
	orderID := uuid.New()
	owner := user.Actor{ID: uuid.New(), Role: user.RoleClient}

	require.NoError(t, handler.Handle(events.NewOrderPaid(orderID, owner.ID)))

	rec, err := svc.GetByOrder(context.Background(), owner, orderID)
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingShipment, rec.Status)
	assert.Equal(t, owner.ID, rec.UserID)
}

func TestGetByOrderHidesOtherUsersShipments(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	orderID := uuid.New()
	owner := user.Actor{ID: uuid.New(), Role: user.RoleClient}

	_, err := svc.Open(ctx, orderID, owner.ID)
	require.NoError(t, err)

	_, err = svc.GetByOrder(ctx, owner, orderID)
	require.NoError(t, err)

	stranger := user.Actor{ID: uuid.New(), Role: user.RoleClient}
	_, err = svc.GetByOrder(ctx, stranger, orderID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.GetByOrder(ctx, operator(), orderID)
	assert.NoError(t, err)
}
