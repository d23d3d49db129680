package order

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/e2ecommerce/server/internal/module/address"
	"github.com/e2ecommerce/server/internal/module/catalog"
	"github.com/e2ecommerce/server/internal/module/logistics"
	"github.com/e2ecommerce/server/internal/module/user"
	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
	"github.com/e2ecommerce/server/internal/shared/events"
	"github.com/e2ecommerce/server/internal/utils/metrics"
)

type fixture struct {
	svc      *Service
	products *catalog.MemoryRepository
	client   user.Actor
	operator user.Actor
	product  *catalog.Product
	addr     *address.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	client := user.Actor{ID: uuid.New(), Role: user.RoleClient}
	products := catalog.NewMemoryRepository()
	addresses := address.NewMemoryRepository()

	product := &catalog.Product{
		ID:       uuid.New(),
		SKU:      "TV-55-4K",
		Name:     "Smart TV 55",
		Price:    150000,
		Stock:    10,
		MaxStock: 50,
		Active:   true,
	}
	require.NoError(t, products.Create(context.Background(), product))

	addr := &address.Address{
		ID:     uuid.New(),
		UserID: client.ID,
		Street: "Av. Paulista",
		Number: "1000",
		City:   "Sao Paulo",
		State:  "SP",
		CEP:    "01310-100",
	}
	require.NoError(t, addresses.Create(context.Background(), addr))

	logger := zap.NewNop()
	svc := NewService(
		NewMemoryRepository(products),
		products,
		addresses,
		logistics.FeePolicy{FreeThreshold: 39900, FlatFee: 10000},
		events.NewBus(logger),
		metrics.New("test"),
		logger,
	)

	return &fixture{
		svc:      svc,
		products: products,
		client:   client,
		operator: user.Actor{ID: uuid.New(), Role: user.RoleOperator},
		product:  product,
		addr:     addr,
	}
}

func (f *fixture) checkout(t *testing.T, qty int) *Order {
	t.Helper()
	o, err := f.svc.Checkout(context.Background(), f.client, CheckoutInput{
		AddressID: f.addr.ID,
		Items:     []CheckoutItem{{ProductID: f.product.ID, Quantity: qty}},
	})
	require.NoError(t, err)
	return o
}

func TestCheckout(t *testing.T) {
	f := newFixture(t)

	o := f.checkout(t, 2)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, int64(300000), o.Subtotal)
	assert.Zero(t, o.Freight)
	assert.Equal(t, int64(300000), o.Total)
	assert.Equal(t, "01310-100", o.ShippingAddress.CEP)

	p, err := f.products.GetByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, p.Stock)
}

func TestCheckoutFreightBelowThreshold(t *testing.T) {
	f := newFixture(t)
	f.product.Price = 19900
	require.NoError(t, f.products.Update(context.Background(), f.product))

	o := f.checkout(t, 1)
	assert.Equal(t, int64(10000), o.Freight)
	assert.Equal(t, int64(29900), o.Total)
	assert.Equal(t, o.Subtotal+o.Freight, o.Total)
}

func TestCheckoutMergesDuplicateLines(t *testing.T) {
	f := newFixture(t)

	o, err := f.svc.Checkout(context.Background(), f.client, CheckoutInput{
		AddressID: f.addr.ID,
		Items: []CheckoutItem{
			{ProductID: f.product.ID, Quantity: 1},
			{ProductID: f.product.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 3, o.Items[0].Quantity)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(context.Background(), f.client, CheckoutInput{
		AddressID: f.addr.ID,
		Items:     []CheckoutItem{{ProductID: f.product.ID, Quantity: 11}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Stock untouched on failure.
	p, err := f.products.GetByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)
}

func TestCheckoutSomeoneElsesAddress(t *testing.T) {
	f := newFixture(t)
	stranger := user.Actor{ID: uuid.New(), Role: user.RoleClient}

	_, err := f.svc.Checkout(context.Background(), stranger, CheckoutInput{
		AddressID: f.addr.ID,
		Items:     []CheckoutItem{{ProductID: f.product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCancelPendingRestoresStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o := f.checkout(t, 3)
	cancelled, err := f.svc.Cancel(ctx, f.client, o.ID, "found a better price elsewhere")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	p, err := f.products.GetByID(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)
}

func TestCancelPaidOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o := f.checkout(t, 1)
	_, err := f.svc.UpdateStatus(ctx, f.operator, o.ID, StatusPaid, "")
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, f.client, o.ID, "item arrived damaged in transit")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
}

func TestCancelShippedOrderRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o := f.checkout(t, 1)
	_, err := f.svc.UpdateStatus(ctx, f.operator, o.ID, StatusPaid, "")
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, f.operator, o.ID, StatusShipped, "")
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, f.client, o.ID, "changed my mind about this")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	// Order untouched by the rejected cancel.
	got, err := f.svc.Get(ctx, f.client, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, got.Status)
	assert.Empty(t, got.CancelReason)
}

func TestCancelReasonTooShort(t *testing.T) {
	f := newFixture(t)

	o := f.checkout(t, 1)
	_, err := f.svc.Cancel(context.Background(), f.client, o.ID, "short")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Length is counted in characters, not bytes.
	_, err = f.svc.Cancel(context.Background(), f.client, o.ID, "ééééé")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReturnWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o := f.checkout(t, 1)
	for _, status := range []Status{StatusPaid, StatusShipped, StatusDelivered} {
		_, err := f.svc.UpdateStatus(ctx, f.operator, o.ID, status, "")
		require.NoError(t, err)
	}

	returned, err := f.svc.RequestReturn(ctx, f.client, o.ID, "product does not match description")
	require.NoError(t, err)
	assert.Equal(t, StatusReturned, returned.Status)
}

func TestReturnAfterDeadlineRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o := f.checkout(t, 1)
	for _, status := range []Status{StatusPaid, StatusShipped, StatusDelivered} {
		_, err := f.svc.UpdateStatus(ctx, f.operator, o.ID, status, "")
		require.NoError(t, err)
	}

	f.svc.now = func() time.Time { return time.Now().Add(ReturnWindow + time.Hour) }
	_, err := f.svc.RequestReturn(ctx, f.client, o.ID, "product does not match description")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestDirectDeliveryMarksOrderDelivered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	handler := NewEventHandler(f.svc)

	o := f.checkout(t, 1)
	_, err := f.svc.UpdateStatus(ctx, f.operator, o.ID, StatusPaid, "")
	require.NoError(t, err)

	// A shipment can be delivered without ever passing through in_transit;
	// the order still has to land on delivered with a return window.
	require.NoError(t, handler.Handle(events.NewShipmentDelivered(uuid.New(), o.ID)))

	got, err := f.svc.Get(ctx, f.client, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, got.Status)
	assert.NotNil(t, got.ShippedAt)
	assert.NotNil(t, got.DeliveredAt)
	require.NotNil(t, got.ReturnDeadline)
	assert.True(t, got.CanBeReturned(f.svc.now()))
}

func TestInvalidTransition(t *testing.T) {
	f := newFixture(t)

	o := f.checkout(t, 1)
	_, err := f.svc.UpdateStatus(context.Background(), f.operator, o.ID, StatusDelivered, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestListClientsOnlySeeOwnOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.checkout(t, 1)

	stranger := user.Actor{ID: uuid.New(), Role: user.RoleClient}
	orders, total, err := f.svc.List(ctx, stranger, ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)

	orders, total, err = f.svc.List(ctx, f.operator, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)
}
