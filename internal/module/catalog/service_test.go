package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/e2ecommerce/server/internal/module/user"
	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
)

func newTestService() (*Service, user.Actor) {
	supplier := user.Actor{ID: uuid.New(), Role: user.RoleSupplier}
	return NewService(NewMemoryRepository(), zap.NewNop()), supplier
}

func validInput() CreateInput {
	return CreateInput{
		SKU:      "tv-55-4k",
		Name:     "Smart TV 55",
		Category: "electronics",
		Price:    299900,
		Stock:    10,
		MaxStock: 50,
	}
}

func TestCreateProduct(t *testing.T) {
	svc, supplier := newTestService()

	p, err := svc.Create(context.Background(), supplier, validInput())
	require.NoError(t, err)
	assert.Equal(t, "TV-55-4K", p.SKU)
	assert.Equal(t, supplier.ID, p.SupplierID)
	assert.True(t, p.Active)
}

func TestCreateProductValidation(t *testing.T) {
	svc, supplier := newTestService()

	in := CreateInput{SKU: "", Name: "", Price: 0, Stock: 5, MaxStock: 2}
	_, err := svc.Create(context.Background(), supplier, in)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Len(t, appErr.Details, 4)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	svc, supplier := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, supplier, validInput())
	require.NoError(t, err)

	_, err = svc.Create(ctx, supplier, validInput())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateOwnership(t *testing.T) {
	svc, supplier := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, supplier, validInput())
	require.NoError(t, err)

	other := user.Actor{ID: uuid.New(), Role: user.RoleSupplier}
	name := "Renamed"
	_, err = svc.Update(ctx, other, p.ID, UpdateInput{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	admin := user.Actor{ID: uuid.New(), Role: user.RoleAdmin}
	updated, err := svc.Update(ctx, admin, p.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestAdjustStockBounds(t *testing.T) {
	svc, supplier := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, supplier, validInput())
	require.NoError(t, err)

	updated, err := svc.AdjustStock(ctx, supplier, p.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Stock)

	_, err = svc.AdjustStock(ctx, supplier, p.ID, 20)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.AdjustStock(ctx, supplier, p.ID, -50)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	updated, err = svc.AdjustStock(ctx, supplier, p.ID, -40)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
}

func TestDeactivateHidesFromPublicListing(t *testing.T) {
	svc, supplier := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, supplier, validInput())
	require.NoError(t, err)

	_, err = svc.Deactivate(ctx, supplier, p.ID)
	require.NoError(t, err)

	products, total, err := svc.List(ctx, ListFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, products)

	products, total, err = svc.List(ctx, ListFilter{SupplierID: supplier.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.False(t, products[0].Active)
}
