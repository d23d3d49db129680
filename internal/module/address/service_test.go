package address

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
	actor := user.Actor{ID: uuid.New(), Role: user.RoleClient}
	return NewService(NewMemoryRepository(), zap.NewNop()), actor
}

func validAddress() Input {
	return Input{
		Type:   TypeResidential,
		Street: "Av. Paulista",
		Number: "1000",
		City:   "Sao Paulo",
		State:  "sp",
		CEP:    "01310-100",
	}
}

func TestCreateFirstAddressIsDefault(t *testing.T) {
	svc, actor := newTestService()

	a, err := svc.Create(context.Background(), actor, validAddress())
	require.NoError(t, err)
	assert.True(t, a.IsDefault)
	assert.Equal(t, "SP", a.State)
}

func TestCEPValidation(t *testing.T) {
	svc, actor := newTestService()

	for _, cep := range []string{"01310100", "01310-100"} {
		in := validAddress()
		in.CEP = cep
		_, err := svc.Create(context.Background(), actor, in)
		assert.NoError(t, err, "cep %s should be accepted", cep)
	}

	for _, cep := range []string{"", "0131-100", "01310-10a", "013101000"} {
		in := validAddress()
		in.CEP = cep
		_, err := svc.Create(context.Background(), actor, in)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "cep %q should be rejected", cep)
	}
}

func TestSingleDefault(t *testing.T) {
	svc, actor := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, actor, validAddress())
	require.NoError(t, err)

	second := validAddress()
	second.IsDefault = true
	b, err := svc.Create(ctx, actor, second)
	require.NoError(t, err)
	assert.True(t, b.IsDefault)

	addrs, err := svc.List(ctx, actor)
	require.NoError(t, err)
	require.Len(t, addrs, 2)

	defaults := 0
	for _, a := range addrs {
		if a.IsDefault {
			defaults++
			assert.Equal(t, b.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)
	_ = first
}

func TestDeleteDefaultPromotesAnother(t *testing.T) {
	svc, actor := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, actor, validAddress())
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor, validAddress())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, actor, a.ID))

	addrs, err := svc.List(ctx, actor)
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.True(t, addrs[0].IsDefault)
}

func TestGetOtherUsersAddress(t *testing.T) {
	svc, actor := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, actor, validAddress())
	require.NoError(t, err)

	stranger := user.Actor{ID: uuid.New(), Role: user.RoleClient}
	_, err = svc.Get(ctx, stranger, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
