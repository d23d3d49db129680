package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository(), NewJWTManager("test-secret", time.Hour), zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "Ana Silva", "ana@example.com", "secret123", RoleClient)
	require.NoError(t, err)
	assert.Equal(t, RoleClient, u.Role)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	logged, token, err := svc.Login(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@example.com", "secret123", RoleClient)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Ana", "ANA@example.com", "secret456", RoleClient)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(context.Background(), "", "not-an-email", "abc", RoleAdmin)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Len(t, appErr.Details, 4)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@example.com", "secret123", RoleClient)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	u := &User{ID: uuid.New(), Email: "ana@example.com", Role: RoleSupplier}

	token, err := mgr.Issue(u)
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, RoleSupplier, claims.Role)
}
