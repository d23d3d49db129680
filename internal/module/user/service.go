package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
)

// Service implements account registration and login.
type Service struct {
	repo   Repository
	tokens *JWTManager
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, tokens *JWTManager, logger *zap.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// Register creates a new account. Role defaults to client; supplier accounts
// may self-register, privileged roles are provisioned out of band.
func (s *Service) Register(ctx context.Context, name, email, password string, role Role) (*User, error) {
	var details []string
	if strings.TrimSpace(name) == "" {
		details = append(details, "name is required")
	}
	if !strings.Contains(email, "@") {
		details = append(details, "email is invalid")
	}
	if len(password) < 6 {
		details = append(details, "password must have at least 6 characters")
	}
	if role == "" {
		role = RoleClient
	}
	if role != RoleClient && role != RoleSupplier {
		details = append(details, "role must be client or supplier")
	}
	if len(details) > 0 {
		return nil, apperrors.Validation(details...)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.Validation("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperrors.Validation("email already registered")
		}
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)),
	)
	return u, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !u.Active {
		return nil, "", ErrUserInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, err
	}
	return u, nil
}
