package address

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/e2ecommerce/server/internal/module/user"
	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
)

var cepPattern = regexp.MustCompile(`^\d{5}-?\d{3}$`)

// Service implements the user address book.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new address service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Input carries the fields for creating or updating an address.
type Input struct {
	Type       Type
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string
	CEP        string
	IsDefault  bool
}

func (in *Input) validate() []string {
	var details []string
	if in.Type == "" {
		in.Type = TypeResidential
	}
	if !in.Type.Valid() {
		details = append(details, "type must be residential, commercial or delivery")
	}
	if strings.TrimSpace(in.Street) == "" {
		details = append(details, "street is required")
	}
	if strings.TrimSpace(in.Number) == "" {
		details = append(details, "number is required")
	}
	if strings.TrimSpace(in.City) == "" {
		details = append(details, "city is required")
	}
	in.State = strings.ToUpper(strings.TrimSpace(in.State))
	if len(in.State) != 2 {
		details = append(details, "state must be a two letter code")
	}
	if !cepPattern.MatchString(in.CEP) {
		details = append(details, "cep must match 00000-000")
	}
	return details
}

// Create adds an address to the actor's address book. The first address is
// always the default.
func (s *Service) Create(ctx context.Context, actor user.Actor, in Input) (*Address, error) {
	if details := in.validate(); len(details) > 0 {
		return nil, apperrors.Validation(details...)
	}

	existing, err := s.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	a := &Address{
		ID:         uuid.New(),
		UserID:     actor.ID,
		Type:       in.Type,
		Street:     strings.TrimSpace(in.Street),
		Number:     strings.TrimSpace(in.Number),
		Complement: in.Complement,
		District:   in.District,
		City:       strings.TrimSpace(in.City),
		State:      in.State,
		CEP:        in.CEP,
		IsDefault:  in.IsDefault || len(existing) == 0,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns the actor's addresses, default first.
func (s *Service) List(ctx context.Context, actor user.Actor) ([]Address, error) {
	return s.repo.ListByUser(ctx, actor.ID)
}

// Get returns one of the actor's addresses.
func (s *Service) Get(ctx context.Context, actor user.Actor, id uuid.UUID) (*Address, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			return nil, apperrors.NotFound("address")
		}
		return nil, err
	}
	if a.UserID != actor.ID && !actor.Is(user.RoleAdmin, user.RoleOperator) {
		return nil, apperrors.NotFound("address")
	}
	return a, nil
}

// Update replaces an address's fields.
func (s *Service) Update(ctx context.Context, actor user.Actor, id uuid.UUID, in Input) (*Address, error) {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if details := in.validate(); len(details) > 0 {
		return nil, apperrors.Validation(details...)
	}

	a.Type = in.Type
	a.Street = strings.TrimSpace(in.Street)
	a.Number = strings.TrimSpace(in.Number)
	a.Complement = in.Complement
	a.District = in.District
	a.City = strings.TrimSpace(in.City)
	a.State = in.State
	a.CEP = in.CEP
	if in.IsDefault {
		a.IsDefault = true
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// SetDefault marks one of the actor's addresses as default.
func (s *Service) SetDefault(ctx context.Context, actor user.Actor, id uuid.UUID) error {
	if err := s.repo.SetDefault(ctx, actor.ID, id); err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			return apperrors.NotFound("address")
		}
		return err
	}
	return nil
}

// Delete removes an address. Deleting the default promotes the most recent
// remaining address.
func (s *Service) Delete(ctx context.Context, actor user.Actor, id uuid.UUID) error {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if a.IsDefault {
		remaining, err := s.repo.ListByUser(ctx, a.UserID)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			if err := s.repo.SetDefault(ctx, a.UserID, remaining[0].ID); err != nil {
				return err
			}
		}
	}
	return nil
}
