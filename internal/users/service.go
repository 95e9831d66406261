package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/policy"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

type Input struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Role    domain.Role    `json:"role"`
	Country domain.Country `json:"country"`
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if !strings.Contains(in.Email, "@") {
		return fmt.Errorf("email is invalid: %w", domain.ErrValidation)
	}
	if !in.Role.Valid() {
		return fmt.Errorf("role %q is unknown: %w", in.Role, domain.ErrValidation)
	}
	if !in.Country.Valid() {
		return fmt.Errorf("country %q is unknown: %w", in.Country, domain.ErrValidation)
	}
	return nil
}

// Service manages user accounts from the admin area.
type Service struct {
	Repo *GormRepo
}

func authorize(p *domain.Principal) error {
	if !policy.CanAccessAdminArea(p) {
		return fmt.Errorf("admin area: %w", domain.ErrUnauthorized)
	}
	return nil
}

func (s *Service) List(ctx context.Context, p *domain.Principal, offset, limit int) ([]models.User, int64, error) {
	if err := authorize(p); err != nil {
		return nil, 0, err
	}
	return s.Repo.List(ctx, offset, limit)
}

func (s *Service) Create(ctx context.Context, p *domain.Principal, in Input) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.create")
	if err := authorize(p); err != nil {
		return nil, err
	}
	in.Email = domain.NormalizeEmail(in.Email)
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, in.Email, ""); err != nil {
		return nil, err
	}

	u := &models.User{Name: strings.TrimSpace(in.Name), Email: in.Email, Role: in.Role, Country: in.Country}
	if err := s.Repo.Create(ctx, u); err != nil {
		l.Error("create_user_error", "status", 500, "error", err)
		return nil, err
	}
	l.Info("user_created", "user_id", u.ID, "by", p.ID)
	return u, nil
}

func (s *Service) Update(ctx context.Context, p *domain.Principal, id string, in Input) (*models.User, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}
	in.Email = domain.NormalizeEmail(in.Email)
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, in.Email, id); err != nil {
		return nil, err
	}

	u := &models.User{ID: id, Name: strings.TrimSpace(in.Name), Email: in.Email, Role: in.Role, Country: in.Country}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, p *domain.Principal, id string) error {
	if err := authorize(p); err != nil {
		return err
	}
	if id == p.ID {
		return fmt.Errorf("cannot delete the signed-in account: %w", domain.ErrValidation)
	}
	return s.Repo.Delete(ctx, id)
}

func (s *Service) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	taken, err := s.Repo.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("email %s already in use: %w", email, domain.ErrValidation)
	}
	return nil
}
