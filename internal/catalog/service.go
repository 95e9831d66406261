package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/policy"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

type Service struct {
	Repo *GormRepo

	// Search and Index are optional. Without Search the term is matched
	// against name and description in process.
	Search Searcher
	Index  Indexer
}

// ListRestaurants returns the restaurants p may view that match term.
func (s *Service) ListRestaurants(ctx context.Context, p *domain.Principal, term string) ([]models.Restaurant, error) {
	all, err := s.Repo.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}
	visible := policy.VisibleRestaurants(p, all)

	term = strings.TrimSpace(term)
	if term == "" {
		return visible, nil
	}

	// search hits only add to the substring matches, so results do not
	// depend on whether a search backend is configured
	hit := map[string]bool{}
	if s.Search != nil {
		ids, err := s.Search.SearchRestaurants(ctx, term)
		if err != nil {
			logging.FromContext(ctx).Warn("search_fallback", "reason", "search backend failed", "error", err)
		}
		for _, id := range ids {
			hit[id] = true
		}
	}

	out := make([]models.Restaurant, 0, len(visible))
	for _, r := range visible {
		if hit[r.ID] || matchesTerm(r, term) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) GetRestaurant(ctx context.Context, p *domain.Principal, id string) (*models.Restaurant, error) {
	r, err := s.Repo.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewRestaurant(p, *r) {
		return nil, fmt.Errorf("restaurant %s: %w", id, domain.ErrUnauthorized)
	}
	return r, nil
}

func (s *Service) Menu(ctx context.Context, p *domain.Principal, restaurantID string) ([]models.MenuItem, error) {
	if _, err := s.GetRestaurant(ctx, p, restaurantID); err != nil {
		return nil, err
	}
	return s.Repo.ListMenu(ctx, restaurantID)
}

type RestaurantInput struct {
	Name        string         `json:"name"`
	Country     domain.Country `json:"country"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
}

func (in RestaurantInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if !in.Country.Valid() {
		return fmt.Errorf("country %q is unknown: %w", in.Country, domain.ErrValidation)
	}
	return nil
}

func (in RestaurantInput) model(id string) models.Restaurant {
	return models.Restaurant{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Country:     in.Country,
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
	}
}

type DishInput struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	RestaurantID string          `json:"restaurant_id"`
	Description  string          `json:"description"`
	Image        string          `json:"image"`
}

func (in DishInput) model(id string) models.MenuItem {
	return models.MenuItem{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		Price:        in.Price.Round(2),
		RestaurantID: in.RestaurantID,
		Description:  strings.TrimSpace(in.Description),
		Image:        strings.TrimSpace(in.Image),
	}
}

func authorize(p *domain.Principal) error {
	if !policy.CanAccessAdminArea(p) {
		return fmt.Errorf("admin area: %w", domain.ErrUnauthorized)
	}
	return nil
}

func (s *Service) AdminRestaurants(ctx context.Context, p *domain.Principal) ([]models.Restaurant, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}
	return s.Repo.ListRestaurants(ctx)
}

func (s *Service) CreateRestaurant(ctx context.Context, p *domain.Principal, in RestaurantInput) (*models.Restaurant, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	r := in.model("")
	if err := s.Repo.CreateRestaurant(ctx, &r); err != nil {
		return nil, err
	}
	s.reindex(ctx, r)
	return &r, nil
}

func (s *Service) UpdateRestaurant(ctx context.Context, p *domain.Principal, id string, in RestaurantInput) (*models.Restaurant, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	r := in.model(id)
	if err := s.Repo.UpdateRestaurant(ctx, &r); err != nil {
		return nil, err
	}
	s.reindex(ctx, r)
	return &r, nil
}

func (s *Service) DeleteRestaurant(ctx context.Context, p *domain.Principal, id string) error {
	if err := authorize(p); err != nil {
		return err
	}
	if err := s.Repo.DeleteRestaurant(ctx, id); err != nil {
		return err
	}
	if s.Index != nil {
		if err := s.Index.RemoveRestaurant(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "restaurant_id", id, "error", err)
		}
	}
	return nil
}

func (s *Service) AdminDishes(ctx context.Context, p *domain.Principal, restaurantID string) ([]models.MenuItem, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}
	return s.Repo.ListMenu(ctx, restaurantID)
}

func (s *Service) CreateDish(ctx context.Context, p *domain.Principal, in DishInput) (*models.MenuItem, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}
	if err := s.validateDish(ctx, in); err != nil {
		return nil, err
	}
	item := in.model("")
	if err := s.Repo.CreateMenuItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) UpdateDish(ctx context.Context, p *domain.Principal, id string, in DishInput) (*models.MenuItem, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}
	if err := s.validateDish(ctx, in); err != nil {
		return nil, err
	}
	item := in.model(id)
	if err := s.Repo.UpdateMenuItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) DeleteDish(ctx context.Context, p *domain.Principal, id string) error {
	if err := authorize(p); err != nil {
		return err
	}
	return s.Repo.DeleteMenuItem(ctx, id)
}

func (s *Service) validateDish(ctx context.Context, in DishInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("price must not be negative: %w", domain.ErrValidation)
	}
	if in.RestaurantID == "" {
		return fmt.Errorf("restaurant is required: %w", domain.ErrValidation)
	}
	if _, err := s.Repo.GetRestaurant(ctx, in.RestaurantID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("restaurant %s does not exist: %w", in.RestaurantID, domain.ErrValidation)
		}
		return err
	}
	return nil
}

func (s *Service) reindex(ctx context.Context, r models.Restaurant) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexRestaurant(ctx, r); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "restaurant_id", r.ID, "error", err)
	}
}
