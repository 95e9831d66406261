package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/events"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/policy"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

type MenuLookup interface {
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
}

// Service applies cart mutations for signed-in principals. Mutations for the
// same user are serialized so a load-modify-save cycle is never interleaved.
type Service struct {
	Store  Store
	Menu   MenuLookup
	Events events.Publisher

	locks sync.Map
}

func (s *Service) lock(userID string) func() {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func requireSession(p *domain.Principal) error {
	if p == nil {
		return fmt.Errorf("cart needs a session: %w", domain.ErrUnauthorized)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, p *domain.Principal) (*Cart, error) {
	if err := requireSession(p); err != nil {
		return nil, err
	}
	unlock := s.lock(p.ID)
	defer unlock()
	return s.Store.Load(ctx, p.ID)
}

func (s *Service) AddItem(ctx context.Context, p *domain.Principal, menuItemID string, confirmReplace bool) (*Cart, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add_item")
	if err := requireSession(p); err != nil {
		return nil, err
	}

	item, err := s.Menu.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.Menu.GetRestaurant(ctx, item.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewRestaurant(p, *restaurant) {
		l.Warn("add_item_denied", "status", 403, "user_id", p.ID, "restaurant_id", restaurant.ID)
		return nil, fmt.Errorf("restaurant %s: %w", restaurant.ID, domain.ErrUnauthorized)
	}

	return s.mutate(ctx, p.ID, func(c *Cart) error {
		return c.AddItem(*item, restaurant.ID, Always(confirmReplace))
	})
}

func (s *Service) RemoveItem(ctx context.Context, p *domain.Principal, menuItemID string) (*Cart, error) {
	if err := requireSession(p); err != nil {
		return nil, err
	}
	return s.mutate(ctx, p.ID, func(c *Cart) error {
		if !c.RemoveItem(menuItemID) {
			return fmt.Errorf("cart line %s: %w", menuItemID, domain.ErrNotFound)
		}
		return nil
	})
}

func (s *Service) SetQuantity(ctx context.Context, p *domain.Principal, menuItemID string, qty int) (*Cart, error) {
	if err := requireSession(p); err != nil {
		return nil, err
	}
	return s.mutate(ctx, p.ID, func(c *Cart) error {
		if !c.SetQuantity(menuItemID, qty) {
			return fmt.Errorf("cart line %s: %w", menuItemID, domain.ErrNotFound)
		}
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, p *domain.Principal) error {
	if err := requireSession(p); err != nil {
		return err
	}
	return s.ClearFor(ctx, p.ID, "user")
}

// ClearFor drops the stored cart of userID. reason ends up on the event.
func (s *Service) ClearFor(ctx context.Context, userID, reason string) error {
	unlock := s.lock(userID)
	defer unlock()

	if err := s.Store.Delete(ctx, userID); err != nil {
		return err
	}
	events.Emit(ctx, s.Events, events.TopicCarts, userID, events.CartCleared, map[string]string{"reason": reason})
	return nil
}

// OnLogout matches identity.LogoutHook.
func (s *Service) OnLogout(ctx context.Context, p domain.Principal) error {
	return s.ClearFor(ctx, p.ID, "logout")
}

func (s *Service) mutate(ctx context.Context, userID string, fn func(c *Cart) error) (*Cart, error) {
	unlock := s.lock(userID)
	defer unlock()

	c, err := s.Store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.Store.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	return c, nil
}
