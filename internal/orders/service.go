package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/food_storefront/internal/cart"
	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/events"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/policy"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

var DefaultTaxRate = decimal.RequireFromString("0.10")

type CartSource interface {
	Get(ctx context.Context, p *domain.Principal) (*cart.Cart, error)
	ClearFor(ctx context.Context, userID, reason string) error
}

type PaymentSource interface {
	Owned(ctx context.Context, p *domain.Principal, id string) (*models.PaymentMethod, error)
}

type RestaurantSource interface {
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
}

type Service struct {
	Repo        *GormRepo
	Carts       CartSource
	Payments    PaymentSource
	Restaurants RestaurantSource
	Settler     Settler
	Guard       Guard
	Events      events.Publisher
	TaxRate     decimal.Decimal
}

type Quote struct {
	RestaurantID string          `json:"restaurant_id,omitempty"`
	Lines        []cart.Line     `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
}

func (s *Service) taxRate() decimal.Decimal {
	if s.TaxRate.IsZero() {
		return DefaultTaxRate
	}
	return s.TaxRate
}

// QuoteFor prices a cart. Tax is shown to the buyer but not stored on the order.
func QuoteFor(c *cart.Cart, rate decimal.Decimal) Quote {
	subtotal := c.Total()
	tax := subtotal.Mul(rate).Round(2)
	return Quote{
		RestaurantID: c.RestaurantID(),
		Lines:        c.Lines(),
		Subtotal:     subtotal.Round(2),
		Tax:          tax,
		Total:        subtotal.Add(tax).Round(2),
	}
}

func (s *Service) Quote(ctx context.Context, p *domain.Principal) (Quote, error) {
	if !policy.CanCheckout(p) {
		return Quote{}, fmt.Errorf("checkout: %w", domain.ErrUnauthorized)
	}
	c, err := s.Carts.Get(ctx, p)
	if err != nil {
		return Quote{}, err
	}
	return QuoteFor(c, s.taxRate()), nil
}

// Checkout creates a pending order from the cart and then settles it. If
// settlement fails the pending order is returned together with the error and
// the cart is kept.
func (s *Service) Checkout(ctx context.Context, p *domain.Principal, paymentMethodID string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "orders.checkout")
	if !policy.CanCheckout(p) {
		l.Warn("checkout_denied", "status", 403)
		return nil, fmt.Errorf("checkout: %w", domain.ErrUnauthorized)
	}

	release, err := s.Guard.Acquire(ctx, p.ID)
	if err != nil {
		l.Warn("checkout_rejected", "status", 409, "user_id", p.ID, "error", err)
		return nil, err
	}
	defer release()

	c, err := s.Carts.Get(ctx, p)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, fmt.Errorf("cart is empty: %w", domain.ErrValidation)
	}
	pm, err := s.Payments.Owned(ctx, p, paymentMethodID)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.Restaurants.GetRestaurant(ctx, c.RestaurantID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("restaurant %s is gone: %w", c.RestaurantID(), domain.ErrValidation)
		}
		return nil, err
	}
	if !policy.CanViewRestaurant(p, *restaurant) {
		return nil, fmt.Errorf("restaurant %s: %w", restaurant.ID, domain.ErrUnauthorized)
	}

	order := newPendingOrder(p.ID, *restaurant, c)
	if err := s.Repo.Create(ctx, order); err != nil {
		l.Error("checkout_error", "status", 500, "reason", "cannot create order", "error", err)
		return nil, err
	}
	events.Emit(ctx, s.Events, events.TopicOrders, order.ID, events.OrderCreated, order)
	l.Info("order_created", "order_id", order.ID, "total", order.Total.StringFixed(2))

	if err := s.Settler.Settle(ctx, *order, *pm); err != nil {
		l.Warn("settlement_failed", "order_id", order.ID, "error", err)
		if !errors.Is(err, domain.ErrSettlementFailed) {
			err = fmt.Errorf("order %s: %w: %v", order.ID, domain.ErrSettlementFailed, err)
		}
		return order, err
	}

	// The charge went through; finish bookkeeping even if the caller is gone.
	bg := context.WithoutCancel(ctx)
	if err := s.Repo.UpdateStatus(bg, order.ID, domain.StatusPending, domain.StatusPaid); err != nil {
		l.Error("checkout_error", "status", 500, "reason", "cannot mark order paid", "order_id", order.ID, "error", err)
		return order, err
	}
	order.Status = domain.StatusPaid

	if err := s.Carts.ClearFor(bg, p.ID, "checkout"); err != nil {
		l.Warn("cart_clear_failed", "user_id", p.ID, "error", err)
	}
	events.Emit(bg, s.Events, events.TopicOrders, order.ID, events.OrderPaid, order)
	l.Info("order_paid", "order_id", order.ID)
	return order, nil
}

func newPendingOrder(userID string, r models.Restaurant, c *cart.Cart) *models.Order {
	lines := c.Lines()
	items := make([]models.OrderItem, 0, len(lines))
	for i, ln := range lines {
		items = append(items, models.OrderItem{
			Position:   i,
			MenuItemID: ln.MenuItemID,
			Name:       ln.Name,
			Price:      ln.Price,
			Quantity:   ln.Quantity,
		})
	}
	return &models.Order{
		UserID:         userID,
		RestaurantID:   r.ID,
		RestaurantName: r.Name,
		Status:         domain.StatusPending,
		Items:          items,
		Total:          c.Total(),
	}
}

// List returns the orders p may see, oldest first.
func (s *Service) List(ctx context.Context, p *domain.Principal) ([]models.Order, error) {
	if p == nil {
		return nil, fmt.Errorf("orders: %w", domain.ErrUnauthorized)
	}
	all, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	restaurants, err := s.Restaurants.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}
	return policy.VisibleOrders(p, all, restaurants), nil
}

// Get hides orders outside p's scope behind domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, p *domain.Principal, id string) (*models.Order, error) {
	if p == nil {
		return nil, fmt.Errorf("orders: %w", domain.ErrUnauthorized)
	}
	o, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var country domain.Country
	if r, err := s.Restaurants.GetRestaurant(ctx, o.RestaurantID); err == nil {
		country = r.Country
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if !policy.CanViewOrder(p, *o, country) {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

func (s *Service) Cancel(ctx context.Context, p *domain.Principal, id string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "orders.cancel")

	o, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanCancelOrder(p, *o) {
		if !policy.CanCheckout(p) {
			l.Warn("cancel_denied", "status", 403, "order_id", id, "user_id", p.ID)
			return nil, fmt.Errorf("cancel order %s: %w", id, domain.ErrUnauthorized)
		}
		return nil, checkTransition(o.Status, domain.StatusCancelled)
	}

	if err := s.Repo.UpdateStatus(ctx, o.ID, o.Status, domain.StatusCancelled); err != nil {
		return nil, err
	}
	o.Status = domain.StatusCancelled

	events.Emit(ctx, s.Events, events.TopicOrders, o.ID, events.OrderCancelled, o)
	l.Info("order_cancelled", "order_id", o.ID, "by", p.ID)
	return o, nil
}

func (s *Service) Receipt(ctx context.Context, p *domain.Principal, id string) ([]byte, error) {
	o, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return ReceiptPNG(*o)
}

func (s *Service) AdminList(ctx context.Context, p *domain.Principal) ([]models.Order, error) {
	if !policy.CanAccessAdminArea(p) {
		return nil, fmt.Errorf("admin area: %w", domain.ErrUnauthorized)
	}
	return s.Repo.List(ctx)
}
