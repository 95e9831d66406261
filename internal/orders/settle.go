package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/models"
)

// Settler charges a pending order. An error leaves the order pending.
type Settler interface {
	Settle(ctx context.Context, o models.Order, pm models.PaymentMethod) error
}

// SimulatedSettler waits Delay and succeeds unless ctx ends first.
type SimulatedSettler struct {
	Delay time.Duration
}

func (s SimulatedSettler) Settle(ctx context.Context, o models.Order, _ models.PaymentMethod) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("order %s: %w: %v", o.ID, domain.ErrSettlementFailed, ctx.Err())
	}
}

type SettlerFunc func(ctx context.Context, o models.Order, pm models.PaymentMethod) error

func (f SettlerFunc) Settle(ctx context.Context, o models.Order, pm models.PaymentMethod) error {
	return f(ctx, o, pm)
}
