package admin

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/policy"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type CounterFunc func(ctx context.Context) (int64, error)

func (f CounterFunc) Count(ctx context.Context) (int64, error) { return f(ctx) }

type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error)
}

type Stats struct {
	Restaurants int64                        `json:"restaurants"`
	Dishes      int64                        `json:"dishes"`
	Users       int64                        `json:"users"`
	Orders      map[domain.OrderStatus]int64 `json:"orders"`
}

type Dashboard struct {
	Restaurants Counter
	Dishes      Counter
	Users       Counter
	Orders      StatusCounter
}

// Stats runs the counts concurrently and fails on the first error.
func (d *Dashboard) Stats(ctx context.Context, p *domain.Principal) (Stats, error) {
	if !policy.CanAccessAdminArea(p) {
		return Stats{}, fmt.Errorf("admin area: %w", domain.ErrUnauthorized)
	}

	var s Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := d.Restaurants.Count(ctx)
		if err != nil {
			return fmt.Errorf("count restaurants: %w", err)
		}
		s.Restaurants = n
		return nil
	})
	g.Go(func() error {
		n, err := d.Dishes.Count(ctx)
		if err != nil {
			return fmt.Errorf("count dishes: %w", err)
		}
		s.Dishes = n
		return nil
	})
	g.Go(func() error {
		n, err := d.Users.Count(ctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		s.Users = n
		return nil
	})
	g.Go(func() error {
		m, err := d.Orders.CountByStatus(ctx)
		if err != nil {
			return fmt.Errorf("count orders: %w", err)
		}
		s.Orders = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return s, nil
}
