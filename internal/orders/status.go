package orders

import (
	"fmt"

	"github.com/Skotchmaster/food_storefront/internal/domain"
)

// paid and cancelled are terminal.
var validNext = map[domain.OrderStatus]map[domain.OrderStatus]bool{
	domain.StatusPending: {
		domain.StatusPaid:      true,
		domain.StatusCancelled: true,
	},
}

func CanTransition(from, to domain.OrderStatus) bool {
	return validNext[from][to]
}

func checkTransition(from, to domain.OrderStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%s -> %s: %w", from, to, domain.ErrForbiddenTransition)
	}
	return nil
}
