// Package policy holds the authorization and visibility rules of the
// storefront. Every function is pure; callers pass the principal in effect
// for the current request and evaluate again on the next one.
package policy

import (
	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/models"
)

// CanViewRestaurant allows anonymous browsing of every restaurant. Signed-in
// non-admins only see restaurants in their own country.
func CanViewRestaurant(p *domain.Principal, r models.Restaurant) bool {
	if p == nil {
		return true
	}
	return p.Role == domain.RoleAdmin || p.Country == r.Country
}

func VisibleRestaurants(p *domain.Principal, all []models.Restaurant) []models.Restaurant {
	out := make([]models.Restaurant, 0, len(all))
	for _, r := range all {
		if CanViewRestaurant(p, r) {
			out = append(out, r)
		}
	}
	return out
}

func CanCheckout(p *domain.Principal) bool {
	return p.Is(domain.RoleAdmin) || p.Is(domain.RoleManager)
}

func CanCancelOrder(p *domain.Principal, o models.Order) bool {
	return o.Status == domain.StatusPending && CanCheckout(p)
}

// CanViewOrder needs the country of the order's restaurant for manager scoping.
func CanViewOrder(p *domain.Principal, o models.Order, restaurantCountry domain.Country) bool {
	if p == nil {
		return false
	}
	switch p.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleManager:
		return restaurantCountry != "" && restaurantCountry == p.Country
	case domain.RoleMember:
		return o.UserID == p.ID
	}
	return false
}

// VisibleOrders keeps the input order. Orders whose restaurant is unknown are
// hidden from managers.
func VisibleOrders(p *domain.Principal, all []models.Order, restaurants []models.Restaurant) []models.Order {
	countries := make(map[string]domain.Country, len(restaurants))
	for _, r := range restaurants {
		countries[r.ID] = r.Country
	}

	out := make([]models.Order, 0, len(all))
	for _, o := range all {
		if CanViewOrder(p, o, countries[o.RestaurantID]) {
			out = append(out, o)
		}
	}
	return out
}

func CanAccessAdminArea(p *domain.Principal) bool {
	return p.Is(domain.RoleAdmin)
}

func CanAccessPaymentAdmin(p *domain.Principal) bool {
	return p.Is(domain.RoleAdmin)
}
