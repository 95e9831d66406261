package domain

import "strings"

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleMember  Role = "Member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

type Country string

const (
	CountryIndia   Country = "India"
	CountryAmerica Country = "America"
)

func (c Country) Valid() bool {
	switch c {
	case CountryIndia, CountryAmerica:
		return true
	}
	return false
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusCancelled OrderStatus = "cancelled"
)

// Principal is the identity bound to a session. Role and Country do not change
// while the session lives.
type Principal struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Role    Role    `json:"role"`
	Country Country `json:"country"`
}

func (p *Principal) Is(role Role) bool {
	return p != nil && p.Role == role
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
