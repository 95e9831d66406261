package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_storefront/internal/domain"
)

type User struct {
	ID           string         `gorm:"primaryKey;size:64"      json:"id"`
	Name         string         `gorm:"not null"                json:"name"`
	Email        string         `gorm:"index;not null"          json:"email"`
	PasswordHash string         `                               json:"-"`
	Role         domain.Role    `gorm:"size:16;not null"        json:"role"`
	Country      domain.Country `gorm:"size:16;not null"        json:"country"`
	CreatedAt    time.Time      `                               json:"created_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u User) Principal() domain.Principal {
	return domain.Principal{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Role:    u.Role,
		Country: u.Country,
	}
}

type Restaurant struct {
	ID          string         `gorm:"primaryKey;size:64"   json:"id"`
	Name        string         `gorm:"not null"             json:"name"`
	Country     domain.Country `gorm:"size:16;index"        json:"country"`
	Description string         `                            json:"description"`
	Image       string         `                            json:"image"`
}

func (r *Restaurant) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type MenuItem struct {
	ID           string          `gorm:"primaryKey;size:64"        json:"id"`
	Name         string          `gorm:"not null"                  json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2)"        json:"price"`
	RestaurantID string          `gorm:"size:64;index;not null"    json:"restaurant_id"`
	Description  string          `                                 json:"description"`
	Image        string          `                                 json:"image"`
}

func (m *MenuItem) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type Order struct {
	ID             string             `gorm:"primaryKey;size:64"       json:"id"`
	UserID         string             `gorm:"size:64;index;not null"   json:"user_id"`
	RestaurantID   string             `gorm:"size:64;index;not null"   json:"restaurant_id"`
	RestaurantName string             `                                json:"restaurant_name"`
	Status         domain.OrderStatus `gorm:"size:16;index;not null"   json:"status"`
	Items          []OrderItem        `gorm:"foreignKey:OrderID"       json:"items"`
	Total          decimal.Decimal    `gorm:"type:decimal(10,2)"       json:"total"`
	CreatedAt      time.Time          `                                json:"created_at"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type OrderItem struct {
	ID         uint            `gorm:"primaryKey"               json:"-"`
	OrderID    string          `gorm:"size:64;index;not null"   json:"-"`
	Position   int             `gorm:"not null"                 json:"-"`
	MenuItemID string          `gorm:"size:64;not null"         json:"menu_item_id"`
	Name       string          `                                json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2)"       json:"price"`
	Quantity   int             `gorm:"not null"                 json:"quantity"`
}

type PaymentMethod struct {
	ID        string `gorm:"primaryKey;size:64"       json:"id"`
	UserID    string `gorm:"size:64;index;not null"   json:"user_id"`
	CardLast4 string `gorm:"size:4;not null"          json:"card_last4"`
	Provider  string `gorm:"size:32;not null"         json:"provider"`
	Expiry    string `gorm:"size:5;not null"          json:"expiry"`
}

func (p *PaymentMethod) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// CartLine is the persisted form of one cart line, keyed by the owning user.
type CartLine struct {
	ID           uint            `gorm:"primaryKey"`
	UserID       string          `gorm:"size:64;index;not null"`
	Position     int             `gorm:"not null"`
	MenuItemID   string          `gorm:"size:64;not null"`
	Name         string
	Description  string
	Image        string
	Price        decimal.Decimal `gorm:"type:decimal(10,2)"`
	RestaurantID string          `gorm:"size:64;not null"`
	Quantity     int             `gorm:"not null"`
}

func All() []any {
	return []any{
		&User{},
		&Restaurant{},
		&MenuItem{},
		&Order{},
		&OrderItem{},
		&PaymentMethod{},
		&CartLine{},
	}
}
