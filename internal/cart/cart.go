package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/models"
)

type Line struct {
	MenuItemID   string          `json:"menu_item_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Image        string          `json:"image,omitempty"`
	Price        decimal.Decimal `json:"price"`
	RestaurantID string          `json:"restaurant_id"`
	Quantity     int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Confirmer answers the yes/no question asked before a cart from another
// restaurant is replaced.
type Confirmer interface {
	Confirm(message string) bool
}

type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// Always answers every confirmation with the same value.
type Always bool

func (a Always) Confirm(string) bool { return bool(a) }

// Cart holds lines from a single restaurant. The zero value is an empty cart.
type Cart struct {
	lines        []Line
	restaurantID string
}

func (c *Cart) RestaurantID() string { return c.restaurantID }

func (c *Cart) Empty() bool { return len(c.lines) == 0 }

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// AddItem adds one unit of item. If the cart holds another restaurant's lines,
// confirm decides whether they are dropped; a nil or declining confirmer
// leaves the cart untouched and returns domain.ErrConfirmationRequired.
func (c *Cart) AddItem(item models.MenuItem, restaurantID string, confirm Confirmer) error {
	if item.ID == "" || restaurantID == "" {
		return fmt.Errorf("menu item and restaurant are required: %w", domain.ErrValidation)
	}
	if item.RestaurantID != "" && item.RestaurantID != restaurantID {
		return fmt.Errorf("menu item %s does not belong to restaurant %s: %w", item.ID, restaurantID, domain.ErrValidation)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("menu item %s has a negative price: %w", item.ID, domain.ErrValidation)
	}

	if !c.Empty() && c.restaurantID != restaurantID {
		msg := "Your cart contains items from another restaurant. Replace them?"
		if confirm == nil || !confirm.Confirm(msg) {
			return fmt.Errorf("cart holds restaurant %s: %w", c.restaurantID, domain.ErrConfirmationRequired)
		}
		c.Clear()
	}

	if i := c.index(item.ID); i >= 0 {
		c.lines[i].Quantity++
	} else {
		c.lines = append(c.lines, Line{
			MenuItemID:   item.ID,
			Name:         item.Name,
			Description:  item.Description,
			Image:        item.Image,
			Price:        item.Price,
			RestaurantID: restaurantID,
			Quantity:     1,
		})
	}
	c.restaurantID = restaurantID
	return nil
}

// RemoveItem reports whether a line was removed.
func (c *Cart) RemoveItem(menuItemID string) bool {
	i := c.index(menuItemID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	if len(c.lines) == 0 {
		c.restaurantID = ""
	}
	return true
}

// SetQuantity with qty <= 0 removes the line.
func (c *Cart) SetQuantity(menuItemID string, qty int) bool {
	if qty <= 0 {
		return c.RemoveItem(menuItemID)
	}
	i := c.index(menuItemID)
	if i < 0 {
		return false
	}
	c.lines[i].Quantity = qty
	return true
}

func (c *Cart) Clear() {
	c.lines = nil
	c.restaurantID = ""
}

// Total is computed from the current lines on every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) index(menuItemID string) int {
	for i, l := range c.lines {
		if l.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

type wireCart struct {
	RestaurantID string          `json:"restaurant_id,omitempty"`
	Lines        []Line          `json:"lines"`
	Total        decimal.Decimal `json:"total"`
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	lines := c.Lines()
	return json.Marshal(wireCart{RestaurantID: c.restaurantID, Lines: lines, Total: c.Total()})
}

// UnmarshalJSON rejects payloads that break the single-restaurant rule.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var w wireCart
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	restored, err := FromLines(w.Lines)
	if err != nil {
		return err
	}
	*c = *restored
	return nil
}

// FromLines rebuilds a cart from stored lines.
func FromLines(lines []Line) (*Cart, error) {
	c := &Cart{}
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("line %s has quantity %d: %w", l.MenuItemID, l.Quantity, domain.ErrValidation)
		}
		if c.restaurantID != "" && l.RestaurantID != c.restaurantID {
			return nil, fmt.Errorf("lines span restaurants %s and %s: %w", c.restaurantID, l.RestaurantID, domain.ErrValidation)
		}
		if c.index(l.MenuItemID) >= 0 {
			return nil, fmt.Errorf("duplicate line %s: %w", l.MenuItemID, domain.ErrValidation)
		}
		c.restaurantID = l.RestaurantID
		c.lines = append(c.lines, l)
	}
	return c, nil
}
