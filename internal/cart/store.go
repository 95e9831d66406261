package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_storefront/internal/models"
)

type Store interface {
	Load(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, userID string, c *Cart) error
	Delete(ctx context.Context, userID string) error
}

type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) Load(ctx context.Context, userID string) (*Cart, error) {
	var rows []models.CartLine
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, Line{
			MenuItemID:   r.MenuItemID,
			Name:         r.Name,
			Description:  r.Description,
			Image:        r.Image,
			Price:        r.Price,
			RestaurantID: r.RestaurantID,
			Quantity:     r.Quantity,
		})
	}
	return FromLines(lines)
}

// Save replaces every stored line of the user in one transaction.
func (s *GormStore) Save(ctx context.Context, userID string, c *Cart) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		lines := c.Lines()
		if len(lines) == 0 {
			return nil
		}
		rows := make([]models.CartLine, 0, len(lines))
		for i, l := range lines {
			rows = append(rows, models.CartLine{
				UserID:       userID,
				Position:     i,
				MenuItemID:   l.MenuItemID,
				Name:         l.Name,
				Description:  l.Description,
				Image:        l.Image,
				Price:        l.Price,
				RestaurantID: l.RestaurantID,
				Quantity:     l.Quantity,
			})
		}
		return tx.Create(&rows).Error
	})
}

func (s *GormStore) Delete(ctx context.Context, userID string) error {
	return s.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{}).Error
}

const keyCart = "cart:%s"

// RedisStore keeps each cart as one JSON value that expires with the session.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func (s *RedisStore) Load(ctx context.Context, userID string) (*Cart, error) {
	raw, err := s.Client.Get(ctx, fmt.Sprintf(keyCart, userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Cart{}, nil
		}
		return nil, err
	}

	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", userID, err)
	}
	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, c *Cart) error {
	key := fmt.Sprintf(keyCart, userID)
	if c.Empty() {
		return s.Client.Del(ctx, key).Err()
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, key, raw, s.TTL).Err()
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.Client.Del(ctx, fmt.Sprintf(keyCart, userID)).Err()
}
