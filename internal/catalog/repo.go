package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var out []models.Restaurant
	if err := r.DB.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("restaurant %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &rest, nil
}

func (r *GormRepo) CreateRestaurant(ctx context.Context, rest *models.Restaurant) error {
	return r.DB.WithContext(ctx).Create(rest).Error
}

func (r *GormRepo) UpdateRestaurant(ctx context.Context, rest *models.Restaurant) error {
	res := r.DB.WithContext(ctx).Model(&models.Restaurant{}).
		Where("id = ?", rest.ID).
		Updates(map[string]any{
			"name":        rest.Name,
			"country":     rest.Country,
			"description": rest.Description,
			"image":       rest.Image,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("restaurant %s: %w", rest.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteRestaurant removes the restaurant together with its menu.
func (r *GormRepo) DeleteRestaurant(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Restaurant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("restaurant %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

// ListMenu returns every dish when restaurantID is empty.
func (r *GormRepo) ListMenu(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	var out []models.MenuItem
	q := r.DB.WithContext(ctx).Order("restaurant_id, id")
	if restaurantID != "" {
		q = q.Where("restaurant_id = ?", restaurantID)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	res := r.DB.WithContext(ctx).Model(&models.MenuItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":          item.Name,
			"price":         item.Price,
			"restaurant_id": item.RestaurantID,
			"description":   item.Description,
			"image":         item.Image,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("menu item %s: %w", item.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *GormRepo) DeleteMenuItem(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *GormRepo) CountRestaurants(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Restaurant{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) CountMenuItems(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).Count(&n).Error
	return n, err
}
