package orders

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

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position")
	})
}

func (r *GormRepo) Create(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

func (r *GormRepo) Get(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := preloadItems(r.DB.WithContext(ctx)).Where("id = ?", id).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &o, nil
}

// List returns every order, oldest first.
func (r *GormRepo) List(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := preloadItems(r.DB.WithContext(ctx)).Order("created_at, id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves the order only if it is still in from, so two racing
// transitions cannot both win.
func (r *GormRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	if err := checkTransition(from, to); err != nil {
		return err
	}
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("order %s is no longer %s: %w", id, from, domain.ErrForbiddenTransition)
	}
	return nil
}

func (r *GormRepo) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	var rows []struct {
		Status domain.OrderStatus
		N      int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := map[domain.OrderStatus]int64{
		domain.StatusPending:   0,
		domain.StatusPaid:      0,
		domain.StatusCancelled: 0,
	}
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}
