package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// Seed loads the demo dataset once. A database that already holds users is left alone.
func Seed(ctx context.Context, db *gorm.DB) error {
	l := logging.FromContext(ctx).With("component", "seed")

	var users int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if users > 0 {
		l.Info("seed_skipped", "reason", "users already present", "users", users)
		return nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		us, rs, ms, os, ps := Users(), Restaurants(), MenuItems(), Orders(), PaymentMethods()
		if err := tx.Create(&us).Error; err != nil {
			return fmt.Errorf("users: %w", err)
		}
		if err := tx.Create(&rs).Error; err != nil {
			return fmt.Errorf("restaurants: %w", err)
		}
		if err := tx.Create(&ms).Error; err != nil {
			return fmt.Errorf("menu items: %w", err)
		}
		if err := tx.Create(&os).Error; err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		if err := tx.Create(&ps).Error; err != nil {
			return fmt.Errorf("payment methods: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.Info("seed_loaded")
	return nil
}
