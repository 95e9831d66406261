// Package testutil opens a seeded in-memory database for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_storefront/internal/seed"
	"github.com/Skotchmaster/food_storefront/pkg/db"
)

func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, seed.Migrate(ctx, gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func NewSeededDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb := NewDB(t)
	require.NoError(t, seed.Seed(context.Background(), gdb))
	return gdb
}
