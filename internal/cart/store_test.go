package cart

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_storefront/internal/testutil"
)

func exerciseStore(t *testing.T, s Store, userID string) {
	t.Helper()
	ctx := context.Background()

	empty, err := s.Load(ctx, userID)
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	var c Cart
	add(t, &c, "102", nil)
	add(t, &c, "101", nil)
	add(t, &c, "101", nil)
	require.NoError(t, s.Save(ctx, userID, &c))

	got, err := s.Load(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "1", got.RestaurantID())
	require.Len(t, got.Lines(), 2)
	assert.Equal(t, "102", got.Lines()[0].MenuItemID)
	assert.Equal(t, 2, got.Lines()[1].Quantity)
	assert.Equal(t, "42.97", got.Total().StringFixed(2))

	got.Clear()
	require.NoError(t, s.Save(ctx, userID, got))
	cleared, err := s.Load(ctx, userID)
	require.NoError(t, err)
	assert.True(t, cleared.Empty())

	require.NoError(t, s.Save(ctx, userID, &c))
	require.NoError(t, s.Delete(ctx, userID))
	deleted, err := s.Load(ctx, userID)
	require.NoError(t, err)
	assert.True(t, deleted.Empty())
}

func TestGormStore(t *testing.T) {
	exerciseStore(t, &GormStore{DB: testutil.NewDB(t)}, "4")
}

func TestGormStore_UsersAreIsolated(t *testing.T) {
	s := &GormStore{DB: testutil.NewDB(t)}
	ctx := context.Background()

	var c Cart
	add(t, &c, "501", nil)
	require.NoError(t, s.Save(ctx, "3", &c))

	other, err := s.Load(ctx, "6")
	require.NoError(t, err)
	assert.True(t, other.Empty())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	exerciseStore(t, &RedisStore{Client: client, TTL: time.Minute}, "test-"+uuid.NewString())
}
