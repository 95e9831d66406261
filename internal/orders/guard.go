package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/food_storefront/internal/domain"
)

// Guard admits one checkout per user at a time. A second attempt while the
// first is in flight is rejected, not queued.
type Guard interface {
	Acquire(ctx context.Context, userID string) (release func(), err error)
}

type LocalGuard struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{inFlight: map[string]bool{}}
}

func (g *LocalGuard) Acquire(_ context.Context, userID string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight[userID] {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrCheckoutInProgress)
	}
	g.inFlight[userID] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, userID)
			g.mu.Unlock()
		})
	}, nil
}

const keyCheckoutLock = "checkout:lock:%s"

const (
	minLockTTL = 30 * time.Second
	lockMargin = 15 * time.Second
)

// LockTTL sizes a RedisGuard lock so it outlives a settlement that takes
// settlementDelay, with room for the bookkeeping that follows.
func LockTTL(settlementDelay time.Duration) time.Duration {
	return max(minLockTTL, 2*settlementDelay+lockMargin)
}

// releaseScript deletes the lock only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard shares the in-flight lock across instances. TTL bounds how long
// a crashed holder blocks the user.
type RedisGuard struct {
	Client *redis.Client
	TTL    time.Duration
}

func (g *RedisGuard) Acquire(ctx context.Context, userID string) (func(), error) {
	key := fmt.Sprintf(keyCheckoutLock, userID)
	token := uuid.NewString()

	ok, err := g.Client.SetNX(ctx, key, token, g.TTL).Result()
	if err != nil {
		return nil, fmt.Errorf("checkout lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrCheckoutInProgress)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(ctx, g.Client, []string{key}, token).Err()
		})
	}, nil
}
