package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const defaultLockTTL = 2 * time.Minute

// releaseScript deletes the lock only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Guard allows a single in-flight submission per key. Callers in the same
// process that arrive while a submission runs share its result; a second
// replica holding the Redis lock makes them fail with ErrSubmissionInFlight.
// The lock is always released afterwards so a failed submission can be retried.
type Guard struct {
	group singleflight.Group
	redis *redis.Client
	ttl   time.Duration
}

// NewGuard creates a guard. redisClient may be nil for single-instance deployments.
func NewGuard(redisClient *redis.Client, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Guard{redis: redisClient, ttl: ttl}
}

// Do runs fn unless a submission for key is already in flight, in which case
// it waits for that submission and returns its value and error.
//
// fn runs on a context detached from any single caller's cancellation so a
// disconnecting first caller does not fail the callers sharing its result.
// Each caller still stops waiting when its own ctx is done.
func (g *Guard) Do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	if key == "" {
		return nil, errors.New("relay: guard key required")
	}
	shared := context.WithoutCancel(ctx)
	ch := g.group.DoChan(key, func() (any, error) {
		release, err := g.lock(shared, key)
		if err != nil {
			return nil, err
		}
		defer release()
		return fn(shared)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *Guard) lock(ctx context.Context, key string) (func(), error) {
	if g.redis == nil {
		return func() {}, nil
	}
	lockKey := lockKey(key)
	token := uuid.NewString()
	acquired, err := g.redis.SetNX(ctx, lockKey, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("relay: acquire submission lock: %w", err)
	}
	if !acquired {
		return nil, ErrSubmissionInFlight
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, g.redis, []string{lockKey}, token).Err()
	}, nil
}

func lockKey(key string) string {
	return fmt.Sprintf("onboarding:submit:%s", key)
}
