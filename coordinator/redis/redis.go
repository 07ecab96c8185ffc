// Package redis implements coordinator.Coordinator on top of
// github.com/redis/go-redis/v9. The mutex is a SetNX-acquired,
// owner-token-guarded key released through a Lua script so a holder never
// releases a lock it no longer owns — the same owner-token pattern used by
// the go-lynx redislock manager, simplified here because the engine's lock
// sections are short-lived (bounded to a single coordinator round trip) and
// never need renewal.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ygrebnov/cursorflow/coordinator"
)

// releaseScript deletes key only if its value still matches the caller's
// owner token, so a lock that already expired and was re-acquired by
// someone else is never stolen back.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

// acquireRetryInterval is how often an Acquire loop polls after a failed
// SetNX before the lock's own TTL is likely to have expired.
const acquireRetryInterval = 20 * time.Millisecond

// Coordinator implements coordinator.Coordinator against a Redis deployment.
type Coordinator struct {
	client goredis.Cmdable
}

// New wraps an existing go-redis client (a *redis.Client or *redis.ClusterClient).
func New(client goredis.Cmdable) *Coordinator {
	return &Coordinator{client: client}
}

var _ coordinator.Coordinator = (*Coordinator)(nil)

func (c *Coordinator) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	token := uuid.NewString()

	deadline := time.Now().Add(ttl)
	for {
		ok, err := c.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return fmt.Errorf("coordinator: acquire lock %q: %w", key, err)
		}
		if ok {
			break
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %q", coordinator.ErrLockUnavailable, key)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %q: %v", coordinator.ErrLockUnavailable, key, ctx.Err())
		case <-time.After(acquireRetryInterval):
		}
	}

	defer func() {
		// Best-effort release; if it already expired and was re-acquired by
		// someone else, the script is a no-op rather than stealing it back.
		releaseCtx, cancel := context.WithTimeout(context.Background(), acquireRetryInterval)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, c.client, []string{key}, token).Err()
	}()

	return fn(ctx)
}

func (c *Coordinator) Incr(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("coordinator: incr %q: %w", key, err)
	}
	return n, nil
}

func (c *Coordinator) GetCounter(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("coordinator: get counter %q: %w", key, err)
	}
	return n, nil
}

func (c *Coordinator) RPush(ctx context.Context, key string, value string) error {
	if err := c.client.RPush(ctx, key, value).Err(); err != nil {
		return fmt.Errorf("coordinator: rpush %q: %w", key, err)
	}
	return nil
}

func (c *Coordinator) LPop(ctx context.Context, key string) (string, bool, error) {
	v, err := c.client.LPop(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("coordinator: lpop %q: %w", key, err)
	}
	return v, true, nil
}

func (c *Coordinator) LRem(ctx context.Context, key string, count int64, value string) error {
	if err := c.client.LRem(ctx, key, count, value).Err(); err != nil {
		return fmt.Errorf("coordinator: lrem %q: %w", key, err)
	}
	return nil
}

func (c *Coordinator) LRange(ctx context.Context, key string) ([]string, error) {
	v, err := c.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("coordinator: lrange %q: %w", key, err)
	}
	return v, nil
}

func (c *Coordinator) LLen(ctx context.Context, key string) (int64, error) {
	n, err := c.client.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("coordinator: llen %q: %w", key, err)
	}
	return n, nil
}

func (c *Coordinator) SetEX(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("coordinator: setex %q: %w", key, err)
	}
	return nil
}

func (c *Coordinator) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := c.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("coordinator: expire %q: %w", key, err)
	}
	return nil
}

func (c *Coordinator) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("coordinator: exists %q: %w", key, err)
	}
	return n > 0, nil
}

func (c *Coordinator) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("coordinator: del %v: %w", keys, err)
	}
	return nil
}

func (c *Coordinator) Occupy(ctx context.Context, listKey, value, shadowKey string, shadowTTL, listTTL time.Duration) error {
	pipe := c.client.Pipeline()
	pipe.RPush(ctx, listKey, value)
	pipe.Set(ctx, shadowKey, "1", shadowTTL)
	pipe.Expire(ctx, listKey, listTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("coordinator: occupy %q: %w", listKey, err)
	}
	return nil
}

func (c *Coordinator) Release(ctx context.Context, listKey, value, shadowKey string) error {
	pipe := c.client.Pipeline()
	pipe.LRem(ctx, listKey, 1, value)
	pipe.Del(ctx, shadowKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("coordinator: release %q: %w", listKey, err)
	}
	return nil
}

func (c *Coordinator) EnqueueFailed(ctx context.Context, failedKey, value string, ttl time.Duration) error {
	pipe := c.client.Pipeline()
	pipe.RPush(ctx, failedKey, value)
	pipe.Expire(ctx, failedKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("coordinator: enqueue failed %q: %w", failedKey, err)
	}
	return nil
}

func (c *Coordinator) MigrateZombie(ctx context.Context, listKey, failedKey, value string) error {
	pipe := c.client.Pipeline()
	pipe.LRem(ctx, listKey, 1, value)
	pipe.RPush(ctx, failedKey, value)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("coordinator: migrate zombie %q -> %q: %w", listKey, failedKey, err)
	}
	return nil
}
