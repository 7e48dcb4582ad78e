package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis records sent messages as keys with a TTL. A claim starts with the
// short pending TTL and gets the full TTL once confirmed, so a crash between
// claim and send blocks redelivery only briefly.
type Redis struct {
	client     *redis.Client
	pendingTTL time.Duration
	ttl        time.Duration
}

// NewRedis creates a Redis deduper connected to addr.
func NewRedis(addr, password string, db int, pendingTTL, ttl time.Duration) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     2,
	})

	return NewRedisWithClient(rdb, pendingTTL, ttl)
}

func NewRedisWithClient(client *redis.Client, pendingTTL, ttl time.Duration) *Redis {
	return &Redis{client: client, pendingTTL: pendingTTL, ttl: ttl}
}

// Claim sets key if it does not exist yet and reports whether it did.
func (r *Redis) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), r.pendingTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return ok, nil
}

// Confirm extends a claim to the full TTL.
func (r *Redis) Confirm(ctx context.Context, key string) error {
	ok, err := r.client.Expire(ctx, key, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis expire %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("redis expire %s: claim no longer exists", key)
	}
	return nil
}

func (r *Redis) Release(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Ping tests the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
