package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// RedisBackend is a [Backend] over a shared Redis deployment.
type RedisBackend struct {
	redis redis.UniversalClient
}

// NewRedisBackend wraps an existing client. The caller owns the client.
func NewRedisBackend(client redis.UniversalClient) *RedisBackend {
	return &RedisBackend{redis: client}
}

// Set stores value under key with ttl.
//
//	Performance: 1 Redis SET.
func (b *RedisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := b.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		return unavailable("set", key, err)
	}
	return nil
}

// SetNX stores value under key with ttl unless key already exists.
//
//	Performance: 1 Redis SET NX.
func (b *RedisBackend) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := b.redis.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, unavailable("setnx", key, err)
	}
	return ok, nil
}

// Get loads key.
//
//	Performance: 1 Redis GET.
func (b *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := b.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, unavailable("get", key, err)
	}
	return v, true, nil
}

// Del removes key. Deleting an absent key succeeds.
func (b *RedisBackend) Del(ctx context.Context, key string) error {
	if err := b.redis.Del(ctx, key).Err(); err != nil {
		return unavailable("del", key, err)
	}
	return nil
}

// Incr increments key and applies ttl on the first increment.
//
//	Performance: 1 INCR, plus 1 EXPIRE on the first hit of a window.
func (b *RedisBackend) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := b.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, unavailable("incr", key, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 && ttl > 0 {
		if err := b.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, unavailable("expire", key, err)
		}
	}
	return count, nil
}

// Ping checks connectivity.
func (b *RedisBackend) Ping(ctx context.Context) error {
	if err := b.redis.Ping(ctx).Err(); err != nil {
		return unavailable("ping", "", err)
	}
	return nil
}

func unavailable(op, key string, err error) error {
	return oops.
		Code("CACHE_UNAVAILABLE").
		In("session").
		With("operation", op).
		With("key", key).
		Wrap(fmt.Errorf("%w: %v", ErrUnavailable, err))
}
