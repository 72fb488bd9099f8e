package session

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps every error that means the backend could not be
// reached. The failover [Store] degrades on it.
var ErrUnavailable = errors.New("cache backend unavailable")

// Backend is a string key/value store with per-key TTL.
//
// Get reports a missing or expired key as ("", false, nil). A zero ttl
// stores the value without expiry.
type Backend interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
	// Incr increments an integer counter and sets ttl when the key is new.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ping(ctx context.Context) error
}
