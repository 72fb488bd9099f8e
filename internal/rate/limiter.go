package rate

import (
	"context"
	"strconv"
	"time"

	"github.com/samber/oops"
)

// Counter is the subset of the session cache the limiter needs.
type Counter interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Del(ctx context.Context, key string) error
}

// Config holds rate limiter tuning parameters.
type Config struct {
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
}

// Enabled reports whether login throttling is active.
func (c Config) Enabled() bool { return c.MaxLoginAttempts > 0 }

// Limiter enforces per-email and per-IP failed-login budgets.
type Limiter struct {
	counter Counter
	config  Config
}

// New creates a [Limiter] over counter.
func New(counter Counter, cfg Config) *Limiter {
	if cfg.LoginCooldownDuration <= 0 {
		cfg.LoginCooldownDuration = time.Hour
	}
	return &Limiter{
		counter: counter,
		config:  cfg,
	}
}

// CheckLogin returns ErrRateLimited when email or ip has used up its budget.
func (l *Limiter) CheckLogin(ctx context.Context, email, ip string) error {
	if l == nil || !l.config.Enabled() {
		return nil
	}
	for _, key := range l.keys(email, ip) {
		if err := l.checkCounter(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// IncrementLogin records a failed login attempt. It returns ErrRateLimited
// when this attempt crossed the budget.
func (l *Limiter) IncrementLogin(ctx context.Context, email, ip string) error {
	if l == nil || !l.config.Enabled() {
		return nil
	}
	limited := false
	for _, key := range l.keys(email, ip) {
		count, err := l.counter.Incr(ctx, key, l.config.LoginCooldownDuration)
		if err != nil {
			return oops.In("rate").With("key", key).Wrap(err)
		}
		if count > int64(l.config.MaxLoginAttempts) {
			limited = true
		}
	}
	if limited {
		return ErrRateLimited
	}
	return nil
}

// ResetLogin clears the counters after a successful login.
func (l *Limiter) ResetLogin(ctx context.Context, email, ip string) error {
	if l == nil || !l.config.Enabled() {
		return nil
	}
	for _, key := range l.keys(email, ip) {
		if err := l.counter.Del(ctx, key); err != nil {
			return oops.In("rate").With("key", key).Wrap(err)
		}
	}
	return nil
}

// LoginAttempts returns the failure count recorded for email in the current
// window.
func (l *Limiter) LoginAttempts(ctx context.Context, email string) (int, error) {
	if l == nil || !l.config.Enabled() {
		return 0, nil
	}
	return l.read(ctx, loginEmailKey(email))
}

func (l *Limiter) keys(email, ip string) []string {
	keys := []string{loginEmailKey(email)}
	if l.config.EnableIPThrottle && ip != "" {
		keys = append(keys, loginIPKey(ip))
	}
	return keys
}

func (l *Limiter) checkCounter(ctx context.Context, key string) error {
	count, err := l.read(ctx, key)
	if err != nil {
		return err
	}
	if count >= l.config.MaxLoginAttempts {
		return ErrRateLimited
	}
	return nil
}

func (l *Limiter) read(ctx context.Context, key string) (int, error) {
	raw, ok, err := l.counter.Get(ctx, key)
	if err != nil {
		return 0, oops.In("rate").With("key", key).Wrap(err)
	}
	if !ok {
		return 0, nil
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return 0, nil
	}
	return count, nil
}

func loginEmailKey(email string) string { return "al:" + email }

func loginIPKey(ip string) string { return "ali:" + ip }
