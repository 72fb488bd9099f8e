package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/scrambleAuth/session"
)

func newTestLimiter(t *testing.T, cfg Config) *Limiter {
	t.Helper()
	store := session.NewStore(context.Background(), session.NewMemoryBackend(), session.Options{
		RefreshTTL: time.Hour,
	})
	return New(store, cfg)
}

func TestLimiterBlocksAfterBudget(t *testing.T) {
	ctx := context.Background()
	l := newTestLimiter(t, Config{MaxLoginAttempts: 3, LoginCooldownDuration: time.Minute})

	for i := 0; i < 3; i++ {
		if err := l.CheckLogin(ctx, "a@b.com", ""); err != nil {
			t.Fatalf("attempt %d: unexpected check error: %v", i, err)
		}
		if err := l.IncrementLogin(ctx, "a@b.com", ""); err != nil {
			t.Fatalf("attempt %d: unexpected increment error: %v", i, err)
		}
	}

	if err := l.CheckLogin(ctx, "a@b.com", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if err := l.CheckLogin(ctx, "other@b.com", ""); err != nil {
		t.Fatalf("other emails must not be limited: %v", err)
	}
}

func TestLimiterResetClearsCounter(t *testing.T) {
	ctx := context.Background()
	l := newTestLimiter(t, Config{MaxLoginAttempts: 1})

	_ = l.IncrementLogin(ctx, "a@b.com", "")
	if err := l.CheckLogin(ctx, "a@b.com", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected limit, got %v", err)
	}
	if err := l.ResetLogin(ctx, "a@b.com", ""); err != nil {
		t.Fatalf("reset: %v", err)
	}
	n, err := l.LoginAttempts(ctx, "a@b.com")
	if err != nil || n != 0 {
		t.Fatalf("expected zero attempts after reset, got %d %v", n, err)
	}
}

func TestLimiterIPThrottle(t *testing.T) {
	ctx := context.Background()
	l := newTestLimiter(t, Config{MaxLoginAttempts: 2, EnableIPThrottle: true})

	_ = l.IncrementLogin(ctx, "a@b.com", "10.0.0.1")
	_ = l.IncrementLogin(ctx, "c@d.com", "10.0.0.1")

	if err := l.CheckLogin(ctx, "e@f.com", "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected IP limit, got %v", err)
	}
	if err := l.CheckLogin(ctx, "e@f.com", "10.0.0.2"); err != nil {
		t.Fatalf("different IP should pass: %v", err)
	}
}

func TestLimiterDisabled(t *testing.T) {
	ctx := context.Background()
	l := newTestLimiter(t, Config{})
	for i := 0; i < 100; i++ {
		if err := l.IncrementLogin(ctx, "a@b.com", ""); err != nil {
			t.Fatalf("disabled limiter returned %v", err)
		}
	}
	if err := l.CheckLogin(ctx, "a@b.com", ""); err != nil {
		t.Fatalf("disabled limiter returned %v", err)
	}

	var nilLimiter *Limiter
	if err := nilLimiter.CheckLogin(ctx, "a@b.com", ""); err != nil {
		t.Fatalf("nil limiter returned %v", err)
	}
}
