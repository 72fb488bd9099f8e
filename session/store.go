package session

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	// DefaultProfileTTL is the lifetime of a cached profile snapshot.
	DefaultProfileTTL = time.Hour
	// DefaultProbeInterval bounds how often a degraded store re-checks the primary.
	DefaultProbeInterval = 10 * time.Second

	probeTimeout = 2 * time.Second
)

// Options configures a failover [Store].
type Options struct {
	// Prefix is prepended to every key, e.g. "scramble:".
	Prefix string
	// RefreshTTL is the lifetime of a stored refresh token. It must equal the
	// refresh-token expiry so the cache entry and the token die together.
	RefreshTTL    time.Duration
	ProfileTTL    time.Duration
	ProbeInterval time.Duration
	Logger        *slog.Logger
	// OnDegrade is called once per healthy-to-degraded transition.
	OnDegrade func()
}

// Store is the session cache used by the engine. It serves from a primary
// backend (Redis) while it answers, and from a process-local fallback while
// it does not.
//
// Entries written to the fallback during an outage are not copied back when
// the primary recovers; affected users must log in again.
type Store struct {
	primary  Backend
	fallback Backend

	prefix        string
	refreshTTL    time.Duration
	profileTTL    time.Duration
	probeInterval time.Duration
	logger        *slog.Logger
	onDegrade     func()

	degraded  atomic.Bool
	lastProbe atomic.Int64
	now       func() time.Time
}

// NewStore probes primary once and returns a Store. A nil primary or a failed
// probe starts the store in degraded mode; neither is an error.
func NewStore(ctx context.Context, primary Backend, opts Options) *Store {
	if opts.ProfileTTL <= 0 {
		opts.ProfileTTL = DefaultProfileTTL
	}
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = DefaultProbeInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	s := &Store{
		primary:       primary,
		fallback:      NewMemoryBackend(),
		prefix:        opts.Prefix,
		refreshTTL:    opts.RefreshTTL,
		profileTTL:    opts.ProfileTTL,
		probeInterval: opts.ProbeInterval,
		logger:        opts.Logger,
		onDegrade:     opts.OnDegrade,
		now:           time.Now,
	}

	if primary == nil {
		s.degraded.Store(true)
		s.logger.WarnContext(ctx, "session cache has no primary backend; using in-memory fallback")
		return s
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := primary.Ping(probeCtx); err != nil {
		s.markDegraded(ctx, "startup", err)
	}
	return s
}

// IsAvailable reports whether the primary backend is currently serving.
// It is meant for health reporting only.
func (s *Store) IsAvailable() bool {
	return s.primary != nil && !s.degraded.Load()
}

// RefreshTTL returns the TTL applied to stored refresh tokens.
func (s *Store) RefreshTTL() time.Duration { return s.refreshTTL }

// Set stores value under key (prefix applied).
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.do(ctx, "set", func(b Backend) error {
		return b.Set(ctx, s.prefix+key, value, ttl)
	})
}

// SetNX stores value under key (prefix applied) unless key exists.
func (s *Store) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	var stored bool
	err := s.do(ctx, "setnx", func(b Backend) error {
		var err error
		stored, err = b.SetNX(ctx, s.prefix+key, value, ttl)
		return err
	})
	return stored, err
}

// Get loads key (prefix applied).
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.do(ctx, "get", func(b Backend) error {
		var err error
		value, found, err = b.Get(ctx, s.prefix+key)
		return err
	})
	return value, found, err
}

// Del removes key (prefix applied). Removing an absent key succeeds.
func (s *Store) Del(ctx context.Context, key string) error {
	return s.do(ctx, "del", func(b Backend) error {
		return b.Del(ctx, s.prefix+key)
	})
}

// Incr increments a fixed-window counter (prefix applied).
func (s *Store) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var n int64
	err := s.do(ctx, "incr", func(b Backend) error {
		var err error
		n, err = b.Incr(ctx, s.prefix+key, ttl)
		return err
	})
	return n, err
}

// Ping checks the backend currently serving requests.
func (s *Store) Ping(ctx context.Context) error {
	return s.current(ctx).Ping(ctx)
}

// StoreRefreshToken overwrites the single active refresh token for userID.
func (s *Store) StoreRefreshToken(ctx context.Context, userID, token string) error {
	return s.Set(ctx, RefreshKey(userID), token, s.refreshTTL)
}

// GetRefreshToken returns the active refresh token for userID, if any.
func (s *Store) GetRefreshToken(ctx context.Context, userID string) (string, bool, error) {
	return s.Get(ctx, RefreshKey(userID))
}

// DeleteRefreshToken revokes the active refresh token for userID.
func (s *Store) DeleteRefreshToken(ctx context.Context, userID string) error {
	return s.Del(ctx, RefreshKey(userID))
}

// SetProfile caches a serialized profile snapshot.
func (s *Store) SetProfile(ctx context.Context, userID string, payload []byte) error {
	return s.Set(ctx, ProfileKey(userID), string(payload), s.profileTTL)
}

// AddProfile caches a profile snapshot only when none is cached. Read paths
// use it so a snapshot loaded before a concurrent update cannot replace the
// one that update wrote.
func (s *Store) AddProfile(ctx context.Context, userID string, payload []byte) error {
	_, err := s.SetNX(ctx, ProfileKey(userID), string(payload), s.profileTTL)
	return err
}

// GetProfile returns a cached profile snapshot, if any.
func (s *Store) GetProfile(ctx context.Context, userID string) ([]byte, bool, error) {
	v, ok, err := s.Get(ctx, ProfileKey(userID))
	if err != nil || !ok {
		return nil, ok, err
	}
	return []byte(v), true, nil
}

// DeleteProfile drops a cached profile snapshot.
func (s *Store) DeleteProfile(ctx context.Context, userID string) error {
	return s.Del(ctx, ProfileKey(userID))
}

// RefreshKey is the cache key holding the active refresh token of a user.
func RefreshKey(userID string) string { return "refresh:" + userID }

// ProfileKey is the cache key holding the profile snapshot of a user.
func ProfileKey(userID string) string { return "user:" + userID }

func (s *Store) do(ctx context.Context, op string, fn func(Backend) error) error {
	b := s.current(ctx)
	err := fn(b)
	if err == nil || b == s.fallback || !errors.Is(err, ErrUnavailable) {
		return err
	}
	// A caller that went away says nothing about the backend.
	if ctx.Err() != nil {
		return err
	}

	s.markDegraded(ctx, op, err)
	return fn(s.fallback)
}

func (s *Store) current(ctx context.Context) Backend {
	if s.primary == nil {
		return s.fallback
	}
	if s.degraded.Load() {
		s.maybeRecover(ctx)
	}
	if s.degraded.Load() {
		return s.fallback
	}
	return s.primary
}

func (s *Store) markDegraded(ctx context.Context, op string, cause error) {
	s.lastProbe.Store(s.now().UnixNano())
	if !s.degraded.CompareAndSwap(false, true) {
		return
	}
	s.logger.WarnContext(ctx, "session cache degraded to in-memory fallback",
		"op", op,
		"error", cause,
	)
	if s.onDegrade != nil {
		s.onDegrade()
	}
}

func (s *Store) maybeRecover(ctx context.Context) {
	now := s.now().UnixNano()
	last := s.lastProbe.Load()
	if now-last < int64(s.probeInterval) {
		return
	}
	// One caller probes per interval.
	if !s.lastProbe.CompareAndSwap(last, now) {
		return
	}

	probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), probeTimeout)
	defer cancel()
	if err := s.primary.Ping(probeCtx); err != nil {
		return
	}
	if s.degraded.CompareAndSwap(true, false) {
		s.logger.InfoContext(ctx, "session cache primary backend recovered")
	}
}
