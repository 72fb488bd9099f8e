package scrambleAuth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/MrEthical07/scrambleAuth/internal/flows"
	"github.com/MrEthical07/scrambleAuth/internal/notify"
	"github.com/MrEthical07/scrambleAuth/internal/rate"
	"github.com/MrEthical07/scrambleAuth/jwt"
	"github.com/MrEthical07/scrambleAuth/password"
	"github.com/MrEthical07/scrambleAuth/session"
	"github.com/redis/go-redis/v9"
)

// Builder wires an [Engine] from its collaborators.
//
// Builder instances are intended to be configured during initialization and
// then discarded; Build may be called once.
type Builder struct {
	config Config
	store  CredentialStore
	redis  redis.UniversalClient
	cache  session.Backend
	logger *slog.Logger
	sink   NotificationSink

	built bool
}

// New returns a builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the configuration. The builder keeps its own copy.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithCredentialStore sets the durable user store. Required.
func (b *Builder) WithCredentialStore(store CredentialStore) *Builder {
	b.store = store
	return b
}

// WithRedis uses client as the primary session cache backend.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithCacheBackend sets a custom primary cache backend. It takes precedence
// over WithRedis. Without either, the engine runs on the in-memory fallback.
func (b *Builder) WithCacheBackend(backend session.Backend) *Builder {
	b.cache = backend
	return b
}

// WithLogger sets the structured logger. The default discards.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithNotificationSink sets where notifications are delivered.
func (b *Builder) WithNotificationSink(sink NotificationSink) *Builder {
	b.sink = sink
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the access-token validation histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and constructs the engine. Missing
// secrets or TTLs, identical secrets and a missing credential store are
// errors. An unreachable Redis is not: the engine starts degraded on the
// in-memory cache and logs a warning.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.store == nil {
		return nil, errors.New("credential store required")
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	metrics := NewMetrics(cfg.Metrics)

	// -------- TOKENS --------
	jm, err := jwt.NewManager(jwt.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		Issuer:        cfg.JWT.Issuer,
		Audience:      cfg.JWT.Audience,
		Leeway:        cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	// -------- PASSWORDS --------
	hasher, err := password.New(password.Config{
		Algorithm:  cfg.Password.Algorithm,
		BcryptCost: cfg.Password.BcryptCost,
		Argon2:     cfg.Password.Argon2,
	})
	if err != nil {
		return nil, err
	}

	// -------- SESSION CACHE --------
	primary := b.cache
	if primary == nil && b.redis != nil {
		primary = session.NewRedisBackend(b.redis)
	}
	cache := session.NewStore(context.Background(), primary, session.Options{
		Prefix:        cfg.Session.KeyPrefix,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		ProfileTTL:    cfg.Session.ProfileTTL,
		ProbeInterval: cfg.Session.ProbeInterval,
		Logger:        logger,
		OnDegrade:     func() { metrics.Inc(MetricCacheDegraded) },
	})

	engine := &Engine{
		config:     cloneConfig(cfg),
		store:      b.store,
		cache:      cache,
		jwtManager: jm,
		hasher:     hasher,
		metrics:    metrics,
		logger:     logger,
	}

	engine.rateLimiter = rate.New(cache, rate.Config{
		EnableIPThrottle:      cfg.Security.EnableIPThrottle,
		MaxLoginAttempts:      cfg.Security.MaxLoginAttempts,
		LoginCooldownDuration: cfg.Security.LoginCooldownDuration,
	})
	engine.notifier = notify.NewDispatcher(notify.Config{
		Enabled:    cfg.Notifications.Enabled,
		BufferSize: cfg.Notifications.BufferSize,
		Logger:     logger,
		OnDrop:     func() { metrics.Inc(MetricNotificationDropped) },
		OnFailure:  func() { metrics.Inc(MetricNotificationFailed) },
	}, b.sink)
	engine.flow = flows.New(engine.buildFlowDeps())

	b.built = true

	return engine, nil
}
