package scrambleAuth

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/MrEthical07/scrambleAuth/password"
)

// EnvConfig is the process configuration read from the environment.
// The four token settings carry `required` and have no default.
type EnvConfig struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	AccessSecret  string        `env:"ACCESS_SECRET,required,notEmpty"`
	RefreshSecret string        `env:"REFRESH_SECRET,required,notEmpty"`
	AccessTTL     time.Duration `env:"ACCESS_TTL,required"`
	RefreshTTL    time.Duration `env:"REFRESH_TTL,required"`
	JWTIssuer     string        `env:"JWT_ISSUER"`
	JWTAudience   string        `env:"JWT_AUDIENCE"`

	MongoURI      string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"scramble"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	CachePrefix   string `env:"CACHE_PREFIX"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":3000"`

	ProfileCacheTTL     time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"1h"`
	PasswordAlgorithm   string        `env:"PASSWORD_ALGORITHM" envDefault:"bcrypt"`
	BcryptCost          int           `env:"BCRYPT_COST" envDefault:"12"`
	RotateRefreshTokens bool          `env:"ROTATE_REFRESH_TOKENS" envDefault:"true"`

	NotifyQueue   string `env:"NOTIFY_QUEUE" envDefault:"email:jobs"`
	NotifyOnLogin bool   `env:"NOTIFY_ON_LOGIN" envDefault:"false"`

	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"0"`
	LoginCooldown    time.Duration `env:"LOGIN_COOLDOWN" envDefault:"1h"`
	LoginIPThrottle  bool          `env:"LOGIN_IP_THROTTLE" envDefault:"false"`
}

// LoadConfigFromEnv parses the environment. A missing token secret or TTL
// is an error; callers treat it as fatal.
func LoadConfigFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}

	engineCfg := cfg.EngineConfig()
	if err := engineCfg.Validate(); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV selects production mode.
func (c EnvConfig) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.AppEnv), "production")
}

// EngineConfig maps the environment onto [DefaultConfig].
func (c EnvConfig) EngineConfig() Config {
	cfg := DefaultConfig()
	cfg.Production = c.IsProduction()

	cfg.JWT = JWTConfig{
		AccessSecret:  []byte(c.AccessSecret),
		RefreshSecret: []byte(c.RefreshSecret),
		AccessTTL:     c.AccessTTL,
		RefreshTTL:    c.RefreshTTL,
		Issuer:        c.JWTIssuer,
		Audience:      c.JWTAudience,
	}

	cfg.Session.KeyPrefix = c.CachePrefix
	cfg.Session.ProfileTTL = c.ProfileCacheTTL
	cfg.Session.RotateRefreshTokens = c.RotateRefreshTokens

	cfg.Password.Algorithm = password.Algorithm(strings.ToLower(c.PasswordAlgorithm))
	cfg.Password.BcryptCost = c.BcryptCost

	cfg.Security.MaxLoginAttempts = c.LoginMaxAttempts
	cfg.Security.LoginCooldownDuration = c.LoginCooldown
	cfg.Security.EnableIPThrottle = c.LoginIPThrottle

	cfg.Notifications.NotifyOnLogin = c.NotifyOnLogin

	return cfg
}
