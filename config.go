package scrambleAuth

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/scrambleAuth/password"
)

// Config is the engine configuration. Build with [DefaultConfig] and
// override; [Config.Validate] runs during Build.
type Config struct {
	// Production suppresses error causes in responses.
	Production    bool
	JWT           JWTConfig
	Session       SessionConfig
	Password      PasswordConfig
	Security      SecurityConfig
	Notifications NotificationConfig
	Metrics       MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig holds the dual-secret token settings. All four of AccessSecret,
// RefreshSecret, AccessTTL and RefreshTTL are mandatory and never defaulted.
type JWTConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the session cache.
type SessionConfig struct {
	// KeyPrefix namespaces every cache key, e.g. "scramble:".
	KeyPrefix string
	// ProfileTTL is the lifetime of cached profile snapshots.
	ProfileTTL time.Duration
	// ProbeInterval bounds how often a degraded cache re-checks Redis.
	ProbeInterval time.Duration
	// RotateRefreshTokens issues and stores a new refresh token on every
	// refresh, invalidating the presented one.
	RotateRefreshTokens bool
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig selects the password hashing algorithm.
type PasswordConfig struct {
	Algorithm  password.Algorithm
	BcryptCost int
	Argon2     password.Argon2Config
	// UpgradeOnLogin rehashes stored hashes produced with weaker parameters.
	UpgradeOnLogin bool
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig holds the optional login throttle. A zero
// MaxLoginAttempts disables it.
type SecurityConfig struct {
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
	// EnableIPThrottle also counts failures per client IP (see WithClientIP).
	EnableIPThrottle bool
}

/*
====================================
NOTIFICATION CONFIG
====================================
*/

// NotificationConfig controls the asynchronous notification dispatcher.
type NotificationConfig struct {
	Enabled       bool
	BufferSize    int
	NotifyOnLogin bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig enables in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns production-leaning defaults. JWT secrets and TTLs
// are intentionally left empty.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			ProfileTTL:          time.Hour,
			ProbeInterval:       10 * time.Second,
			RotateRefreshTokens: true,
		},
		Password: PasswordConfig{
			Algorithm:      password.AlgorithmBcrypt,
			BcryptCost:     password.MinBcryptCost,
			Argon2:         password.DefaultArgon2Config(),
			UpgradeOnLogin: true,
		},
		Security: SecurityConfig{
			LoginCooldownDuration: time.Hour,
		},
		Notifications: NotificationConfig{
			Enabled:    true,
			BufferSize: 256,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.AccessSecret = bytes.Clone(cfg.JWT.AccessSecret)
	out.JWT.RefreshSecret = bytes.Clone(cfg.JWT.RefreshSecret)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// ErrConfigInvalid wraps every configuration error.
var ErrConfigInvalid = errors.New("invalid configuration")

// Validate reports the first configuration error. A missing secret or TTL
// is fatal at startup.
func (c *Config) Validate() error {
	// JWT
	if len(c.JWT.AccessSecret) == 0 {
		return configError("JWT AccessSecret is required")
	}
	if len(c.JWT.RefreshSecret) == 0 {
		return configError("JWT RefreshSecret is required")
	}
	if bytes.Equal(c.JWT.AccessSecret, c.JWT.RefreshSecret) {
		return configError("JWT AccessSecret and RefreshSecret must differ")
	}
	if c.JWT.AccessTTL <= 0 {
		return configError("JWT AccessTTL must be > 0")
	}
	if c.JWT.RefreshTTL <= 0 {
		return configError("JWT RefreshTTL must be > 0")
	}
	if c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		return configError("JWT RefreshTTL must exceed AccessTTL")
	}

	// Session
	if c.Session.ProfileTTL <= 0 {
		return configError("Session ProfileTTL must be > 0")
	}
	if c.Session.ProbeInterval < 0 {
		return configError("Session ProbeInterval must be >= 0")
	}

	// Password
	switch c.Password.Algorithm {
	case "", password.AlgorithmBcrypt, password.AlgorithmArgon2id:
	default:
		return configError("Password Algorithm must be bcrypt or argon2id")
	}
	if c.Password.BcryptCost != 0 && c.Password.BcryptCost < password.MinBcryptCost {
		return configError(fmt.Sprintf("Password BcryptCost must be >= %d", password.MinBcryptCost))
	}

	// Security
	if c.Security.MaxLoginAttempts < 0 {
		return configError("Security MaxLoginAttempts must be >= 0")
	}
	if c.Security.MaxLoginAttempts > 0 && c.Security.LoginCooldownDuration <= 0 {
		return configError("Security LoginCooldownDuration must be > 0 when throttling is enabled")
	}

	// Notifications
	if c.Notifications.Enabled && c.Notifications.BufferSize <= 0 {
		return configError("Notifications BufferSize must be > 0")
	}

	return nil
}

func configError(msg string) error {
	return fmt.Errorf("%w: %s", ErrConfigInvalid, msg)
}
