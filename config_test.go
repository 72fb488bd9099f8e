package scrambleAuth

import (
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/scrambleAuth/password"
)

func validTestConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.AccessSecret = []byte("access-secret-0123456789abcdef")
	cfg.JWT.RefreshSecret = []byte("refresh-secret-0123456789abcdef")
	cfg.JWT.AccessTTL = 15 * time.Minute
	cfg.JWT.RefreshTTL = 7 * 24 * time.Hour
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "defaults with secrets valid",
			mutate:    func(*Config) {},
			wantValid: true,
		},
		{
			name: "missing access secret",
			mutate: func(c *Config) {
				c.JWT.AccessSecret = nil
			},
			wantValid: false,
		},
		{
			name: "missing refresh secret",
			mutate: func(c *Config) {
				c.JWT.RefreshSecret = nil
			},
			wantValid: false,
		},
		{
			name: "identical secrets",
			mutate: func(c *Config) {
				c.JWT.RefreshSecret = c.JWT.AccessSecret
			},
			wantValid: false,
		},
		{
			name: "zero access ttl",
			mutate: func(c *Config) {
				c.JWT.AccessTTL = 0
			},
			wantValid: false,
		},
		{
			name: "negative refresh ttl",
			mutate: func(c *Config) {
				c.JWT.RefreshTTL = -time.Second
			},
			wantValid: false,
		},
		{
			name: "refresh not longer than access",
			mutate: func(c *Config) {
				c.JWT.RefreshTTL = c.JWT.AccessTTL
			},
			wantValid: false,
		},
		{
			name: "unknown password algorithm",
			mutate: func(c *Config) {
				c.Password.Algorithm = "md5"
			},
			wantValid: false,
		},
		{
			name: "argon2id accepted",
			mutate: func(c *Config) {
				c.Password.Algorithm = password.AlgorithmArgon2id
			},
			wantValid: true,
		},
		{
			name: "weak bcrypt cost",
			mutate: func(c *Config) {
				c.Password.BcryptCost = 4
			},
			wantValid: false,
		},
		{
			name: "throttle without cooldown",
			mutate: func(c *Config) {
				c.Security.MaxLoginAttempts = 5
				c.Security.LoginCooldownDuration = 0
			},
			wantValid: false,
		},
		{
			name: "notifications without buffer",
			mutate: func(c *Config) {
				c.Notifications.BufferSize = 0
			},
			wantValid: false,
		},
		{
			name: "disabled notifications ignore buffer",
			mutate: func(c *Config) {
				c.Notifications.Enabled = false
				c.Notifications.BufferSize = 0
			},
			wantValid: true,
		},
	}

	for _, tc := range tests {
		cfg := validTestConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if tc.wantValid && err != nil {
			t.Fatalf("%s: expected valid, got %v", tc.name, err)
		}
		if !tc.wantValid {
			if err == nil {
				t.Fatalf("%s: expected error", tc.name)
			}
			if !errors.Is(err, ErrConfigInvalid) {
				t.Fatalf("%s: expected ErrConfigInvalid, got %v", tc.name, err)
			}
		}
	}
}

func TestCloneConfigCopiesSecrets(t *testing.T) {
	cfg := validTestConfig()
	clone := cloneConfig(cfg)
	cfg.JWT.AccessSecret[0] = 'X'

	if clone.JWT.AccessSecret[0] == 'X' {
		t.Fatal("clone must not share secret backing arrays")
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ACCESS_SECRET", "access-secret-0123456789abcdef")
	t.Setenv("REFRESH_SECRET", "refresh-secret-0123456789abcdef")
	t.Setenv("ACCESS_TTL", "15m")
	t.Setenv("REFRESH_TTL", "168h")
}

func TestLoadConfigFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("ROTATE_REFRESH_TOKENS", "false")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "5")

	env, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !env.IsProduction() {
		t.Fatal("expected production mode")
	}

	cfg := env.EngineConfig()
	if cfg.JWT.AccessTTL != 15*time.Minute || cfg.JWT.RefreshTTL != 168*time.Hour {
		t.Fatalf("unexpected ttls: %v %v", cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	}
	if cfg.Session.RotateRefreshTokens {
		t.Fatal("expected rotation disabled")
	}
	if cfg.Security.MaxLoginAttempts != 5 {
		t.Fatalf("expected 5 attempts, got %d", cfg.Security.MaxLoginAttempts)
	}
	if env.HTTPAddr != ":3000" || env.MongoDatabase != "scramble" {
		t.Fatalf("unexpected defaults: %+v", env)
	}
}

func TestLoadConfigFromEnvRequiresTokenSettings(t *testing.T) {
	for _, missing := range []string{"ACCESS_SECRET", "REFRESH_SECRET", "ACCESS_TTL", "REFRESH_TTL"} {
		t.Run(missing, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(missing, "")

			if _, err := LoadConfigFromEnv(); err == nil {
				t.Fatalf("expected error when %s is empty", missing)
			}
		})
	}
}

func TestLoadConfigFromEnvRejectsIdenticalSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REFRESH_SECRET", "access-secret-0123456789abcdef")

	_, err := LoadConfigFromEnv()
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}
