package scrambleAuth

import (
	"time"

	"github.com/MrEthical07/scrambleAuth/password"
)

// SecurityReport summarizes the security-relevant settings of a running
// engine. It contains no secrets.
type SecurityReport struct {
	ProductionMode         bool
	SigningAlgorithm       string
	AccessTTL              time.Duration
	RefreshTTL             time.Duration
	PasswordAlgorithm      password.Algorithm
	BcryptCost             int
	Argon2                 PasswordConfigReport
	RefreshRotationEnabled bool
	RateLimitingActive     bool
	IPThrottleActive       bool
	CacheAvailable         bool
	NotificationsEnabled   bool
}

// PasswordConfigReport mirrors the Argon2id parameters.
type PasswordConfigReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	rateLimiting := e.config.Security.MaxLoginAttempts > 0 &&
		e.config.Security.LoginCooldownDuration > 0

	algorithm := e.config.Password.Algorithm
	if algorithm == "" {
		algorithm = password.AlgorithmBcrypt
	}
	cost := e.config.Password.BcryptCost
	if cost == 0 {
		cost = password.MinBcryptCost
	}

	return SecurityReport{
		ProductionMode:    e.config.Production,
		SigningAlgorithm:  "HS256",
		AccessTTL:         e.config.JWT.AccessTTL,
		RefreshTTL:        e.config.JWT.RefreshTTL,
		PasswordAlgorithm: algorithm,
		BcryptCost:        cost,
		Argon2: PasswordConfigReport{
			Memory:      e.config.Password.Argon2.Memory,
			Time:        e.config.Password.Argon2.Time,
			Parallelism: e.config.Password.Argon2.Parallelism,
			SaltLength:  e.config.Password.Argon2.SaltLength,
			KeyLength:   e.config.Password.Argon2.KeyLength,
		},
		RefreshRotationEnabled: e.config.Session.RotateRefreshTokens,
		RateLimitingActive:     rateLimiting,
		IPThrottleActive:       rateLimiting && e.config.Security.EnableIPThrottle,
		CacheAvailable:         e.cache.IsAvailable(),
		NotificationsEnabled:   e.config.Notifications.Enabled,
	}
}
