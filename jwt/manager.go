package jwt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Class distinguishes the two token classes. Each class is signed with its
// own secret and carries its class in the typ claim.
type Class string

const (
	// ClassAccess is a short-lived token presented on every API call.
	ClassAccess Class = "access"
	// ClassRefresh is a long-lived token exchanged for new access tokens.
	ClassRefresh Class = "refresh"
)

const minSecretLength = 16

var (
	// ErrInvalidToken is returned by Verify for any token that must not be
	// trusted: bad signature, expired, wrong class or wrong algorithm.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidConfig is returned by NewManager.
	ErrInvalidConfig = errors.New("invalid jwt configuration")
)

// Config defines the dual-secret signing configuration. Both secrets and both
// TTLs are mandatory.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

// Manager issues and verifies HS256 tokens.
//
// Manager is immutable after construction and safe for concurrent use.
type Manager struct {
	config Config
	now    func() time.Time
}

// Claims is the token body shared by both classes.
type Claims struct {
	Email string `json:"email"`
	Type  Class  `json:"typ"`
	jwt.RegisteredClaims
}

// Identity is the verified subject of a token.
type Identity struct {
	UserID    string
	Email     string
	Class     Class
	ID        string
	ExpiresAt time.Time
}

// Pair holds one token of each class issued together.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// NewManager validates cfg and returns a Manager. Missing secrets, identical
// secrets or non-positive TTLs are rejected.
func NewManager(cfg Config) (*Manager, error) {
	switch {
	case len(cfg.AccessSecret) == 0:
		return nil, fmt.Errorf("%w: access secret is required", ErrInvalidConfig)
	case len(cfg.RefreshSecret) == 0:
		return nil, fmt.Errorf("%w: refresh secret is required", ErrInvalidConfig)
	case len(cfg.AccessSecret) < minSecretLength || len(cfg.RefreshSecret) < minSecretLength:
		return nil, fmt.Errorf("%w: secrets must be at least %d bytes", ErrInvalidConfig, minSecretLength)
	case bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret):
		return nil, fmt.Errorf("%w: access and refresh secrets must differ", ErrInvalidConfig)
	case cfg.AccessTTL <= 0:
		return nil, fmt.Errorf("%w: access TTL must be > 0", ErrInvalidConfig)
	case cfg.RefreshTTL <= 0:
		return nil, fmt.Errorf("%w: refresh TTL must be > 0", ErrInvalidConfig)
	case cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute:
		return nil, fmt.Errorf("%w: leeway must be within [0, 2m]", ErrInvalidConfig)
	}
	cfg.Issuer = strings.TrimSpace(cfg.Issuer)
	cfg.Audience = strings.TrimSpace(cfg.Audience)

	return &Manager{config: cfg, now: time.Now}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (j *Manager) AccessTTL() time.Duration { return j.config.AccessTTL }

// RefreshTTL returns the configured refresh-token lifetime. Stored refresh
// tokens use the same value as their cache TTL.
func (j *Manager) RefreshTTL() time.Duration { return j.config.RefreshTTL }

// IssueAccess signs an access token for the given subject.
func (j *Manager) IssueAccess(userID, email string) (string, error) {
	return j.issue(ClassAccess, userID, email)
}

// IssueRefresh signs a refresh token for the given subject.
func (j *Manager) IssueRefresh(userID, email string) (string, error) {
	return j.issue(ClassRefresh, userID, email)
}

// IssuePair signs one token of each class.
func (j *Manager) IssuePair(userID, email string) (Pair, error) {
	access, err := j.IssueAccess(userID, email)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := j.IssueRefresh(userID, email)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (j *Manager) issue(class Class, userID, email string) (string, error) {
	if userID == "" {
		return "", errors.New("jwt: empty subject")
	}

	now := j.now()
	claims := Claims{
		Email: email,
		Type:  class,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl(class))),
			Issuer:    j.config.Issuer,
		},
	}
	if j.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{j.config.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret(class))
}

// Verify parses tokenStr with the secret of the given class. Every failure
// is reported as ErrInvalidToken wrapping the cause.
func (j *Manager) Verify(tokenStr string, class Class) (*Identity, error) {
	if class != ClassAccess && class != ClassRefresh {
		return nil, fmt.Errorf("%w: unknown class %q", ErrInvalidToken, class)
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(j.config.Leeway))
	}
	if j.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(j.config.Issuer))
	}
	if j.config.Audience != "" {
		options = append(options, jwt.WithAudience(j.config.Audience))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return j.secret(class), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, jwt.ErrTokenInvalidClaims)
	}
	if claims.Type != class {
		return nil, fmt.Errorf("%w: token class %q, want %q", ErrInvalidToken, claims.Type, class)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Class:     claims.Type,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (j *Manager) secret(class Class) []byte {
	if class == ClassRefresh {
		return j.config.RefreshSecret
	}
	return j.config.AccessSecret
}

func (j *Manager) ttl(class Class) time.Duration {
	if class == ClassRefresh {
		return j.config.RefreshTTL
	}
	return j.config.AccessTTL
}
