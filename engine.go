package scrambleAuth

import (
	"context"
	"log/slog"
	"time"

	"github.com/MrEthical07/scrambleAuth/internal/flows"
	"github.com/MrEthical07/scrambleAuth/internal/notify"
	"github.com/MrEthical07/scrambleAuth/internal/rate"
	"github.com/MrEthical07/scrambleAuth/jwt"
	"github.com/MrEthical07/scrambleAuth/password"
	"github.com/MrEthical07/scrambleAuth/session"
)

const healthTimeout = 2 * time.Second

// Engine orchestrates signup, login, token refresh, logout, password change
// and profile access over a credential store and a session cache.
//
// Engine methods are safe for concurrent use. Every returned error is an
// *[Error]; match its kind with errors.Is against ErrConflict,
// ErrUnauthorized and the other kind sentinels.
type Engine struct {
	config      Config
	store       CredentialStore
	cache       *session.Store
	rateLimiter *rate.Limiter
	notifier    *notify.Dispatcher
	metrics     *Metrics
	hasher      *password.Multi
	jwtManager  *jwt.Manager
	logger      *slog.Logger
	flow        flows.Service
}

// Close drains pending notifications. The credential store and Redis
// client are owned by the caller and are not closed.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.notifier.Close()
}

// NotificationsDropped returns the number of notifications dropped because
// the dispatcher buffer was full.
func (e *Engine) NotificationsDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.notifier.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Production reports whether error details must be hidden from clients.
func (e *Engine) Production() bool {
	return e != nil && e.config.Production
}

func (e *Engine) ready() bool {
	return e != nil && e.flow.Initialized()
}

// Signup registers a user and returns the summary and a token pair.
//
// A taken email fails with ErrConflict. The refresh token is stored before
// Signup returns; if that fails the call fails with ErrInternal even though
// the user record was created, and a later Login recovers. The welcome
// notification is queued asynchronously and never fails the call.
func (e *Engine) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if !e.ready() {
		return nil, internalError(ErrEngineNotReady)
	}
	res, err := e.flow.Signup(ctx, flows.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		Gender:    string(req.Gender),
		UsageType: string(req.UsageType),
		Company:   req.Company,
	})
	if err != nil {
		return nil, err
	}
	return authResultOf(res), nil
}

// Login verifies the credentials and starts a new session, replacing any
// previously stored refresh token. Unknown email, wrong password and
// deactivated accounts all fail with the same ErrUnauthorized message.
func (e *Engine) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if !e.ready() {
		return nil, internalError(ErrEngineNotReady)
	}
	res, err := e.flow.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return authResultOf(res), nil
}

// RefreshToken issues a new access token for a refresh token that equals
// the one currently stored for the user. With rotation enabled a new
// refresh token is issued and the presented one stops working.
func (e *Engine) RefreshToken(ctx context.Context, req RefreshRequest) (*RefreshResult, error) {
	if !e.ready() {
		return nil, internalError(ErrEngineNotReady)
	}
	res, err := e.flow.Refresh(ctx, req.UserID, req.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}, nil
}

// Logout deletes the stored refresh token. It is idempotent.
func (e *Engine) Logout(ctx context.Context, userID string) error {
	if !e.ready() {
		return internalError(ErrEngineNotReady)
	}
	return e.flow.Logout(ctx, userID)
}

// UpdatePassword changes the password after verifying the old one. A wrong
// old password fails with ErrInvalidInput. The cached profile and refresh
// token are dropped.
func (e *Engine) UpdatePassword(ctx context.Context, userID string, req UpdatePasswordRequest) error {
	if !e.ready() {
		return internalError(ErrEngineNotReady)
	}
	return e.flow.UpdatePassword(ctx, userID, req.OldPassword, req.NewPassword)
}

// GetProfile returns the profile snapshot, reading through the cache.
func (e *Engine) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if !e.ready() {
		return nil, internalError(ErrEngineNotReady)
	}
	snap, err := e.flow.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileOfSnapshot(snap), nil
}

// UpdateProfile writes the present fields through to the store and
// refreshes the cached snapshot.
func (e *Engine) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*Profile, error) {
	if !e.ready() {
		return nil, internalError(ErrEngineNotReady)
	}
	snap, err := e.flow.UpdateProfile(ctx, userID, flows.ProfileChanges{
		Name:      req.Name,
		Gender:    req.Gender,
		Avatar:    req.Avatar,
		UsageType: req.UsageType,
		Company:   req.Company,
	})
	if err != nil {
		return nil, err
	}
	return profileOfSnapshot(snap), nil
}

// Deactivate disables the account and drops its session state.
func (e *Engine) Deactivate(ctx context.Context, userID string) error {
	if !e.ready() {
		return internalError(ErrEngineNotReady)
	}
	return e.flow.Deactivate(ctx, userID)
}

// ValidateAccess verifies an access token without touching the cache or
// the store.
func (e *Engine) ValidateAccess(ctx context.Context, token string) (*Identity, error) {
	if !e.ready() {
		return nil, internalError(ErrEngineNotReady)
	}
	id, err := e.flow.ValidateAccess(ctx, token)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: id.UserID, Email: id.Email}, nil
}

// Health reports cache availability and, when the store implements
// [Pinger], store reachability. Status is "ok" or "degraded".
func (e *Engine) Health(ctx context.Context) HealthReport {
	report := HealthReport{Status: "ok", StoreHealthy: true}
	if e == nil {
		return HealthReport{Status: "degraded"}
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	report.CacheAvailable = e.cache.Ping(ctx) == nil && e.cache.IsAvailable()
	if p, ok := e.store.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			report.StoreHealthy = false
			if !e.config.Production {
				report.StoreError = err.Error()
			}
		}
	}
	if !report.CacheAvailable || !report.StoreHealthy {
		report.Status = "degraded"
	}
	return report
}

func authResultOf(r *flows.AuthResult) *AuthResult {
	return &AuthResult{
		User:         summaryOfRecord(r.User),
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
	}
}
