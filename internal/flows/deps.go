package flows

import (
	"context"
	"log/slog"
	"time"

	"github.com/MrEthical07/scrambleAuth/internal/notify"
)

// UserRecord is the flow-local user model.
type UserRecord struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Gender       string
	UsageType    string
	Company      string
	Avatar       string
	LastLogin    time.Time
	IsActive     bool
	Projects     []string
}

// NewUser is the record handed to the store on signup.
type NewUser struct {
	Email        string
	PasswordHash string
	Name         string
	Gender       string
	UsageType    string
	Company      string
}

// ProfileChanges carries normalized profile fields. Nil fields are left
// unchanged.
type ProfileChanges struct {
	Name      *string
	Gender    *string
	Avatar    *string
	UsageType *string
	Company   *string
}

// TokenIdentity is the subject of a verified token.
type TokenIdentity struct {
	UserID string
	Email  string
}

// UserDeps is the credential store surface.
type UserDeps struct {
	FindByEmail        func(context.Context, string) (UserRecord, error)
	FindByID           func(context.Context, string) (UserRecord, error)
	Create             func(context.Context, NewUser) (UserRecord, error)
	UpdateLastLogin    func(context.Context, string, time.Time) error
	UpdatePasswordHash func(context.Context, string, string) error
	UpdateProfile      func(context.Context, string, ProfileChanges) (UserRecord, error)
	SetRefreshToken    func(context.Context, string, string) error
	SetActive          func(context.Context, string, bool) error
}

// TokenDeps is the token service surface.
type TokenDeps struct {
	IssuePair     func(userID, email string) (access, refresh string, err error)
	IssueAccess   func(userID, email string) (string, error)
	VerifyAccess  func(string) (TokenIdentity, error)
	VerifyRefresh func(string) (TokenIdentity, error)
}

// CacheDeps is the session cache surface.
type CacheDeps struct {
	StoreRefreshToken  func(context.Context, string, string) error
	GetRefreshToken    func(context.Context, string) (string, bool, error)
	DeleteRefreshToken func(context.Context, string) error
	SetProfile         func(context.Context, string, []byte) error
	GetProfile         func(context.Context, string) ([]byte, bool, error)
	// AddProfile caches a snapshot only when none is cached. It may be nil,
	// in which case reads repopulate with SetProfile.
	AddProfile         func(context.Context, string, []byte) error
	DeleteProfile      func(context.Context, string) error
}

// HasherDeps is the password hasher surface.
type HasherDeps struct {
	Hash        func(string) (string, error)
	Verify      func(plaintext, encoded string) (bool, error)
	NeedsRehash func(string) bool
}

// LimiterDeps is the login throttle surface. All funcs may be nil.
type LimiterDeps struct {
	CheckLogin     func(context.Context, string, string) error
	IncrementLogin func(context.Context, string, string) error
	ResetLogin     func(context.Context, string, string) error
	// RateLimited is matched with errors.Is against limiter errors.
	RateLimited error
}

// MetricIDs carries the host metric identifiers the flows increment.
type MetricIDs struct {
	SignupSuccess            int
	SignupConflict           int
	SignupFailure            int
	LoginSuccess             int
	LoginFailure             int
	LoginRateLimited         int
	RefreshSuccess           int
	RefreshFailure           int
	Logout                   int
	PasswordChangeSuccess    int
	PasswordChangeInvalidOld int
	ProfileCacheHit          int
	ProfileCacheMiss         int
	ProfileUpdated           int
	CacheWriteFailure        int
	AccountDeactivated       int
	ValidateLatency          int
}

// MetricDeps records counters and latencies. Inc and Observe may be nil.
type MetricDeps struct {
	IDs     MetricIDs
	Inc     func(int)
	Observe func(int, time.Duration)
}

// Errors carries host-level errors. The first group is matched against store
// errors with errors.Is; the second group is returned to callers.
type Errors struct {
	UserNotFound   error
	DuplicateEmail error
	InvalidRecord  error

	EmailTaken           error
	InvalidCredentials   error
	InvalidRefresh       error
	InvalidAccess        error
	IncorrectOldPassword error
	NotFound             error
	RateLimited          error
	InvalidInput         func(fields map[string]string) error
	Internal             func(error) error
}

// Options toggles optional flow behavior.
type Options struct {
	RotateRefreshTokens bool
	UpgradeHashOnLogin  bool
	NotifyOnLogin       bool
}

// Deps groups everything the flows need. The root engine builds it once.
type Deps struct {
	Users   UserDeps
	Tokens  TokenDeps
	Cache   CacheDeps
	Hasher  HasherDeps
	Limiter LimiterDeps
	Metrics MetricDeps
	Errors  Errors
	Options Options

	Notify   func(context.Context, notify.Notification)
	ClientIP func(context.Context) string
	Now      func() time.Time
	Logger   *slog.Logger
}

// committed detaches ctx from the caller's cancellation once an operation
// starts writing, so a dropped connection cannot leave half the writes done.
func committed(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func (d Deps) inc(id int) {
	if d.Metrics.Inc != nil {
		d.Metrics.Inc(id)
	}
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) clientIP(ctx context.Context) string {
	if d.ClientIP == nil {
		return ""
	}
	return d.ClientIP(ctx)
}

func (d Deps) send(ctx context.Context, n notify.Notification) {
	if d.Notify != nil {
		d.Notify(ctx, n)
	}
}

// bestEffort logs err at Warn. It is used for steps whose failure must not
// fail the operation.
func (d Deps) bestEffort(ctx context.Context, op, userID string, err error) {
	if err == nil {
		return
	}
	d.inc(d.Metrics.IDs.CacheWriteFailure)
	if d.Logger != nil {
		d.Logger.WarnContext(ctx, "best-effort step failed",
			"op", op,
			"user_id", userID,
			"error", err,
		)
	}
}

// fatal logs err at Error and converts it to the host internal error.
func (d Deps) fatal(ctx context.Context, op, userID string, err error) error {
	d.logFailure(ctx, op, userID, err)
	return d.Errors.Internal(err)
}

func (d Deps) logFailure(ctx context.Context, op, userID string, err error) {
	if d.Logger != nil {
		d.Logger.ErrorContext(ctx, "operation failed",
			"op", op,
			"user_id", userID,
			"error", err,
		)
	}
}
