package scrambleAuth

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/scrambleAuth/internal/flows"
	"github.com/MrEthical07/scrambleAuth/internal/notify"
	"github.com/MrEthical07/scrambleAuth/internal/rate"
	"github.com/MrEthical07/scrambleAuth/jwt"
)

// buildFlowDeps adapts the engine collaborators to the flow-local
// signatures. It runs once in Build.
func (e *Engine) buildFlowDeps() flows.Deps {
	return flows.Deps{
		Users: flows.UserDeps{
			FindByEmail: func(ctx context.Context, email string) (flows.UserRecord, error) {
				return recordOf(e.store.FindByEmail(ctx, email))
			},
			FindByID: func(ctx context.Context, id string) (flows.UserRecord, error) {
				return recordOf(e.store.FindByID(ctx, id))
			},
			Create: func(ctx context.Context, n flows.NewUser) (flows.UserRecord, error) {
				return recordOf(e.store.Create(ctx, &User{
					Email:        n.Email,
					PasswordHash: n.PasswordHash,
					Name:         n.Name,
					Gender:       Gender(n.Gender),
					UsageType:    UsageType(n.UsageType),
					Company:      n.Company,
					Avatar:       DefaultAvatar,
					IsActive:     true,
					Projects:     []string{},
				}))
			},
			UpdateLastLogin:    e.store.UpdateLastLogin,
			UpdatePasswordHash: e.store.UpdatePasswordHash,
			UpdateProfile: func(ctx context.Context, id string, c flows.ProfileChanges) (flows.UserRecord, error) {
				return recordOf(e.store.UpdateProfile(ctx, id, profileUpdateOf(c)))
			},
			SetRefreshToken: e.store.SetRefreshToken,
			SetActive:       e.store.SetActive,
		},
		Tokens: flows.TokenDeps{
			IssuePair: func(userID, email string) (string, string, error) {
				pair, err := e.jwtManager.IssuePair(userID, email)
				if err != nil {
					return "", "", err
				}
				return pair.AccessToken, pair.RefreshToken, nil
			},
			IssueAccess: e.jwtManager.IssueAccess,
			VerifyAccess: func(token string) (flows.TokenIdentity, error) {
				return e.verify(token, jwt.ClassAccess)
			},
			VerifyRefresh: func(token string) (flows.TokenIdentity, error) {
				return e.verify(token, jwt.ClassRefresh)
			},
		},
		Cache: flows.CacheDeps{
			StoreRefreshToken:  e.cache.StoreRefreshToken,
			GetRefreshToken:    e.cache.GetRefreshToken,
			DeleteRefreshToken: e.cache.DeleteRefreshToken,
			SetProfile:         e.cache.SetProfile,
			GetProfile:         e.cache.GetProfile,
			AddProfile:         e.cache.AddProfile,
			DeleteProfile:      e.cache.DeleteProfile,
		},
		Hasher: flows.HasherDeps{
			Hash:        e.hasher.Hash,
			Verify:      e.hasher.Verify,
			NeedsRehash: e.hasher.NeedsRehash,
		},
		Limiter: flows.LimiterDeps{
			CheckLogin:     e.rateLimiter.CheckLogin,
			IncrementLogin: e.rateLimiter.IncrementLogin,
			ResetLogin:     e.rateLimiter.ResetLogin,
			RateLimited:    rate.ErrRateLimited,
		},
		Metrics: flows.MetricDeps{
			IDs: flows.MetricIDs{
				SignupSuccess:            int(MetricSignupSuccess),
				SignupConflict:           int(MetricSignupConflict),
				SignupFailure:            int(MetricSignupFailure),
				LoginSuccess:             int(MetricLoginSuccess),
				LoginFailure:             int(MetricLoginFailure),
				LoginRateLimited:         int(MetricLoginRateLimited),
				RefreshSuccess:           int(MetricRefreshSuccess),
				RefreshFailure:           int(MetricRefreshFailure),
				Logout:                   int(MetricLogout),
				PasswordChangeSuccess:    int(MetricPasswordChangeSuccess),
				PasswordChangeInvalidOld: int(MetricPasswordChangeInvalidOld),
				ProfileCacheHit:          int(MetricProfileCacheHit),
				ProfileCacheMiss:         int(MetricProfileCacheMiss),
				ProfileUpdated:           int(MetricProfileUpdated),
				CacheWriteFailure:        int(MetricCacheWriteFailure),
				AccountDeactivated:       int(MetricAccountDeactivated),
				ValidateLatency:          int(MetricValidateLatency),
			},
			Inc:     func(id int) { e.metrics.Inc(MetricID(id)) },
			Observe: func(id int, d time.Duration) { e.metrics.Observe(MetricID(id), d) },
		},
		Errors: flows.Errors{
			UserNotFound:   ErrUserNotFound,
			DuplicateEmail: ErrDuplicateEmail,
			InvalidRecord:  ErrInvalidRecord,

			EmailTaken:           newError(KindConflict, MessageEmailTaken),
			InvalidCredentials:   newError(KindUnauthorized, MessageInvalidCredentials),
			InvalidRefresh:       newError(KindUnauthorized, MessageInvalidRefresh),
			InvalidAccess:        newError(KindUnauthorized, MessageInvalidAccess),
			IncorrectOldPassword: newError(KindInvalidInput, MessageIncorrectOldPassword),
			NotFound:             newError(KindNotFound, MessageUserNotFound),
			RateLimited:          newError(KindRateLimited, MessageTooManyLoginAttempts),
			InvalidInput: func(fields map[string]string) error {
				return invalidInput(fields)
			},
			Internal: func(err error) error {
				return internalError(err)
			},
		},
		Options: flows.Options{
			RotateRefreshTokens: e.config.Session.RotateRefreshTokens,
			UpgradeHashOnLogin:  e.config.Password.UpgradeOnLogin,
			NotifyOnLogin:       e.config.Notifications.NotifyOnLogin,
		},
		Notify: func(ctx context.Context, n notify.Notification) {
			e.notifier.Send(ctx, n)
		},
		ClientIP: ClientIPFromContext,
		Now:      time.Now,
		Logger:   e.logger,
	}
}

func (e *Engine) verify(token string, class jwt.Class) (flows.TokenIdentity, error) {
	id, err := e.jwtManager.Verify(token, class)
	if err != nil {
		return flows.TokenIdentity{}, err
	}
	return flows.TokenIdentity{UserID: id.UserID, Email: id.Email}, nil
}

func recordOf(u *User, err error) (flows.UserRecord, error) {
	if err != nil {
		return flows.UserRecord{}, err
	}
	if u == nil {
		return flows.UserRecord{}, errors.Join(ErrInvalidRecord, errors.New("store returned nil user"))
	}
	return flows.UserRecord{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Gender:       string(u.Gender),
		UsageType:    string(u.UsageType),
		Company:      u.Company,
		Avatar:       u.Avatar,
		LastLogin:    u.LastLogin,
		IsActive:     u.IsActive,
		Projects:     u.Projects,
	}, nil
}

func profileUpdateOf(c flows.ProfileChanges) ProfileUpdate {
	var p ProfileUpdate
	p.Name = c.Name
	p.Avatar = c.Avatar
	p.Company = c.Company
	if c.Gender != nil {
		g := Gender(*c.Gender)
		p.Gender = &g
	}
	if c.UsageType != nil {
		u := UsageType(*c.UsageType)
		p.UsageType = &u
	}
	return p
}

func summaryOfRecord(r flows.UserRecord) UserSummary {
	return UserSummary{ID: r.ID, Email: r.Email, Name: r.Name, LastLogin: r.LastLogin}
}

func profileOfSnapshot(s *flows.ProfileSnapshot) *Profile {
	return &Profile{
		ID:        s.ID,
		Email:     s.Email,
		Name:      s.Name,
		Gender:    Gender(s.Gender),
		Avatar:    s.Avatar,
		UsageType: UsageType(s.UsageType),
		Company:   s.Company,
		LastLogin: s.LastLogin,
		IsActive:  s.IsActive,
		Projects:  s.Projects,
	}
}
