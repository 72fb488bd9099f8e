package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/scrambleAuth/internal/notify"
	"github.com/MrEthical07/scrambleAuth/internal/validation"
)

// RunLogin verifies credentials and starts a new session. Unknown email,
// wrong password and inactive accounts all return the same error.
func RunLogin(ctx context.Context, email, password string, d Deps) (*AuthResult, error) {
	email, res := validation.CheckLogin(email, password)
	if !res.OK() {
		d.inc(d.Metrics.IDs.LoginFailure)
		return nil, d.Errors.InvalidInput(res.Fields)
	}

	ip := d.clientIP(ctx)
	if d.Limiter.CheckLogin != nil {
		if err := d.Limiter.CheckLogin(ctx, email, ip); err != nil {
			if errors.Is(err, d.Limiter.RateLimited) {
				d.inc(d.Metrics.IDs.LoginRateLimited)
				return nil, d.Errors.RateLimited
			}
			d.bestEffort(ctx, "login.rate_check", "", err)
		}
	}

	user, err := d.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, d.Errors.UserNotFound) {
			return nil, loginFailed(ctx, d, email, ip)
		}
		d.inc(d.Metrics.IDs.LoginFailure)
		return nil, d.fatal(ctx, "login.lookup", "", err)
	}
	if !user.IsActive {
		return nil, loginFailed(ctx, d, email, ip)
	}

	ok, err := d.Hasher.Verify(password, user.PasswordHash)
	if err != nil {
		d.inc(d.Metrics.IDs.LoginFailure)
		return nil, d.fatal(ctx, "login.verify", user.ID, err)
	}
	if !ok {
		return nil, loginFailed(ctx, d, email, ip)
	}

	ctx = committed(ctx)
	now := d.now()
	if err := d.Users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		d.inc(d.Metrics.IDs.LoginFailure)
		return nil, d.fatal(ctx, "login.last_login", user.ID, err)
	}
	user.LastLogin = now

	if d.Options.UpgradeHashOnLogin && d.Hasher.NeedsRehash != nil && d.Hasher.NeedsRehash(user.PasswordHash) {
		if upgraded, err := d.Hasher.Hash(password); err == nil {
			d.bestEffort(ctx, "login.rehash", user.ID, d.Users.UpdatePasswordHash(ctx, user.ID, upgraded))
		} else {
			d.bestEffort(ctx, "login.rehash", user.ID, err)
		}
	}

	access, refresh, err := issueAndStore(ctx, d, user.ID, user.Email)
	if err != nil {
		d.inc(d.Metrics.IDs.LoginFailure)
		return nil, d.fatal(ctx, "login.session", user.ID, err)
	}

	// The cached snapshot carries lastLogin.
	d.bestEffort(ctx, "login.profile_invalidate", user.ID, d.Cache.DeleteProfile(ctx, user.ID))
	if d.Limiter.ResetLogin != nil {
		d.bestEffort(ctx, "login.rate_reset", user.ID, d.Limiter.ResetLogin(ctx, email, ip))
	}
	if d.Options.NotifyOnLogin {
		d.send(ctx, notify.New(notify.KindLogin, user.Email, user.ID, map[string]string{
			"name": user.Name,
			"ip":   ip,
		}))
	}
	d.inc(d.Metrics.IDs.LoginSuccess)

	return &AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func loginFailed(ctx context.Context, d Deps, email, ip string) error {
	d.inc(d.Metrics.IDs.LoginFailure)
	if d.Limiter.IncrementLogin != nil {
		if err := d.Limiter.IncrementLogin(ctx, email, ip); err != nil && !errors.Is(err, d.Limiter.RateLimited) {
			d.bestEffort(ctx, "login.rate_increment", "", err)
		}
	}
	return d.Errors.InvalidCredentials
}
