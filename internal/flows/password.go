package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/scrambleAuth/internal/notify"
	"github.com/MrEthical07/scrambleAuth/internal/validation"
)

// RunUpdatePassword replaces the password of an authenticated user after
// checking the old one. Cached profile and refresh token are dropped so
// other sessions must log in again.
func RunUpdatePassword(ctx context.Context, userID, oldPassword, newPassword string, d Deps) error {
	if res := validation.CheckPasswordChange(oldPassword, newPassword); !res.OK() {
		return d.Errors.InvalidInput(res.Fields)
	}

	user, err := d.Users.FindByID(ctx, userID)
	if err != nil {
		return lookupError(ctx, d, "password.lookup", userID, err)
	}

	ok, err := d.Hasher.Verify(oldPassword, user.PasswordHash)
	if err != nil {
		return d.fatal(ctx, "password.verify", userID, err)
	}
	if !ok {
		d.inc(d.Metrics.IDs.PasswordChangeInvalidOld)
		return d.Errors.IncorrectOldPassword
	}

	hash, err := d.Hasher.Hash(newPassword)
	if err != nil {
		return d.fatal(ctx, "password.hash", userID, err)
	}
	ctx = committed(ctx)
	if err := d.Users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return lookupError(ctx, d, "password.update", userID, err)
	}

	d.bestEffort(ctx, "password.profile_invalidate", userID, d.Cache.DeleteProfile(ctx, userID))
	d.bestEffort(ctx, "password.refresh_invalidate", userID, d.Cache.DeleteRefreshToken(ctx, userID))
	clearMirror(ctx, d, userID)

	d.send(ctx, notify.New(notify.KindPasswordReset, user.Email, user.ID, map[string]string{
		"name": user.Name,
	}))
	d.inc(d.Metrics.IDs.PasswordChangeSuccess)

	return nil
}

// lookupError maps a store error for a known-id operation.
func lookupError(ctx context.Context, d Deps, op, userID string, err error) error {
	if errors.Is(err, d.Errors.UserNotFound) {
		return d.Errors.NotFound
	}
	return d.fatal(ctx, op, userID, err)
}
