package flows

import "context"

// RunLogout deletes the stored refresh token for userID. Deleting an absent
// token succeeds.
func RunLogout(ctx context.Context, userID string, d Deps) error {
	if userID == "" {
		return d.Errors.InvalidAccess
	}
	ctx = committed(ctx)
	if err := d.Cache.DeleteRefreshToken(ctx, userID); err != nil {
		return d.fatal(ctx, "logout", userID, err)
	}
	clearMirror(ctx, d, userID)
	d.inc(d.Metrics.IDs.Logout)
	return nil
}

func clearMirror(ctx context.Context, d Deps, userID string) {
	if d.Users.SetRefreshToken != nil {
		d.bestEffort(ctx, "refresh_mirror", userID, d.Users.SetRefreshToken(ctx, userID, ""))
	}
}
