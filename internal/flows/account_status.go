package flows

import "context"

// RunDeactivate marks the account inactive and drops its cached session
// state. The store write is fatal; cache cleanup is best-effort.
func RunDeactivate(ctx context.Context, userID string, d Deps) error {
	ctx = committed(ctx)
	if err := d.Users.SetActive(ctx, userID, false); err != nil {
		return lookupError(ctx, d, "deactivate", userID, err)
	}

	d.bestEffort(ctx, "deactivate.refresh_invalidate", userID, d.Cache.DeleteRefreshToken(ctx, userID))
	d.bestEffort(ctx, "deactivate.profile_invalidate", userID, d.Cache.DeleteProfile(ctx, userID))
	clearMirror(ctx, d, userID)
	d.inc(d.Metrics.IDs.AccountDeactivated)

	return nil
}
