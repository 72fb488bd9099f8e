package flows

import (
	"context"
	"crypto/subtle"

	"github.com/MrEthical07/scrambleAuth/internal/validation"
)

// RefreshResult is the flow-local refresh response shape.
type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}

// RunRefresh exchanges a refresh token for a new access token. The presented
// token must equal the one stored for userID before its signature is even
// checked. Every failure, including issuing or storing new tokens, returns
// the same error; infrastructure causes are logged.
func RunRefresh(ctx context.Context, userID, token string, d Deps) (*RefreshResult, error) {
	if res := validation.CheckRefresh(userID, token); !res.OK() {
		d.inc(d.Metrics.IDs.RefreshFailure)
		return nil, d.Errors.InvalidInput(res.Fields)
	}

	stored, ok, err := d.Cache.GetRefreshToken(ctx, userID)
	if err != nil {
		d.bestEffort(ctx, "refresh.lookup", userID, err)
		return nil, refreshFailed(d)
	}
	if !ok || subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return nil, refreshFailed(d)
	}

	ident, err := d.Tokens.VerifyRefresh(token)
	if err != nil || ident.UserID != userID {
		return nil, refreshFailed(d)
	}

	if !d.Options.RotateRefreshTokens {
		access, err := d.Tokens.IssueAccess(ident.UserID, ident.Email)
		if err != nil {
			d.logFailure(ctx, "refresh.issue", userID, err)
			return nil, refreshFailed(d)
		}
		d.inc(d.Metrics.IDs.RefreshSuccess)
		return &RefreshResult{AccessToken: access}, nil
	}

	access, refresh, err := issueAndStore(ctx, d, ident.UserID, ident.Email)
	if err != nil {
		d.logFailure(ctx, "refresh.rotate", userID, err)
		return nil, refreshFailed(d)
	}
	d.inc(d.Metrics.IDs.RefreshSuccess)

	return &RefreshResult{AccessToken: access, RefreshToken: refresh}, nil
}

func refreshFailed(d Deps) error {
	d.inc(d.Metrics.IDs.RefreshFailure)
	return d.Errors.InvalidRefresh
}
