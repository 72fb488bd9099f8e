package flows

import (
	"context"
	"time"
)

// RunValidateAccess verifies an access token. It never touches the cache or
// the store.
func RunValidateAccess(_ context.Context, token string, d Deps) (*TokenIdentity, error) {
	start := time.Now()
	defer func() {
		if d.Metrics.Observe != nil {
			d.Metrics.Observe(d.Metrics.IDs.ValidateLatency, time.Since(start))
		}
	}()

	if token == "" {
		return nil, d.Errors.InvalidAccess
	}
	ident, err := d.Tokens.VerifyAccess(token)
	if err != nil {
		return nil, d.Errors.InvalidAccess
	}
	return &ident, nil
}
