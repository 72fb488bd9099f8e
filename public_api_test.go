package scrambleAuth_test

import (
	"context"
	"net/http"
	"testing"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
	"github.com/MrEthical07/scrambleAuth/middleware"
	"github.com/MrEthical07/scrambleAuth/userstore/memstore"
	"github.com/MrEthical07/scrambleAuth/userstore/mongostore"
)

// Guards the exported surface consumers compile against.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = scrambleAuth.New
	_ = scrambleAuth.LoadConfigFromEnv

	var _ *scrambleAuth.Engine
	var _ scrambleAuth.Config
	var _ scrambleAuth.AuthResult
	var _ scrambleAuth.Profile
	var _ scrambleAuth.NotificationSink = scrambleAuth.NoOpSink{}
	var _ scrambleAuth.CredentialStore = memstore.New()
	var _ scrambleAuth.CredentialStore = (*mongostore.Store)(nil)
	var _ scrambleAuth.Pinger = (*mongostore.Store)(nil)

	var _ error = scrambleAuth.ErrInvalidInput
	var _ error = scrambleAuth.ErrConflict
	var _ error = scrambleAuth.ErrUnauthorized
	var _ error = scrambleAuth.ErrNotFound
	var _ error = scrambleAuth.ErrInternal

	var _ func(*scrambleAuth.Engine) func(http.Handler) http.Handler = func(e *scrambleAuth.Engine) func(http.Handler) http.Handler {
		return middleware.Guard(e)
	}

	var _ func(*scrambleAuth.Engine, context.Context, scrambleAuth.SignupRequest) (*scrambleAuth.AuthResult, error) = (*scrambleAuth.Engine).Signup
	var _ func(*scrambleAuth.Engine, context.Context, scrambleAuth.LoginRequest) (*scrambleAuth.AuthResult, error) = (*scrambleAuth.Engine).Login
	var _ func(*scrambleAuth.Engine, context.Context, scrambleAuth.RefreshRequest) (*scrambleAuth.RefreshResult, error) = (*scrambleAuth.Engine).RefreshToken
	var _ func(*scrambleAuth.Engine, context.Context, string) error = (*scrambleAuth.Engine).Logout
	var _ func(*scrambleAuth.Engine, context.Context, string) (*scrambleAuth.Profile, error) = (*scrambleAuth.Engine).GetProfile
}
