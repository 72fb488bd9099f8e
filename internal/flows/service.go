package flows

import "context"

// Service is the centralized flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Tokens.VerifyAccess != nil && s.deps.Users.FindByID != nil
}

// Signup runs [RunSignup].
func (s Service) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	return RunSignup(ctx, in, s.deps)
}

// Login runs [RunLogin].
func (s Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return RunLogin(ctx, email, password, s.deps)
}

// Refresh runs [RunRefresh].
func (s Service) Refresh(ctx context.Context, userID, token string) (*RefreshResult, error) {
	return RunRefresh(ctx, userID, token, s.deps)
}

// Logout runs [RunLogout].
func (s Service) Logout(ctx context.Context, userID string) error {
	return RunLogout(ctx, userID, s.deps)
}

// UpdatePassword runs [RunUpdatePassword].
func (s Service) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return RunUpdatePassword(ctx, userID, oldPassword, newPassword, s.deps)
}

// GetProfile runs [RunGetProfile].
func (s Service) GetProfile(ctx context.Context, userID string) (*ProfileSnapshot, error) {
	return RunGetProfile(ctx, userID, s.deps)
}

// UpdateProfile runs [RunUpdateProfile].
func (s Service) UpdateProfile(ctx context.Context, userID string, in ProfileChanges) (*ProfileSnapshot, error) {
	return RunUpdateProfile(ctx, userID, in, s.deps)
}

// Deactivate runs [RunDeactivate].
func (s Service) Deactivate(ctx context.Context, userID string) error {
	return RunDeactivate(ctx, userID, s.deps)
}

// ValidateAccess runs [RunValidateAccess].
func (s Service) ValidateAccess(ctx context.Context, token string) (*TokenIdentity, error) {
	return RunValidateAccess(ctx, token, s.deps)
}
