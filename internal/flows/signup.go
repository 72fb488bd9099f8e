package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/scrambleAuth/internal/notify"
	"github.com/MrEthical07/scrambleAuth/internal/validation"
)

// SignupInput is the raw signup request.
type SignupInput struct {
	Email     string
	Password  string
	Name      string
	Gender    string
	UsageType string
	Company   string
}

// AuthResult is the flow-local signup/login response shape.
type AuthResult struct {
	User         UserRecord
	AccessToken  string
	RefreshToken string
}

// RunSignup registers a user, issues a token pair and stores the refresh
// token. The refresh token is persisted before success is reported; the
// welcome notification is fire-and-forget.
func RunSignup(ctx context.Context, in SignupInput, d Deps) (*AuthResult, error) {
	norm, res := validation.CheckSignup(validation.Signup{
		Email:     in.Email,
		Password:  in.Password,
		Name:      in.Name,
		Gender:    in.Gender,
		UsageType: in.UsageType,
		Company:   in.Company,
	})
	if !res.OK() {
		d.inc(d.Metrics.IDs.SignupFailure)
		return nil, d.Errors.InvalidInput(res.Fields)
	}

	_, err := d.Users.FindByEmail(ctx, norm.Email)
	switch {
	case err == nil:
		d.inc(d.Metrics.IDs.SignupConflict)
		return nil, d.Errors.EmailTaken
	case !errors.Is(err, d.Errors.UserNotFound):
		d.inc(d.Metrics.IDs.SignupFailure)
		return nil, d.fatal(ctx, "signup.lookup", "", err)
	}

	hash, err := d.Hasher.Hash(norm.Password)
	if err != nil {
		d.inc(d.Metrics.IDs.SignupFailure)
		return nil, d.fatal(ctx, "signup.hash", "", err)
	}

	ctx = committed(ctx)
	user, err := d.Users.Create(ctx, NewUser{
		Email:        norm.Email,
		PasswordHash: hash,
		Name:         norm.Name,
		Gender:       norm.Gender,
		UsageType:    norm.UsageType,
		Company:      norm.Company,
	})
	if err != nil {
		switch {
		case errors.Is(err, d.Errors.DuplicateEmail):
			d.inc(d.Metrics.IDs.SignupConflict)
			return nil, d.Errors.EmailTaken
		case errors.Is(err, d.Errors.InvalidRecord):
			d.inc(d.Metrics.IDs.SignupFailure)
			return nil, d.Errors.InvalidInput(map[string]string{"user": "invalid user record"})
		}
		d.inc(d.Metrics.IDs.SignupFailure)
		return nil, d.fatal(ctx, "signup.create", "", err)
	}

	access, refresh, err := issueAndStore(ctx, d, user.ID, user.Email)
	if err != nil {
		d.inc(d.Metrics.IDs.SignupFailure)
		return nil, d.fatal(ctx, "signup.session", user.ID, err)
	}

	d.send(ctx, notify.New(notify.KindWelcome, user.Email, user.ID, map[string]string{
		"name": user.Name,
	}))
	d.inc(d.Metrics.IDs.SignupSuccess)

	return &AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// issueAndStore issues a pair and stores the refresh token. Both steps are
// fatal. The mirror on the user record is best-effort.
func issueAndStore(ctx context.Context, d Deps, userID, email string) (string, string, error) {
	ctx = committed(ctx)
	access, refresh, err := d.Tokens.IssuePair(userID, email)
	if err != nil {
		return "", "", err
	}
	if err := d.Cache.StoreRefreshToken(ctx, userID, refresh); err != nil {
		return "", "", err
	}
	if d.Users.SetRefreshToken != nil {
		d.bestEffort(ctx, "refresh_mirror", userID, d.Users.SetRefreshToken(ctx, userID, refresh))
	}
	return access, refresh, nil
}
