package scrambleAuth

import (
	"errors"
	"net/http"
)

// Kind classifies every failure an Engine operation can report.
type Kind string

const (
	// KindInvalidInput covers malformed or missing fields and a wrong old password.
	KindInvalidInput Kind = "invalid_input"
	// KindConflict covers duplicate email registration.
	KindConflict Kind = "conflict"
	// KindUnauthorized covers bad credentials and invalid, expired or revoked tokens.
	KindUnauthorized Kind = "unauthorized"
	// KindNotFound covers unknown user ids.
	KindNotFound Kind = "not_found"
	// KindInternal covers storage, cache and signing failures.
	KindInternal Kind = "internal"
	// KindRateLimited is reported by the optional login throttle.
	KindRateLimited Kind = "rate_limited"
)

var (
	// ErrInvalidInput is matched by errors.Is for every KindInvalidInput failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is matched by errors.Is for every KindConflict failure.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is matched by errors.Is for every KindUnauthorized failure.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is matched by errors.Is for every KindNotFound failure.
	ErrNotFound = errors.New("not found")
	// ErrInternal is matched by errors.Is for every KindInternal failure.
	ErrInternal = errors.New("internal error")
	// ErrRateLimited is matched by errors.Is for every KindRateLimited failure.
	ErrRateLimited = errors.New("rate limited")
)

// Credential store sentinels. Store implementations return these (possibly
// wrapped) so the engine can classify failures.
var (
	// ErrUserNotFound is returned when no record matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the unique email index rejects a write.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidRecord is returned when a record violates the schema rules.
	ErrInvalidRecord = errors.New("invalid user record")
)

// Engine not wired.
var ErrEngineNotReady = errors.New("engine not initialized")

// User-visible messages.
const (
	MessageSignupSuccess        = "User registered successfully"
	MessageLoginSuccess         = "Login successful"
	MessageRefreshSuccess       = "Access token refreshed"
	MessageLogoutSuccess        = "Logged out successfully"
	MessageProfileRetrieved     = "User profile retrieved successfully"
	MessageProfileUpdated       = "User profile updated successfully"
	MessagePasswordUpdated      = "Password updated successfully"
	MessageAccountDeactivated   = "Account deactivated successfully"
	MessageEmailTaken           = "Signup failed: email already taken"
	MessageInvalidCredentials   = "Invalid email or password"
	MessageInvalidRefresh       = "Invalid or expired refresh token"
	MessageInvalidAccess        = "Invalid or expired access token"
	MessageIncorrectOldPassword = "Incorrect old password"
	MessageUserNotFound         = "User not found"
	MessageValidationFailed     = "Validation failed"
	MessageInternal             = "Internal server error"
	MessageTooManyLoginAttempts = "Too many login attempts, try again later"
)

// Error is the structured failure returned by every Engine operation.
//
// errors.Is matches both the Kind sentinel (ErrConflict, ...) and the
// wrapped cause, if any.
type Error struct {
	Kind    Kind
	Message string
	// Fields maps request fields to validation messages for KindInvalidInput.
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the Kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// Detail returns the underlying cause for diagnostics. In production it is
// always empty.
func (e *Error) Detail(production bool) string {
	if production || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Status returns the HTTP status class of the kind.
func (k Kind) Status() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindConflict:
		return ErrConflict
	case KindUnauthorized:
		return ErrUnauthorized
	case KindNotFound:
		return ErrNotFound
	case KindRateLimited:
		return ErrRateLimited
	default:
		return ErrInternal
	}
}

// AsError converts any error to *Error. Errors that are not already
// structured become KindInternal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return internalError(err)
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func internalError(cause error) *Error {
	return &Error{Kind: KindInternal, Message: MessageInternal, Err: cause}
}

func invalidInput(fields map[string]string) *Error {
	return &Error{Kind: KindInvalidInput, Message: MessageValidationFailed, Fields: fields}
}
