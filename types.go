package scrambleAuth

import (
	"context"
	"time"
)

// Gender is the self-declared gender of a user.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the declared values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// UsageType describes how a user intends to use the application.
type UsageType string

const (
	UsagePersonal UsageType = "personal"
	UsageWork     UsageType = "work"
)

// Valid reports whether u is one of the declared values.
func (u UsageType) Valid() bool {
	return u == UsagePersonal || u == UsageWork
}

// DefaultAvatar is assigned to users created without an avatar.
const DefaultAvatar = "https://default-avatar.com/image.png"

// User is the durable identity record owned by the credential store.
//
// Email is stored trimmed and lowercased and is unique across records.
// Company is non-empty iff UsageType is UsageWork.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Gender       Gender
	UsageType    UsageType
	Company      string
	Avatar       string
	LastLogin    time.Time
	IsActive     bool
	Projects     []string
	// RefreshToken mirrors the last issued refresh token. The session cache
	// is authoritative; this field is never consulted for authorization.
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate enforces the record rules every store applies before a write.
func (u *User) Validate() error {
	switch {
	case u.Email == "":
		return ErrInvalidRecord
	case u.PasswordHash == "":
		return ErrInvalidRecord
	case !u.Gender.Valid() || !u.UsageType.Valid():
		return ErrInvalidRecord
	case u.UsageType == UsageWork && u.Company == "":
		return ErrInvalidRecord
	}
	return nil
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	Name      *string
	Gender    *Gender
	Avatar    *string
	UsageType *UsageType
	Company   *string
}

// Apply merges p into u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.UsageType != nil {
		u.UsageType = *p.UsageType
	}
	if p.Company != nil {
		u.Company = *p.Company
	}
}

// CredentialLookup is the narrow read capability the login path needs.
type CredentialLookup interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// CredentialWriter mutates user records.
//
// Create assigns ID, CreatedAt and UpdatedAt and returns the stored record.
// It returns ErrDuplicateEmail when the email is already registered and
// ErrInvalidRecord when the record fails [User.Validate]. Updates of an
// unknown id return ErrUserNotFound.
type CredentialWriter interface {
	Create(ctx context.Context, user *User) (*User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
	SetRefreshToken(ctx context.Context, id, token string) error
	SetActive(ctx context.Context, id string, active bool) error
}

// CredentialStore is the full persistence contract.
type CredentialStore interface {
	CredentialLookup
	CredentialWriter
}

// Pinger is optionally implemented by stores that can report health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UserSummary is returned by signup and login.
type UserSummary struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LastLogin time.Time `json:"lastLogin"`
}

// Profile is the user-facing profile snapshot. It is what the session cache
// stores under user:<id>.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Gender    Gender    `json:"gender"`
	Avatar    string    `json:"avatar"`
	UsageType UsageType `json:"usageType"`
	Company   string    `json:"company,omitempty"`
	LastLogin time.Time `json:"lastLogin"`
	IsActive  bool      `json:"isActive"`
	Projects  []string  `json:"projects"`
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	User         UserSummary `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// RefreshResult is returned by RefreshToken. RefreshToken is set only when
// rotation is enabled.
type RefreshResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Identity is the verified subject of an access token.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// SignupRequest is the input of Signup. UsageType defaults to personal.
type SignupRequest struct {
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Name      string    `json:"name"`
	Gender    Gender    `json:"gender"`
	UsageType UsageType `json:"usageType,omitempty"`
	Company   string    `json:"company,omitempty"`
}

// LoginRequest is the input of Login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the input of RefreshToken.
type RefreshRequest struct {
	UserID       string `json:"userId"`
	RefreshToken string `json:"refreshToken"`
}

// UpdatePasswordRequest is the input of UpdatePassword.
type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UpdateProfileRequest is the input of UpdateProfile. Absent fields are left
// unchanged.
type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	UsageType *string `json:"usageType,omitempty"`
	Company   *string `json:"company,omitempty"`
}

// HealthReport summarizes dependency health.
type HealthReport struct {
	Status         string `json:"status"`
	CacheAvailable bool   `json:"cacheAvailable"`
	StoreHealthy   bool   `json:"storeHealthy"`
	StoreError     string `json:"storeError,omitempty"`
}
