// Package memstore is an in-process [scrambleAuth.CredentialStore].
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var _ scrambleAuth.CredentialStore = (*Store)(nil)

// Store keeps users in maps guarded by a single RWMutex. Returned users are
// copies; mutating them does not affect the store.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*scrambleAuth.User
	byEmail map[string]string
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		byID:    make(map[string]*scrambleAuth.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (s *Store) FindByEmail(_ context.Context, email string) (*scrambleAuth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, scrambleAuth.ErrUserNotFound
	}
	return clone(s.byID[id]), nil
}

func (s *Store) FindByID(_ context.Context, id string) (*scrambleAuth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, scrambleAuth.ErrUserNotFound
	}
	return clone(u), nil
}

// Create stores a copy of user with a fresh ObjectID-style id.
func (s *Store) Create(_ context.Context, user *scrambleAuth.User) (*scrambleAuth.User, error) {
	if user == nil {
		return nil, scrambleAuth.ErrInvalidRecord
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return nil, scrambleAuth.ErrDuplicateEmail
	}

	now := s.now().UTC()
	stored := clone(user)
	stored.ID = bson.NewObjectID().Hex()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.byID[stored.ID] = stored
	s.byEmail[stored.Email] = stored.ID

	return clone(stored), nil
}

func (s *Store) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	return s.mutate(id, func(u *scrambleAuth.User) error {
		u.LastLogin = at.UTC()
		return nil
	})
}

func (s *Store) UpdatePasswordHash(_ context.Context, id, hash string) error {
	return s.mutate(id, func(u *scrambleAuth.User) error {
		if hash == "" {
			return scrambleAuth.ErrInvalidRecord
		}
		u.PasswordHash = hash
		return nil
	})
}

// UpdateProfile merges update into the stored user. The merged record must
// pass [scrambleAuth.User.Validate] or nothing is written.
func (s *Store) UpdateProfile(_ context.Context, id string, update scrambleAuth.ProfileUpdate) (*scrambleAuth.User, error) {
	var out *scrambleAuth.User
	err := s.mutate(id, func(u *scrambleAuth.User) error {
		update.Apply(u)
		if err := u.Validate(); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) SetRefreshToken(_ context.Context, id, token string) error {
	return s.mutate(id, func(u *scrambleAuth.User) error {
		u.RefreshToken = token
		return nil
	})
}

func (s *Store) SetActive(_ context.Context, id string, active bool) error {
	return s.mutate(id, func(u *scrambleAuth.User) error {
		u.IsActive = active
		return nil
	})
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Len returns the number of stored users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// mutate applies fn to a copy and commits it only when fn succeeds. fn may
// keep the pointer it receives; the committed value is cloned again.
func (s *Store) mutate(id string, fn func(*scrambleAuth.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[id]
	if !ok {
		return scrambleAuth.ErrUserNotFound
	}

	next := clone(current)
	if err := fn(next); err != nil {
		return err
	}
	next.UpdatedAt = s.now().UTC()
	s.byID[id] = clone(next)
	return nil
}

func clone(u *scrambleAuth.User) *scrambleAuth.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Projects = slices.Clone(u.Projects)
	return &c
}
