package flows

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/MrEthical07/scrambleAuth/internal/validation"
)

// ProfileSnapshot is the cached profile payload stored under user:<id>.
type ProfileSnapshot struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Gender    string    `json:"gender"`
	Avatar    string    `json:"avatar"`
	UsageType string    `json:"usageType"`
	Company   string    `json:"company,omitempty"`
	LastLogin time.Time `json:"lastLogin"`
	IsActive  bool      `json:"isActive"`
	Projects  []string  `json:"projects"`
}

// SnapshotOf builds the cached view of u. Projects is never nil so the JSON
// form is stable across cache hits and misses.
func SnapshotOf(u UserRecord) ProfileSnapshot {
	projects := u.Projects
	if projects == nil {
		projects = []string{}
	}
	return ProfileSnapshot{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Gender:    u.Gender,
		Avatar:    u.Avatar,
		UsageType: u.UsageType,
		Company:   u.Company,
		LastLogin: u.LastLogin.UTC(),
		IsActive:  u.IsActive,
		Projects:  projects,
	}
}

// RunGetProfile is a cache-aside read of the profile snapshot. A miss
// repopulates only an empty key, so it never replaces the snapshot written
// by a concurrent update.
func RunGetProfile(ctx context.Context, userID string, d Deps) (*ProfileSnapshot, error) {
	if userID == "" {
		return nil, d.Errors.NotFound
	}

	raw, ok, err := d.Cache.GetProfile(ctx, userID)
	if err != nil {
		d.bestEffort(ctx, "profile.cache_read", userID, err)
	}
	if ok {
		var snap ProfileSnapshot
		if err := json.Unmarshal(raw, &snap); err == nil && snap.ID == userID {
			d.inc(d.Metrics.IDs.ProfileCacheHit)
			return &snap, nil
		}
		d.bestEffort(ctx, "profile.cache_decode", userID, d.Cache.DeleteProfile(ctx, userID))
	}

	d.inc(d.Metrics.IDs.ProfileCacheMiss)
	user, err := d.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(ctx, d, "profile.lookup", userID, err)
	}

	snap := SnapshotOf(user)
	add := d.Cache.AddProfile
	if add == nil {
		add = d.Cache.SetProfile
	}
	cacheProfile(ctx, d, snap, add)
	return &snap, nil
}

// RunUpdateProfile writes through the store, then invalidates and
// repopulates the cached snapshot.
func RunUpdateProfile(ctx context.Context, userID string, in ProfileChanges, d Deps) (*ProfileSnapshot, error) {
	current, err := d.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(ctx, d, "profile.lookup", userID, err)
	}

	checked, res := validation.CheckProfileUpdate(validation.ProfileUpdate{
		Name:      in.Name,
		Gender:    in.Gender,
		Avatar:    in.Avatar,
		UsageType: in.UsageType,
		Company:   in.Company,
	}, current.UsageType, current.Company)
	if !res.OK() {
		return nil, d.Errors.InvalidInput(res.Fields)
	}

	ctx = committed(ctx)
	updated, err := d.Users.UpdateProfile(ctx, userID, ProfileChanges{
		Name:      checked.Name,
		Gender:    checked.Gender,
		Avatar:    checked.Avatar,
		UsageType: checked.UsageType,
		Company:   checked.Company,
	})
	if err != nil {
		if errors.Is(err, d.Errors.InvalidRecord) {
			return nil, d.Errors.InvalidInput(map[string]string{"company": "Company is required when usageType is work"})
		}
		return nil, lookupError(ctx, d, "profile.update", userID, err)
	}

	d.bestEffort(ctx, "profile.cache_invalidate", userID, d.Cache.DeleteProfile(ctx, userID))
	snap := SnapshotOf(updated)
	cacheProfile(ctx, d, snap, d.Cache.SetProfile)
	d.inc(d.Metrics.IDs.ProfileUpdated)

	return &snap, nil
}

func cacheProfile(ctx context.Context, d Deps, snap ProfileSnapshot, write func(context.Context, string, []byte) error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		d.bestEffort(ctx, "profile.cache_encode", snap.ID, err)
		return
	}
	d.bestEffort(ctx, "profile.cache_write", snap.ID, write(ctx, snap.ID, payload))
}
