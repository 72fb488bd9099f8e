// Package mongostore persists users in a MongoDB collection.
//
// Documents use camelCase field names. A unique index on email enforces
// uniqueness across concurrent signups; duplicate-key writes surface as
// [scrambleAuth.ErrDuplicateEmail]. Ids that are not valid ObjectID hex
// strings are treated as unknown users.
package mongostore

import (
	"context"
	"errors"
	"slices"
	"time"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// DefaultCollection is the collection name used when none is configured.
const DefaultCollection = "users"

// profileAttempts bounds how often UpdateProfile re-reads after losing a race
// with another profile write.
const profileAttempts = 5

var _ scrambleAuth.CredentialStore = (*Store)(nil)

// Store is a [scrambleAuth.CredentialStore] over a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// New returns a store over db.<collection>. It does not create indexes; call
// [Store.EnsureIndexes] once at startup.
func New(client *mongo.Client, database, collection string) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
		now:    time.Now,
	}
}

// EnsureIndexes creates the unique email index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return oops.Code("STORE_INDEX_FAILED").In("mongostore").With("collection", s.coll.Name()).Wrap(err)
	}
	return nil
}

// Ping checks connectivity to the primary.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return oops.Code("STORE_UNAVAILABLE").In("mongostore").Wrap(err)
	}
	return nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*scrambleAuth.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}}, "email", email)
}

func (s *Store) FindByID(ctx context.Context, id string) (*scrambleAuth.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, scrambleAuth.ErrUserNotFound
	}
	return s.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, "user_id", id)
}

func (s *Store) Create(ctx context.Context, user *scrambleAuth.User) (*scrambleAuth.User, error) {
	if user == nil {
		return nil, scrambleAuth.ErrInvalidRecord
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := toDocument(user)
	doc.ID = bson.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, scrambleAuth.ErrDuplicateEmail
		}
		return nil, oops.Code("STORE_WRITE_FAILED").In("mongostore").With("op", "create").Wrap(err)
	}

	return doc.toUser(), nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return s.set(ctx, id, "update_last_login", bson.D{{Key: "lastLogin", Value: at.UTC()}})
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	if hash == "" {
		return scrambleAuth.ErrInvalidRecord
	}
	return s.set(ctx, id, "update_password", bson.D{{Key: "password", Value: hash}})
}

func (s *Store) SetRefreshToken(ctx context.Context, id, token string) error {
	var value any
	if token != "" {
		value = token
	}
	return s.set(ctx, id, "set_refresh_token", bson.D{{Key: "refreshToken", Value: value}})
}

func (s *Store) SetActive(ctx context.Context, id string, active bool) error {
	return s.set(ctx, id, "set_active", bson.D{{Key: "isActive", Value: active}})
}

// UpdateProfile loads the user, applies update, validates the merged record
// and writes only the changed fields. The write is conditioned on the profile
// revision that was read; when another profile write lands first the merge is
// redone against the fresh record, so the last writer wins. Login, refresh
// token and activation writes do not touch the revision.
func (s *Store) UpdateProfile(ctx context.Context, id string, update scrambleAuth.ProfileUpdate) (*scrambleAuth.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, scrambleAuth.ErrUserNotFound
	}

	fields := profileFields(update)
	for range profileAttempts {
		current, err := s.findDocument(ctx, bson.D{{Key: "_id", Value: oid}}, "user_id", id)
		if err != nil {
			return nil, err
		}

		merged := current.toUser()
		update.Apply(merged)
		if err := merged.Validate(); err != nil {
			return nil, err
		}

		set := append(slices.Clone(fields), bson.E{Key: "updatedAt", Value: s.now().UTC()})
		var doc userDocument
		err = s.coll.FindOneAndUpdate(ctx,
			profileRevFilter(oid, current.ProfileRev),
			bson.D{
				{Key: "$set", Value: set},
				{Key: "$inc", Value: bson.D{{Key: "profileRev", Value: int64(1)}}},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&doc)
		if err == nil {
			return doc.toUser(), nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, oops.Code("STORE_WRITE_FAILED").In("mongostore").With("op", "update_profile").With("user_id", id).Wrap(err)
		}
	}

	return nil, oops.Code("STORE_CONFLICT").In("mongostore").With("user_id", id).
		Errorf("profile changed concurrently %d times", profileAttempts)
}

func (s *Store) findOne(ctx context.Context, filter bson.D, attr, value string) (*scrambleAuth.User, error) {
	doc, err := s.findDocument(ctx, filter, attr, value)
	if err != nil {
		return nil, err
	}
	return doc.toUser(), nil
}

func (s *Store) findDocument(ctx context.Context, filter bson.D, attr, value string) (userDocument, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return userDocument{}, scrambleAuth.ErrUserNotFound
		}
		return userDocument{}, oops.Code("STORE_READ_FAILED").In("mongostore").With(attr, value).Wrap(err)
	}
	return doc, nil
}

func (s *Store) set(ctx context.Context, id, op string, fields bson.D) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return scrambleAuth.ErrUserNotFound
	}

	fields = append(fields, bson.E{Key: "updatedAt", Value: s.now().UTC()})
	res, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: fields}},
	)
	if err != nil {
		return oops.Code("STORE_WRITE_FAILED").In("mongostore").With("op", op).With("user_id", id).Wrap(err)
	}
	if res.MatchedCount == 0 {
		return scrambleAuth.ErrUserNotFound
	}
	return nil
}
