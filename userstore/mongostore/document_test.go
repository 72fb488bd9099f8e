package mongostore

import (
	"testing"
	"time"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestDocumentUsesCamelCaseFields(t *testing.T) {
	u := &scrambleAuth.User{
		ID:           bson.NewObjectID().Hex(),
		Email:        "a@b.com",
		PasswordHash: "hash",
		Name:         "A",
		Gender:       scrambleAuth.GenderFemale,
		UsageType:    scrambleAuth.UsageWork,
		Company:      "Acme",
		Avatar:       scrambleAuth.DefaultAvatar,
		IsActive:     true,
		LastLogin:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	raw, err := bson.Marshal(toDocument(u))
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	for _, key := range []string{"_id", "email", "password", "usageType", "company", "lastLogin", "isActive", "projects", "refreshToken"} {
		assert.Contains(t, m, key)
	}
	assert.Nil(t, m["refreshToken"], "empty refresh token is stored as null")
	assert.Len(t, m["projects"], 0)
}

func TestDocumentToUserKeepsIdentity(t *testing.T) {
	oid := bson.NewObjectID()
	token := "tok"
	doc := userDocument{
		ID:           oid,
		Email:        "a@b.com",
		Gender:       "male",
		UsageType:    "personal",
		RefreshToken: &token,
	}

	u := doc.toUser()
	assert.Equal(t, oid.Hex(), u.ID)
	assert.Equal(t, scrambleAuth.GenderMale, u.Gender)
	assert.Equal(t, "tok", u.RefreshToken)
}

func TestProfileFieldsOnlyPresent(t *testing.T) {
	name := "B"
	work := scrambleAuth.UsageWork
	fields := profileFields(scrambleAuth.ProfileUpdate{Name: &name, UsageType: &work})

	require.Len(t, fields, 2)
	assert.Equal(t, "name", fields[0].Key)
	assert.Equal(t, "usageType", fields[1].Key)
	assert.Equal(t, "work", fields[1].Value)
}

func TestProfileRevFilterMatchesLegacyDocuments(t *testing.T) {
	oid := bson.NewObjectID()

	legacy := profileRevFilter(oid, 0)
	require.Len(t, legacy, 2)
	assert.Equal(t, bson.E{Key: "profileRev", Value: bson.D{{Key: "$in", Value: bson.A{int64(0), nil}}}}, legacy[1])

	assert.Equal(t, bson.D{{Key: "_id", Value: oid}, {Key: "profileRev", Value: int64(3)}}, profileRevFilter(oid, 3))
}
