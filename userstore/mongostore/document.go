package mongostore

import (
	"slices"
	"time"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// userDocument is the BSON shape of a user.
type userDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password"`
	Name         string        `bson:"name"`
	Gender       string        `bson:"gender"`
	UsageType    string        `bson:"usageType"`
	Company      string        `bson:"company,omitempty"`
	Avatar       string        `bson:"avatar"`
	LastLogin    time.Time     `bson:"lastLogin"`
	IsActive     bool          `bson:"isActive"`
	Projects     []string      `bson:"projects"`
	RefreshToken *string       `bson:"refreshToken"`
	CreatedAt    time.Time     `bson:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt"`
	// ProfileRev counts profile writes only. Session and login bookkeeping
	// leave it alone.
	ProfileRev   int64         `bson:"profileRev"`
}

func toDocument(u *scrambleAuth.User) userDocument {
	doc := userDocument{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Gender:       string(u.Gender),
		UsageType:    string(u.UsageType),
		Company:      u.Company,
		Avatar:       u.Avatar,
		LastLogin:    u.LastLogin.UTC(),
		IsActive:     u.IsActive,
		Projects:     slices.Clone(u.Projects),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if doc.Projects == nil {
		doc.Projects = []string{}
	}
	if u.RefreshToken != "" {
		token := u.RefreshToken
		doc.RefreshToken = &token
	}
	if oid, err := bson.ObjectIDFromHex(u.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (d userDocument) toUser() *scrambleAuth.User {
	u := &scrambleAuth.User{
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Gender:       scrambleAuth.Gender(d.Gender),
		UsageType:    scrambleAuth.UsageType(d.UsageType),
		Company:      d.Company,
		Avatar:       d.Avatar,
		LastLogin:    d.LastLogin,
		IsActive:     d.IsActive,
		Projects:     slices.Clone(d.Projects),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if !d.ID.IsZero() {
		u.ID = d.ID.Hex()
	}
	if d.RefreshToken != nil {
		u.RefreshToken = *d.RefreshToken
	}
	return u
}

// profileRevFilter matches documents still at rev. Documents written before
// the field existed count as rev 0.
func profileRevFilter(oid bson.ObjectID, rev int64) bson.D {
	if rev == 0 {
		return bson.D{
			{Key: "_id", Value: oid},
			{Key: "profileRev", Value: bson.D{{Key: "$in", Value: bson.A{int64(0), nil}}}},
		}
	}
	return bson.D{{Key: "_id", Value: oid}, {Key: "profileRev", Value: rev}}
}

// profileFields lists the $set entries for the present fields of p.
func profileFields(p scrambleAuth.ProfileUpdate) bson.D {
	var fields bson.D
	if p.Name != nil {
		fields = append(fields, bson.E{Key: "name", Value: *p.Name})
	}
	if p.Gender != nil {
		fields = append(fields, bson.E{Key: "gender", Value: string(*p.Gender)})
	}
	if p.Avatar != nil {
		fields = append(fields, bson.E{Key: "avatar", Value: *p.Avatar})
	}
	if p.UsageType != nil {
		fields = append(fields, bson.E{Key: "usageType", Value: string(*p.UsageType)})
	}
	if p.Company != nil {
		fields = append(fields, bson.E{Key: "company", Value: *p.Company})
	}
	return fields
}
