// internal/app/store/profiles/fetcher.go
package profilestore

import (
	"context"

	"github.com/acadconnect/acadconnect/internal/app/system/auth"
	"github.com/acadconnect/acadconnect/internal/app/system/timeouts"
	"github.com/acadconnect/acadconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher so every request resolves its session
// against fresh profile data. Disabled or deleted accounts drop out of their
// sessions immediately.
type Fetcher struct {
	c *mongo.Collection
}

// NewFetcher creates a UserFetcher backed by the profiles collection.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{c: db.Collection("profiles")}
}

// FetchUser retrieves a profile by id. Returns nil if the profile is
// missing, disabled, or any error occurs.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	proj := options.FindOne().SetProjection(bson.M{
		"full_name":   1,
		"email":       1,
		"institution": 1,
		"status":      1,
	})

	var p models.Profile
	if err := f.c.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&p); err != nil {
		return nil
	}
	if p.Status == "disabled" {
		return nil
	}

	return &auth.SessionUser{
		ID:          p.ID.Hex(),
		Name:        p.FullName,
		Email:       p.Email,
		Institution: p.Institution,
	}
}
