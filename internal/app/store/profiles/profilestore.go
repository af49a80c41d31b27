// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"strings"
	"time"

	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

// Create inserts a new profile after normalizing fields and initializing
// empty connection state. Email uniqueness is enforced by index.
func (s *Store) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.FullName = strings.TrimSpace(p.FullName)
	p.FullNameCI = text.Fold(p.FullName)
	p.Email = normalizeEmail(p.Email)
	if p.Status == "" {
		p.Status = "active"
	}
	if p.Connections.Connected == nil {
		p.Connections.Connected = []primitive.ObjectID{}
	}
	if p.Connections.Pending.Sent == nil {
		p.Connections.Pending.Sent = []primitive.ObjectID{}
	}
	if p.Connections.Pending.Received == nil {
		p.Connections.Pending.Received = []primitive.ObjectID{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	if p.FullName == "" {
		return models.Profile{}, apperr.Invalid("full name is required")
	}
	if p.Email == "" {
		return models.Profile{}, apperr.Invalid("email is required")
	}

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, apperr.Conflict("a profile with this email already exists")
		}
		return models.Profile{}, err
	}
	return p, nil
}

// GetByID loads a profile by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByEmail looks up a profile by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetManyByIDs fetches profiles for the given ids in one query. Missing ids
// are simply absent from the result; callers that join display fields skip
// them rather than failing.
func (s *Store) GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Profile, error) {
	out := make(map[primitive.ObjectID]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var p models.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, cur.Err()
}

// DetailsUpdate carries the caller-editable profile fields. Values must be
// sanitized by the caller before reaching the store.
type DetailsUpdate struct {
	Headline          string
	Bio               string
	Institution       string
	ResearchInterests []string
}

// UpdateDetails replaces the academic detail fields and bumps updated_at.
func (s *Store) UpdateDetails(ctx context.Context, id primitive.ObjectID, upd DetailsUpdate) (*models.Profile, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Profile
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"headline":           upd.Headline,
			"bio":                upd.Bio,
			"institution":        upd.Institution,
			"research_interests": upd.ResearchInterests,
			"updated_at":         time.Now().UTC(),
		}},
		after,
	).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
