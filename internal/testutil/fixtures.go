package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/acadconnect/acadconnect/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateProfile creates an active test profile with empty connection state.
func (f *Fixtures) CreateProfile(ctx context.Context, fullName, email string) models.Profile {
	f.t.Helper()
	return f.CreateProfileWithDetails(ctx, fullName, email, "", nil)
}

// CreateProfileWithDetails creates a test profile with an institution and
// research interests, for suggestion ranking tests.
func (f *Fixtures) CreateProfileWithDetails(ctx context.Context, fullName, email, institution string, interests []string) models.Profile {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Profile{
		ID:                primitive.NewObjectID(),
		FullName:          fullName,
		FullNameCI:        text.Fold(fullName),
		Email:             email,
		Institution:       institution,
		ResearchInterests: interests,
		AuthMethod:        "password",
		Status:            "active",
		Connections: models.ConnectionSets{
			Connected: []primitive.ObjectID{},
			Pending: models.PendingSets{
				Sent:     []primitive.ObjectID{},
				Received: []primitive.ObjectID{},
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}

// Connect links two profiles directly: an accepted connection record plus
// the set and counter updates on both sides.
func (f *Fixtures) Connect(ctx context.Context, a, b models.Profile) models.Connection {
	f.t.Helper()

	now := time.Now().UTC()
	conn := models.Connection{
		ID:         primitive.NewObjectID(),
		SenderID:   a.ID,
		ReceiverID: b.ID,
		PairKey:    models.PairKeyFor(a.ID, b.ID),
		Status:     models.ConnectionAccepted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("connections").InsertOne(ctx, conn); err != nil {
		f.t.Fatalf("failed to create test connection: %v", err)
	}

	for _, pair := range [][2]primitive.ObjectID{{a.ID, b.ID}, {b.ID, a.ID}} {
		_, err := f.db.Collection("profiles").UpdateOne(ctx,
			bson.M{"_id": pair[0]},
			bson.M{
				"$addToSet": bson.M{"connections.connected": pair[1]},
				"$inc":      bson.M{"connection_stats.total_connections": 1},
			})
		if err != nil {
			f.t.Fatalf("failed to link test profiles: %v", err)
		}
	}
	return conn
}

// CreatePendingRequest records an invitation from sender to receiver with
// the same document shape the connection store writes.
func (f *Fixtures) CreatePendingRequest(ctx context.Context, sender, receiver models.Profile) models.Connection {
	f.t.Helper()

	now := time.Now().UTC()
	conn := models.Connection{
		ID:         primitive.NewObjectID(),
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		PairKey:    models.PairKeyFor(sender.ID, receiver.ID),
		Status:     models.ConnectionPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("connections").InsertOne(ctx, conn); err != nil {
		f.t.Fatalf("failed to create test pending connection: %v", err)
	}

	_, err := f.db.Collection("profiles").UpdateOne(ctx,
		bson.M{"_id": sender.ID},
		bson.M{
			"$addToSet": bson.M{"connections.pending.sent": receiver.ID},
			"$inc":      bson.M{"connection_stats.pending_requests": 1},
		})
	if err != nil {
		f.t.Fatalf("failed to mark pending sent: %v", err)
	}
	_, err = f.db.Collection("profiles").UpdateOne(ctx,
		bson.M{"_id": receiver.ID},
		bson.M{
			"$addToSet": bson.M{"connections.pending.received": sender.ID},
			"$inc":      bson.M{"connection_stats.pending_requests": 1},
		})
	if err != nil {
		f.t.Fatalf("failed to mark pending received: %v", err)
	}
	return conn
}

// LoadProfile re-reads a profile by id.
func (f *Fixtures) LoadProfile(ctx context.Context, id primitive.ObjectID) models.Profile {
	f.t.Helper()

	var p models.Profile
	if err := f.db.Collection("profiles").FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		f.t.Fatalf("failed to load profile %s: %v", id.Hex(), err)
	}
	return p
}

// LoadConnection re-reads a connection record by id.
func (f *Fixtures) LoadConnection(ctx context.Context, id primitive.ObjectID) models.Connection {
	f.t.Helper()

	var c models.Connection
	if err := f.db.Collection("connections").FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		f.t.Fatalf("failed to load connection %s: %v", id.Hex(), err)
	}
	return c
}
