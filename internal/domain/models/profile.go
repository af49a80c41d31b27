// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConnectionSets holds the embedded relationship state on a profile.
// Membership here is denormalized from the connections collection and is
// mutated only by the connection store (never by handlers directly).
//
// Symmetry invariant: a user appearing in Connected on profile A must also
// have A in its own Connected set.
type ConnectionSets struct {
	Connected []primitive.ObjectID `bson:"connected" json:"connected"`
	Pending   PendingSets          `bson:"pending" json:"pending"`
}

// PendingSets splits pending requests by direction.
type PendingSets struct {
	Sent     []primitive.ObjectID `bson:"sent" json:"sent"`         // requests this user initiated
	Received []primitive.ObjectID `bson:"received" json:"received"` // requests awaiting this user's response
}

// ConnectionStats are denormalized counters kept equal to the cardinalities
// of the corresponding sets. They are updated in the same transaction as the
// set mutation; the reconciliation job heals any legacy drift.
type ConnectionStats struct {
	TotalConnections int `bson:"total_connections" json:"total_connections"`
	PendingRequests  int `bson:"pending_requests" json:"pending_requests"`
}

// Profile is the per-user record: identity, academic details, and the
// embedded connection state.
type Profile struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`

	// Academic details shown on the public profile and used by the
	// suggestion ranker.
	Headline          string   `bson:"headline,omitempty" json:"headline,omitempty"`
	Bio               string   `bson:"bio,omitempty" json:"bio,omitempty"` // sanitized HTML
	Institution       string   `bson:"institution,omitempty" json:"institution,omitempty"`
	ResearchInterests []string `bson:"research_interests,omitempty" json:"research_interests,omitempty"`

	AuthMethod   string `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // "password" | "google"
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	Status       string `bson:"status,omitempty" json:"status,omitempty"` // "active" | "disabled"

	Connections     ConnectionSets  `bson:"connections" json:"connections"`
	ConnectionStats ConnectionStats `bson:"connection_stats" json:"connection_stats"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
