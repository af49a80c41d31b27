// internal/domain/models/connection.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Connection lifecycle statuses. A record is created pending and moves to
// exactly one of the other states; "removed" is reachable only from
// "accepted". Records are never deleted, so the collection is the
// append-only history of each pair.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
	ConnectionRemoved  = "removed"
)

// Connection is one request/relationship instance between two users.
type Connection struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`

	// PairKey is the order-independent identity of the pair
	// ("<loHex>:<hiHex>"). A unique partial index over it, filtered to
	// status=pending, is what keeps concurrent requests from creating two
	// pending records in either direction.
	PairKey string `bson:"pair_key" json:"-"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Participant reports whether userID is one of the two parties.
func (c *Connection) Participant(userID primitive.ObjectID) bool {
	return c.SenderID == userID || c.ReceiverID == userID
}

// Other returns the counterparty of userID. Callers must have already
// verified participation.
func (c *Connection) Other(userID primitive.ObjectID) primitive.ObjectID {
	if c.SenderID == userID {
		return c.ReceiverID
	}
	return c.SenderID
}

// PairKeyFor builds the order-independent pair key for two user ids.
func PairKeyFor(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if strings.Compare(ah, bh) > 0 {
		ah, bh = bh, ah
	}
	return ah + ":" + bh
}

// IsValidConnectionStatus checks a status value against the lifecycle set.
func IsValidConnectionStatus(s string) bool {
	switch s {
	case ConnectionPending, ConnectionAccepted, ConnectionRejected, ConnectionRemoved:
		return true
	}
	return false
}
