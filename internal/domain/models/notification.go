// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types emitted by connection transitions.
const (
	NotifyConnectionRequest  = "connection_request"
	NotifyConnectionAccepted = "connection_accepted"
	NotifyConnectionRejected = "connection_rejected"
)

// Notification is an append-only per-recipient record. The only mutation
// after insert is flipping Read.
type Notification struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	// IdempotencyKey mirrors the outbox intent's key; its unique index
	// makes redelivery a no-op.
	IdempotencyKey string             `bson:"idempotency_key,omitempty" json:"-"`
	RecipientID    primitive.ObjectID `bson:"recipient_id" json:"recipient_id"`
	Type           string             `bson:"type" json:"type"`
	ActorID        primitive.ObjectID `bson:"actor_id" json:"actor_id"`
	ConnectionID   primitive.ObjectID `bson:"connection_id,omitempty" json:"connection_id,omitempty"`
	Message        string             `bson:"message" json:"message"`
	Read           bool               `bson:"read" json:"read"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// Outbox intent statuses.
const (
	IntentPending   = "pending"
	IntentDelivered = "delivered"
)

// NotificationIntent is the outbox row written in the same transaction as a
// connection transition. The delivery job turns intents into notifications,
// so the obligation to notify survives a crash between commit and fan-out.
// IdempotencyKey makes redelivery after a partial failure safe.
type NotificationIntent struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IdempotencyKey string             `bson:"idempotency_key" json:"idempotency_key"`
	RecipientID    primitive.ObjectID `bson:"recipient_id" json:"recipient_id"`
	Type           string             `bson:"type" json:"type"`
	ActorID        primitive.ObjectID `bson:"actor_id" json:"actor_id"`
	ConnectionID   primitive.ObjectID `bson:"connection_id,omitempty" json:"connection_id,omitempty"`
	Message        string             `bson:"message" json:"message"`
	Status         string             `bson:"status" json:"status"`
	Attempts       int                `bson:"attempts" json:"attempts"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	DeliveredAt    *time.Time         `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
}
