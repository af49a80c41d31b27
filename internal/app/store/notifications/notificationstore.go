// internal/app/store/notifications/notificationstore.go
package notifstore

// Notifications are best-effort: a failed delivery must never fail or roll
// back the connection transition that caused it. The connection store
// therefore writes an intent row here inside its transaction (the outbox),
// and the delivery job drains intents into per-recipient notifications
// afterward. Delivery is at-least-once; the unique idempotency key on
// notifications makes retries no-ops.

import (
	"context"
	"time"

	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c      *mongo.Collection
	outbox *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:      db.Collection("notifications"),
		outbox: db.Collection("notification_outbox"),
	}
}

// Enqueue writes a notification intent. Call inside the same transaction as
// the state change it announces.
func (s *Store) Enqueue(ctx context.Context, intent models.NotificationIntent) error {
	intent.ID = primitive.NewObjectID()
	intent.IdempotencyKey = uuid.NewString()
	intent.Status = models.IntentPending
	intent.Attempts = 0
	intent.CreatedAt = time.Now().UTC()
	_, err := s.outbox.InsertOne(ctx, intent)
	return err
}

// DeliverPending drains up to batchSize pending intents into the recipient
// notification collections. Returns how many were delivered. Partial
// failures leave the remaining intents pending for the next pass.
func (s *Store) DeliverPending(ctx context.Context, batchSize int64) (int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(batchSize)
	cur, err := s.outbox.Find(ctx, bson.M{"status": models.IntentPending}, opts)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var intents []models.NotificationIntent
	if err := cur.All(ctx, &intents); err != nil {
		return 0, err
	}

	// A failing intent must not starve the intents behind it: the attempt
	// is already counted on the row, so skip it and keep draining. The last
	// error is reported alongside whatever did get delivered.
	var delivered int64
	var lastErr error
	for _, intent := range intents {
		if err := s.deliverOne(ctx, intent); err != nil {
			lastErr = err
			continue
		}
		delivered++
	}
	return delivered, lastErr
}

func (s *Store) deliverOne(ctx context.Context, intent models.NotificationIntent) error {
	n := models.Notification{
		ID:             primitive.NewObjectID(),
		IdempotencyKey: intent.IdempotencyKey,
		RecipientID:    intent.RecipientID,
		Type:           intent.Type,
		ActorID:        intent.ActorID,
		ConnectionID:   intent.ConnectionID,
		Message:        intent.Message,
		Read:           false,
		CreatedAt:      time.Now().UTC(),
	}

	if _, err := s.c.InsertOne(ctx, n); err != nil && !wafflemongo.IsDup(err) {
		// Count the attempt so a poison intent is visible in the data.
		_, _ = s.outbox.UpdateOne(ctx,
			bson.M{"_id": intent.ID},
			bson.M{"$inc": bson.M{"attempts": 1}},
		)
		return err
	}

	now := time.Now().UTC()
	_, err := s.outbox.UpdateOne(ctx,
		bson.M{"_id": intent.ID},
		bson.M{
			"$set": bson.M{"status": models.IntentDelivered, "delivered_at": now},
			"$inc": bson.M{"attempts": 1},
		},
	)
	return err
}

// ListForRecipient returns the recipient's most recent notifications, newest
// first.
func (s *Store) ListForRecipient(ctx context.Context, recipientID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"recipient_id": recipientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flips the read flag on one of the recipient's own notifications.
// A notification belonging to someone else reads as not found rather than
// forbidden, so ids cannot be probed.
func (s *Store) MarkRead(ctx context.Context, notificationID, recipientID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": notificationID, "recipient_id": recipientID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// UnreadCount returns how many unread notifications the recipient has.
func (s *Store) UnreadCount(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "read": false})
}
