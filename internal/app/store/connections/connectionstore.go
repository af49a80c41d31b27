// internal/app/store/connections/connectionstore.go
package connectionstore

// The connection store is the only writer of connections.* fields on
// profiles and of status on connection records. Every transition runs its
// reads, decision, and multi-document write as one unit:
//
//   - precondition failures (NotFound/Conflict/Forbidden) are raised before
//     any write is attempted;
//   - the profile-set mutations, counter increments, record write, and the
//     notification-outbox intent commit together under txn.Run;
//   - races on "request" are settled by the unique partial index on
//     pair_key (status=pending), which makes the insert the serialization
//     point even when the server cannot run transactions.

import (
	"context"
	"time"

	notifstore "github.com/acadconnect/acadconnect/internal/app/store/notifications"
	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/txn"
	"github.com/acadconnect/acadconnect/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Connection status name reported by StatusBetween.
const (
	StatusNone            = "none"
	StatusPendingSent     = "pendingSent"
	StatusPendingReceived = "pendingReceived"
	StatusConnected       = "connected"
)

type Store struct {
	db       *mongo.Database
	c        *mongo.Collection
	profiles *mongo.Collection
	outbox   *notifstore.Store
	log      *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		db:       db,
		c:        db.Collection("connections"),
		profiles: db.Collection("profiles"),
		outbox:   notifstore.New(db),
		log:      logger,
	}
}

// Request creates a pending connection from requester to target and returns
// the new record's id.
//
// Fails Conflict when a pending record already exists in either direction or
// the pair is already connected; NotFound when either profile is missing.
func (s *Store) Request(ctx context.Context, requesterID, targetID primitive.ObjectID) (primitive.ObjectID, error) {
	if requesterID == targetID {
		return primitive.NilObjectID, apperr.Invalid("cannot send a connection request to yourself")
	}

	requester, err := s.loadProfile(ctx, requesterID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := s.loadProfile(ctx, targetID); err != nil {
		return primitive.NilObjectID, err
	}

	// Fail fast on state we can already see. The unique pending index
	// catches whatever raced past these checks.
	if containsID(requester.Connections.Connected, targetID) {
		return primitive.NilObjectID, apperr.Conflict("already connected with this user")
	}
	if containsID(requester.Connections.Pending.Sent, targetID) {
		return primitive.NilObjectID, apperr.Conflict("a connection request is already pending")
	}
	if containsID(requester.Connections.Pending.Received, targetID) {
		return primitive.NilObjectID, apperr.Conflict("this user has already sent you a connection request")
	}

	now := time.Now().UTC()
	rec := models.Connection{
		ID:         primitive.NewObjectID(),
		SenderID:   requesterID,
		ReceiverID: targetID,
		PairKey:    models.PairKeyFor(requesterID, targetID),
		Status:     models.ConnectionPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		// Insert first: on a duplicate pending pair this aborts before
		// any profile is touched.
		if _, err := s.c.InsertOne(ctx, rec); err != nil {
			return err
		}
		if err := s.updateProfile(ctx, requesterID, bson.M{
			"$addToSet": bson.M{"connections.pending.sent": targetID},
			"$inc":      bson.M{"connection_stats.pending_requests": 1},
			"$set":      bson.M{"updated_at": now},
		}); err != nil {
			return err
		}
		if err := s.updateProfile(ctx, targetID, bson.M{
			"$addToSet": bson.M{"connections.pending.received": requesterID},
			"$inc":      bson.M{"connection_stats.pending_requests": 1},
			"$set":      bson.M{"updated_at": now},
		}); err != nil {
			return err
		}
		return s.outbox.Enqueue(ctx, models.NotificationIntent{
			RecipientID:  targetID,
			Type:         models.NotifyConnectionRequest,
			ActorID:      requesterID,
			ConnectionID: rec.ID,
			Message:      requester.FullName + " sent you a connection request",
		})
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return primitive.NilObjectID, apperr.Wrap(apperr.KindConflict, "a connection request is already pending", err)
		}
		return primitive.NilObjectID, err
	}
	return rec.ID, nil
}

// Respond resolves a pending request. Only the receiver may respond; the
// record must still be pending. Returns the new status.
func (s *Store) Respond(ctx context.Context, connectionID, responderID primitive.ObjectID, accept bool) (string, error) {
	rec, err := s.GetByID(ctx, connectionID)
	if err != nil {
		return "", err
	}
	if rec.Status != models.ConnectionPending {
		return "", apperr.Conflict("connection request already resolved")
	}
	if rec.ReceiverID != responderID {
		return "", apperr.Forbidden("only the request's recipient can respond")
	}

	responder, err := s.loadProfile(ctx, responderID)
	if err != nil {
		return "", err
	}

	newStatus := models.ConnectionRejected
	if accept {
		newStatus = models.ConnectionAccepted
	}
	now := time.Now().UTC()

	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		// Conditional on status=pending so a concurrent responder loses
		// cleanly instead of double-applying counter math.
		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": connectionID, "status": models.ConnectionPending},
			bson.M{"$set": bson.M{"status": newStatus, "updated_at": now}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return apperr.Conflict("connection request already resolved")
		}

		senderUpdate := bson.M{
			"$pull": bson.M{"connections.pending.sent": rec.ReceiverID},
			"$inc":  bson.M{"connection_stats.pending_requests": -1},
			"$set":  bson.M{"updated_at": now},
		}
		receiverUpdate := bson.M{
			"$pull": bson.M{"connections.pending.received": rec.SenderID},
			"$inc":  bson.M{"connection_stats.pending_requests": -1},
			"$set":  bson.M{"updated_at": now},
		}
		if accept {
			senderUpdate["$addToSet"] = bson.M{"connections.connected": rec.ReceiverID}
			senderUpdate["$inc"] = bson.M{
				"connection_stats.pending_requests":  -1,
				"connection_stats.total_connections": 1,
			}
			receiverUpdate["$addToSet"] = bson.M{"connections.connected": rec.SenderID}
			receiverUpdate["$inc"] = bson.M{
				"connection_stats.pending_requests":  -1,
				"connection_stats.total_connections": 1,
			}
		}
		if err := s.updateProfile(ctx, rec.SenderID, senderUpdate); err != nil {
			return err
		}
		if err := s.updateProfile(ctx, rec.ReceiverID, receiverUpdate); err != nil {
			return err
		}

		// Notify the original sender of the outcome.
		intentType := models.NotifyConnectionRejected
		verb := " declined your connection request"
		if accept {
			intentType = models.NotifyConnectionAccepted
			verb = " accepted your connection request"
		}
		return s.outbox.Enqueue(ctx, models.NotificationIntent{
			RecipientID:  rec.SenderID,
			Type:         intentType,
			ActorID:      responderID,
			ConnectionID: rec.ID,
			Message:      responder.FullName + verb,
		})
	})
	if err != nil {
		return "", err
	}
	return newStatus, nil
}

// Remove ends an accepted connection. The actor must be one of the two
// participants.
func (s *Store) Remove(ctx context.Context, connectionID, actorID primitive.ObjectID) error {
	rec, err := s.GetByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if !rec.Participant(actorID) {
		return apperr.Forbidden("only a participant can remove this connection")
	}
	if rec.Status != models.ConnectionAccepted {
		return apperr.Conflict("only accepted connections can be removed")
	}

	now := time.Now().UTC()
	return txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": connectionID, "status": models.ConnectionAccepted},
			bson.M{"$set": bson.M{"status": models.ConnectionRemoved, "updated_at": now}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return apperr.Conflict("connection already removed")
		}

		if err := s.updateProfile(ctx, rec.SenderID, bson.M{
			"$pull": bson.M{"connections.connected": rec.ReceiverID},
			"$inc":  bson.M{"connection_stats.total_connections": -1},
			"$set":  bson.M{"updated_at": now},
		}); err != nil {
			return err
		}
		return s.updateProfile(ctx, rec.ReceiverID, bson.M{
			"$pull": bson.M{"connections.connected": rec.SenderID},
			"$inc":  bson.M{"connection_stats.total_connections": -1},
			"$set":  bson.M{"updated_at": now},
		})
	})
}

// GetByID loads one connection record.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	var rec models.Connection
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("connection not found")
		}
		return nil, err
	}
	return &rec, nil
}

// StatusBetween reports the viewer's relationship to target from the
// viewer's embedded sets. Pure read, no side effects.
func (s *Store) StatusBetween(ctx context.Context, viewerID, targetID primitive.ObjectID) (string, error) {
	viewer, err := s.loadProfile(ctx, viewerID)
	if err != nil {
		return "", err
	}
	switch {
	case containsID(viewer.Connections.Connected, targetID):
		return StatusConnected, nil
	case containsID(viewer.Connections.Pending.Sent, targetID):
		return StatusPendingSent, nil
	case containsID(viewer.Connections.Pending.Received, targetID):
		return StatusPendingReceived, nil
	}
	return StatusNone, nil
}

// ReconcileCounters recomputes connection_stats from the source-of-truth
// sets and heals any drift left by legacy non-atomic writes. Returns how
// many profiles were corrected.
func (s *Store) ReconcileCounters(ctx context.Context) (int64, error) {
	proj := options.Find().SetProjection(bson.M{
		"connections":      1,
		"connection_stats": 1,
	})
	cur, err := s.profiles.Find(ctx, bson.M{}, proj)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var fixed int64
	for cur.Next(ctx) {
		var p models.Profile
		if err := cur.Decode(&p); err != nil {
			return fixed, err
		}
		wantTotal := len(p.Connections.Connected)
		wantPending := len(p.Connections.Pending.Sent) + len(p.Connections.Pending.Received)
		if p.ConnectionStats.TotalConnections == wantTotal && p.ConnectionStats.PendingRequests == wantPending {
			continue
		}
		if err := s.updateProfile(ctx, p.ID, bson.M{
			"$set": bson.M{
				"connection_stats.total_connections": wantTotal,
				"connection_stats.pending_requests":  wantPending,
			},
		}); err != nil {
			return fixed, err
		}
		s.log.Warn("healed drifted connection counters",
			zap.String("profile_id", p.ID.Hex()),
			zap.Int("total_connections", wantTotal),
			zap.Int("pending_requests", wantPending))
		fixed++
	}
	return fixed, cur.Err()
}

func (s *Store) loadProfile(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	if err := s.profiles.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("profile not found")
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) updateProfile(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := s.profiles.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("profile not found")
	}
	return nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
