package connectionstore_test

import (
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	connectionstore "github.com/acadconnect/acadconnect/internal/app/store/connections"
	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/indexes"
	"github.com/acadconnect/acadconnect/internal/domain/models"
	"github.com/acadconnect/acadconnect/internal/testutil"
)

func TestStore_Request(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")

	connID, err := store.Request(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	rec := fixtures.LoadConnection(ctx, connID)
	if rec.Status != models.ConnectionPending {
		t.Errorf("Status: got %q, want %q", rec.Status, models.ConnectionPending)
	}
	if rec.SenderID != alice.ID || rec.ReceiverID != bob.ID {
		t.Errorf("participants: got %s -> %s, want %s -> %s",
			rec.SenderID.Hex(), rec.ReceiverID.Hex(), alice.ID.Hex(), bob.ID.Hex())
	}
	if want := models.PairKeyFor(alice.ID, bob.ID); rec.PairKey != want {
		t.Errorf("PairKey: got %q, want %q", rec.PairKey, want)
	}

	// Both profiles carry the pending state and counters.
	aliceAfter := fixtures.LoadProfile(ctx, alice.ID)
	if len(aliceAfter.Connections.Pending.Sent) != 1 || aliceAfter.Connections.Pending.Sent[0] != bob.ID {
		t.Errorf("requester pending.sent: got %v, want [%s]", aliceAfter.Connections.Pending.Sent, bob.ID.Hex())
	}
	if aliceAfter.ConnectionStats.PendingRequests != 1 {
		t.Errorf("requester pending_requests: got %d, want 1", aliceAfter.ConnectionStats.PendingRequests)
	}

	bobAfter := fixtures.LoadProfile(ctx, bob.ID)
	if len(bobAfter.Connections.Pending.Received) != 1 || bobAfter.Connections.Pending.Received[0] != alice.ID {
		t.Errorf("target pending.received: got %v, want [%s]", bobAfter.Connections.Pending.Received, alice.ID.Hex())
	}
	if bobAfter.ConnectionStats.PendingRequests != 1 {
		t.Errorf("target pending_requests: got %d, want 1", bobAfter.ConnectionStats.PendingRequests)
	}

	// The notification intent targets the receiver, not the sender.
	var intent models.NotificationIntent
	err = db.Collection("notification_outbox").FindOne(ctx, bson.M{"connection_id": connID}).Decode(&intent)
	if err != nil {
		t.Fatalf("expected an outbox intent: %v", err)
	}
	if intent.RecipientID != bob.ID {
		t.Errorf("intent recipient: got %s, want %s", intent.RecipientID.Hex(), bob.ID.Hex())
	}
	if intent.Type != models.NotifyConnectionRequest {
		t.Errorf("intent type: got %q, want %q", intent.Type, models.NotifyConnectionRequest)
	}
}

func TestStore_Request_Self(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")

	_, err := store.Request(ctx, alice.ID, alice.ID)
	if !apperr.Is(err, apperr.KindInvalid) {
		t.Fatalf("expected invalid_argument, got %v", err)
	}
}

func TestStore_Request_MissingProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	ghost := fixtures.CreateProfile(ctx, "Ghost", "ghost@example.com")
	if _, err := db.Collection("profiles").DeleteOne(ctx, bson.M{"_id": ghost.ID}); err != nil {
		t.Fatalf("failed to delete profile: %v", err)
	}

	if _, err := store.Request(ctx, alice.ID, ghost.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestStore_Request_ConcurrentSinglePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The racing requests pass the profile-set prechecks before either
	// write lands; only the unique pending-pair index serializes them.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")

	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = store.Request(ctx, alice.ID, bob.ID)
		}(i)
	}
	close(start)
	wg.Wait()

	var won, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case apperr.Is(err, apperr.KindConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if won != 1 || conflicts != 1 {
		t.Fatalf("outcomes: %d succeeded, %d conflicted; want exactly one of each (errs=%v)", won, conflicts, errs)
	}

	count, err := db.Collection("connections").CountDocuments(ctx,
		bson.M{"pair_key": models.PairKeyFor(alice.ID, bob.ID)})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("connection records: got %d, want 1", count)
	}

	// The loser aborted before touching either profile.
	for _, id := range []primitive.ObjectID{alice.ID, bob.ID} {
		if got := fixtures.LoadProfile(ctx, id).ConnectionStats.PendingRequests; got != 1 {
			t.Errorf("pending_requests for %s: got %d, want 1", id.Hex(), got)
		}
	}
}

func TestStore_Request_DuplicatePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")

	if _, err := store.Request(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("first Request failed: %v", err)
	}

	// Same direction.
	if _, err := store.Request(ctx, alice.ID, bob.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("duplicate request: expected conflict, got %v", err)
	}
	// Reverse direction while the first is still pending.
	if _, err := store.Request(ctx, bob.ID, alice.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("reverse request: expected conflict, got %v", err)
	}
}

func TestStore_Request_AlreadyConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")
	fixtures.Connect(ctx, alice, bob)

	if _, err := store.Request(ctx, alice.ID, bob.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestStore_Respond_Accept(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")

	connID, err := store.Request(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	status, err := store.Respond(ctx, connID, bob.ID, true)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if status != models.ConnectionAccepted {
		t.Errorf("status: got %q, want %q", status, models.ConnectionAccepted)
	}

	rec := fixtures.LoadConnection(ctx, connID)
	if rec.Status != models.ConnectionAccepted {
		t.Errorf("record status: got %q, want %q", rec.Status, models.ConnectionAccepted)
	}

	// Pending state cleared, connected sets and counters updated on both.
	for _, pair := range []struct {
		name  string
		self  models.Profile
		other models.Profile
	}{
		{"sender", alice, bob},
		{"receiver", bob, alice},
	} {
		p := fixtures.LoadProfile(ctx, pair.self.ID)
		if len(p.Connections.Pending.Sent) != 0 || len(p.Connections.Pending.Received) != 0 {
			t.Errorf("%s pending sets not cleared: sent=%v received=%v",
				pair.name, p.Connections.Pending.Sent, p.Connections.Pending.Received)
		}
		if len(p.Connections.Connected) != 1 || p.Connections.Connected[0] != pair.other.ID {
			t.Errorf("%s connected: got %v, want [%s]", pair.name, p.Connections.Connected, pair.other.ID.Hex())
		}
		if p.ConnectionStats.TotalConnections != 1 {
			t.Errorf("%s total_connections: got %d, want 1", pair.name, p.ConnectionStats.TotalConnections)
		}
		if p.ConnectionStats.PendingRequests != 0 {
			t.Errorf("%s pending_requests: got %d, want 0", pair.name, p.ConnectionStats.PendingRequests)
		}
	}

	// Acceptance notifies the original sender.
	var intent models.NotificationIntent
	err = db.Collection("notification_outbox").FindOne(ctx, bson.M{
		"connection_id": connID,
		"type":          models.NotifyConnectionAccepted,
	}).Decode(&intent)
	if err != nil {
		t.Fatalf("expected an accepted intent: %v", err)
	}
	if intent.RecipientID != alice.ID {
		t.Errorf("intent recipient: got %s, want %s", intent.RecipientID.Hex(), alice.ID.Hex())
	}
}

func TestStore_Respond_Reject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")

	connID, err := store.Request(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	status, err := store.Respond(ctx, connID, bob.ID, false)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if status != models.ConnectionRejected {
		t.Errorf("status: got %q, want %q", status, models.ConnectionRejected)
	}

	// Rejection clears the pending state but makes no connection.
	for _, id := range []struct {
		name string
		oid  models.Profile
	}{{"sender", alice}, {"receiver", bob}} {
		p := fixtures.LoadProfile(ctx, id.oid.ID)
		if len(p.Connections.Connected) != 0 {
			t.Errorf("%s connected should be empty, got %v", id.name, p.Connections.Connected)
		}
		if p.ConnectionStats.PendingRequests != 0 {
			t.Errorf("%s pending_requests: got %d, want 0", id.name, p.ConnectionStats.PendingRequests)
		}
		if p.ConnectionStats.TotalConnections != 0 {
			t.Errorf("%s total_connections: got %d, want 0", id.name, p.ConnectionStats.TotalConnections)
		}
	}

	// A new request after rejection is allowed, in either direction.
	if _, err := store.Request(ctx, bob.ID, alice.ID); err != nil {
		t.Errorf("request after rejection failed: %v", err)
	}
}

func TestStore_Respond_OnlyReceiver(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")
	carol := fixtures.CreateProfile(ctx, "Carol Singh", "carol@example.com")

	connID, err := store.Request(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	// The sender cannot accept their own request.
	if _, err := store.Respond(ctx, connID, alice.ID, true); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("sender respond: expected forbidden, got %v", err)
	}
	// Neither can a third party.
	if _, err := store.Respond(ctx, connID, carol.ID, true); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("third-party respond: expected forbidden, got %v", err)
	}
}

func TestStore_Respond_AlreadyResolved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")

	connID, err := store.Request(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if _, err := store.Respond(ctx, connID, bob.ID, true); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	// A second response, either way, is a conflict and changes nothing.
	if _, err := store.Respond(ctx, connID, bob.ID, false); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	p := fixtures.LoadProfile(ctx, alice.ID)
	if p.ConnectionStats.TotalConnections != 1 {
		t.Errorf("total_connections changed on repeat respond: got %d, want 1", p.ConnectionStats.TotalConnections)
	}
}

func TestStore_Remove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")
	conn := fixtures.Connect(ctx, alice, bob)

	if err := store.Remove(ctx, conn.ID, bob.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	rec := fixtures.LoadConnection(ctx, conn.ID)
	if rec.Status != models.ConnectionRemoved {
		t.Errorf("record status: got %q, want %q", rec.Status, models.ConnectionRemoved)
	}

	for _, p := range []models.Profile{alice, bob} {
		after := fixtures.LoadProfile(ctx, p.ID)
		if len(after.Connections.Connected) != 0 {
			t.Errorf("connected not cleared for %s: %v", p.FullName, after.Connections.Connected)
		}
		if after.ConnectionStats.TotalConnections != 0 {
			t.Errorf("total_connections for %s: got %d, want 0", p.FullName, after.ConnectionStats.TotalConnections)
		}
	}

	// Removal is silent: no outbox intent.
	count, err := db.Collection("notification_outbox").CountDocuments(ctx, bson.M{"connection_id": conn.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no intents for removal, got %d", count)
	}

	// The pair can reconnect afterwards.
	if _, err := store.Request(ctx, alice.ID, bob.ID); err != nil {
		t.Errorf("request after removal failed: %v", err)
	}
}

func TestStore_Remove_NonParticipant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")
	carol := fixtures.CreateProfile(ctx, "Carol Singh", "carol@example.com")
	conn := fixtures.Connect(ctx, alice, bob)

	if err := store.Remove(ctx, conn.ID, carol.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestStore_Remove_NotAccepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")
	conn := fixtures.CreatePendingRequest(ctx, alice, bob)

	if err := store.Remove(ctx, conn.ID, alice.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestStore_StatusBetween(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")
	carol := fixtures.CreateProfile(ctx, "Carol Singh", "carol@example.com")
	dave := fixtures.CreateProfile(ctx, "Dave Liu", "dave@example.com")

	fixtures.Connect(ctx, alice, bob)
	fixtures.CreatePendingRequest(ctx, alice, carol)
	fixtures.CreatePendingRequest(ctx, dave, alice)

	cases := []struct {
		target models.Profile
		want   string
	}{
		{bob, connectionstore.StatusConnected},
		{carol, connectionstore.StatusPendingSent},
		{dave, connectionstore.StatusPendingReceived},
	}
	for _, tc := range cases {
		got, err := store.StatusBetween(ctx, alice.ID, tc.target.ID)
		if err != nil {
			t.Fatalf("StatusBetween(%s) failed: %v", tc.target.FullName, err)
		}
		if got != tc.want {
			t.Errorf("StatusBetween(%s): got %q, want %q", tc.target.FullName, got, tc.want)
		}
	}

	eve := fixtures.CreateProfile(ctx, "Eve Novak", "eve@example.com")
	got, err := store.StatusBetween(ctx, alice.ID, eve.ID)
	if err != nil {
		t.Fatalf("StatusBetween(stranger) failed: %v", err)
	}
	if got != connectionstore.StatusNone {
		t.Errorf("StatusBetween(stranger): got %q, want %q", got, connectionstore.StatusNone)
	}
}

func TestStore_ReconcileCounters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")
	fixtures.Connect(ctx, alice, bob)

	// Simulate drift from a partial write.
	_, err := db.Collection("profiles").UpdateOne(ctx,
		bson.M{"_id": alice.ID},
		bson.M{"$set": bson.M{
			"connection_stats.total_connections": 7,
			"connection_stats.pending_requests":  3,
		}})
	if err != nil {
		t.Fatalf("failed to inject drift: %v", err)
	}

	fixed, err := store.ReconcileCounters(ctx)
	if err != nil {
		t.Fatalf("ReconcileCounters failed: %v", err)
	}
	if fixed != 1 {
		t.Errorf("fixed: got %d, want 1", fixed)
	}

	after := fixtures.LoadProfile(ctx, alice.ID)
	if after.ConnectionStats.TotalConnections != 1 || after.ConnectionStats.PendingRequests != 0 {
		t.Errorf("counters not healed: total=%d pending=%d",
			after.ConnectionStats.TotalConnections, after.ConnectionStats.PendingRequests)
	}

	// Second run finds nothing to fix.
	fixed, err = store.ReconcileCounters(ctx)
	if err != nil {
		t.Fatalf("second ReconcileCounters failed: %v", err)
	}
	if fixed != 0 {
		t.Errorf("second run fixed: got %d, want 0", fixed)
	}
}
