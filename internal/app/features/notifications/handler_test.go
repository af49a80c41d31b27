package notifications_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/acadconnect/acadconnect/internal/app/features/notifications"
	notifstore "github.com/acadconnect/acadconnect/internal/app/store/notifications"
	"github.com/acadconnect/acadconnect/internal/domain/models"
	"github.com/acadconnect/acadconnect/internal/testutil"
)

func seedNotification(t *testing.T, fixtures *testutil.Fixtures, recipient, actor models.Profile) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := notifstore.New(fixtures.DB())
	err := store.Enqueue(ctx, models.NotificationIntent{
		RecipientID: recipient.ID,
		Type:        models.NotifyConnectionRequest,
		ActorID:     actor.ID,
		Message:     actor.FullName + " sent you a connection request",
	})
	if err != nil {
		t.Fatalf("failed to enqueue intent: %v", err)
	}
	if _, err := store.DeliverPending(ctx, 10); err != nil {
		t.Fatalf("failed to deliver intents: %v", err)
	}
}

func TestServeList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")
	seedNotification(t, fixtures, alice, bob)

	h := notifications.NewHandler(db, zap.NewNop())

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/notifications", testutil.UserFor(alice))
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Notifications []struct {
			ID      string `json:"id"`
			Type    string `json:"type"`
			Message string `json:"message"`
			Read    bool   `json:"read"`
		} `json:"notifications"`
		UnreadCount int64 `json:"unreadCount"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if len(body.Notifications) != 1 {
		t.Fatalf("notifications: got %d, want 1", len(body.Notifications))
	}
	n := body.Notifications[0]
	if n.Type != models.NotifyConnectionRequest || n.Read {
		t.Errorf("notification: got %+v", n)
	}
	if body.UnreadCount != 1 {
		t.Errorf("unread count: got %d, want 1", body.UnreadCount)
	}

	// Bob has nothing.
	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/notifications", testutil.UserFor(bob))
	rec = httptest.NewRecorder()
	h.ServeList(rec, req)
	testutil.DecodeJSON(t, rec, &body)
	if len(body.Notifications) != 0 || body.UnreadCount != 0 {
		t.Errorf("other recipient should see nothing, got %+v", body)
	}
}

func TestHandleMarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")
	seedNotification(t, fixtures, alice, bob)

	h := notifications.NewHandler(db, zap.NewNop())

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/notifications", testutil.UserFor(alice))
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)
	var body struct {
		Notifications []struct {
			ID string `json:"id"`
		} `json:"notifications"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if len(body.Notifications) != 1 {
		t.Fatalf("notifications: got %d, want 1", len(body.Notifications))
	}
	notifID := body.Notifications[0].ID

	req = testutil.NewJSONRequest(t, http.MethodPost, "/notifications/read",
		map[string]any{"notificationId": notifID})
	req = testutil.WithUser(req, testutil.UserFor(alice))
	rec = httptest.NewRecorder()
	h.HandleMarkRead(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("mark-read status: got %d, body %s", rec.Code, rec.Body.String())
	}

	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/notifications", testutil.UserFor(alice))
	rec = httptest.NewRecorder()
	h.ServeList(rec, req)
	var after struct {
		UnreadCount int64 `json:"unreadCount"`
	}
	testutil.DecodeJSON(t, rec, &after)
	if after.UnreadCount != 0 {
		t.Errorf("unread count after mark-read: got %d, want 0", after.UnreadCount)
	}
}

func TestHandleMarkRead_ForeignNotification(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "Alice Chen", "alice@example.com")
	bob := fixtures.CreateProfile(ctx, "Bob Okafor", "bob@example.com")
	seedNotification(t, fixtures, alice, bob)

	var n models.Notification
	if err := db.Collection("notifications").FindOne(ctx, bson.M{"recipient_id": alice.ID}).Decode(&n); err != nil {
		t.Fatalf("failed to load notification: %v", err)
	}

	h := notifications.NewHandler(db, zap.NewNop())

	// Bob tries to mark Alice's notification; it reads as not found.
	req := testutil.NewJSONRequest(t, http.MethodPost, "/notifications/read",
		map[string]any{"notificationId": n.ID.Hex()})
	req = testutil.WithUser(req, testutil.UserFor(bob))
	rec := httptest.NewRecorder()
	h.HandleMarkRead(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
}

func TestHandleMarkRead_InvalidID(t *testing.T) {
	h := &notifications.Handler{Log: zap.NewNop()}

	req := testutil.NewJSONRequest(t, http.MethodPost, "/notifications/read",
		map[string]any{"notificationId": "nope"})
	req = testutil.WithUser(req, testutil.TestUser{ID: primitive.NewObjectID().Hex()})
	rec := httptest.NewRecorder()
	h.HandleMarkRead(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}
