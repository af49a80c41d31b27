package oauthstate_test

import (
	"testing"
	"time"

	"github.com/acadconnect/acadconnect/internal/app/store/oauthstate"
	"github.com/acadconnect/acadconnect/internal/testutil"
)

func TestValidate_ConsumesState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := oauthstate.New(db)
	if err := s.Save(ctx, "state-token", "/profile", time.Now().UTC().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	returnURL, valid, err := s.Validate(ctx, "state-token")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid || returnURL != "/profile" {
		t.Fatalf("first validation: valid=%v returnURL=%q", valid, returnURL)
	}

	// One-time use: the same token fails the second time.
	_, valid, err = s.Validate(ctx, "state-token")
	if err != nil {
		t.Fatalf("second Validate failed: %v", err)
	}
	if valid {
		t.Error("state token should be consumed by validation")
	}
}

func TestValidate_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := oauthstate.New(db)
	if err := s.Save(ctx, "stale-token", "", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, valid, err := s.Validate(ctx, "stale-token")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if valid {
		t.Error("expired state token should not validate")
	}
}

func TestCleanupExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := oauthstate.New(db)
	if err := s.Save(ctx, "stale-token", "", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save(ctx, "fresh-token", "", time.Now().UTC().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	removed, err := s.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed: got %d, want 1", removed)
	}

	_, valid, err := s.Validate(ctx, "fresh-token")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid {
		t.Error("fresh token should survive cleanup")
	}
}
