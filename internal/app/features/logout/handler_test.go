package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/acadconnect/acadconnect/internal/app/features/logout"
	"github.com/acadconnect/acadconnect/internal/app/system/auth"
	"github.com/acadconnect/acadconnect/internal/testutil"
)

func TestHandleLogout(t *testing.T) {
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to build session manager: %v", err)
	}
	h := logout.NewHandler(sm, zap.NewNop())

	// No existing session; logout is still a success.
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	h.HandleLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body struct {
		SignedOut bool `json:"signedOut"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if !body.SignedOut {
		t.Error("expected signedOut true")
	}

	// The session cookie is expired.
	expired := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("logout should expire the session cookie")
	}
}
