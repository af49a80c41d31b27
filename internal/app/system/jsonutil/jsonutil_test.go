package jsonutil_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/jsonutil"
)

func TestError_BodyShape(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/connections/respond", nil)

	jsonutil.Error(w, r, nil, apperr.Conflict("invitation already resolved"))

	if w.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error.Code != "conflict" {
		t.Errorf("error code: got %q", body.Error.Code)
	}
	if body.Error.Message != "invitation already resolved" {
		t.Errorf("error message: got %q", body.Error.Message)
	}
}

func TestDecode(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ada"}`))

	if err := jsonutil.Decode(w, r, &dst); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if dst.Name != "Ada" {
		t.Errorf("decoded name: got %q", dst.Name)
	}
}

func TestDecode_UnknownField(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ada","nmae":"typo"}`))

	err := jsonutil.Decode(w, r, &dst)
	if !apperr.Is(err, apperr.KindInvalid) {
		t.Errorf("unknown field should be invalid_argument, got %v", err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	var dst struct{}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{oops`))

	err := jsonutil.Decode(w, r, &dst)
	if !apperr.Is(err, apperr.KindInvalid) {
		t.Errorf("malformed body should be invalid_argument, got %v", err)
	}
}

func TestDecodeMax_Oversize(t *testing.T) {
	var dst struct {
		Bio string `json:"bio"`
	}
	w := httptest.NewRecorder()
	big := `{"bio":"` + strings.Repeat("a", 100) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))

	err := jsonutil.DecodeMax(w, r, &dst, 32)
	if !apperr.Is(err, apperr.KindInvalid) {
		t.Errorf("oversize body should be invalid_argument, got %v", err)
	}
}
