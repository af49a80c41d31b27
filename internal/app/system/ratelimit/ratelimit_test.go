package ratelimit_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/acadconnect/acadconnect/internal/app/system/ratelimit"
)

func TestLimiter_Allow(t *testing.T) {
	l := ratelimit.New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("alice") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("alice") {
		t.Error("4th attempt should be blocked")
	}
	// Keys count independently.
	if !l.Allow("bob") {
		t.Error("a fresh key should be allowed")
	}
}

func TestLimiter_WindowExpiry(t *testing.T) {
	l := ratelimit.New(1, 20*time.Millisecond)

	if !l.Allow("alice") {
		t.Fatal("first attempt should be allowed")
	}
	if l.Allow("alice") {
		t.Fatal("second attempt in window should be blocked")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("alice") {
		t.Error("attempt after window expiry should be allowed")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := ratelimit.New(1, time.Minute)

	l.Allow("alice")
	if l.Allow("alice") {
		t.Fatal("second attempt should be blocked")
	}
	l.Reset("alice")
	if !l.Allow("alice") {
		t.Error("attempt after reset should be allowed")
	}
}

func TestPerUser_Blocks(t *testing.T) {
	l := ratelimit.New(1, time.Minute)
	handler := l.PerUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/connections/abc/request", nil)
	req.RemoteAddr = "203.0.113.7:52100"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request: got %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "198.51.100.4:1234", nil, "198.51.100.4"},
		{"x-forwarded-for", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "203.0.113.9"},
		{"x-real-ip", "10.0.0.1:1234", map[string]string{"X-Real-IP": "203.0.113.10"}, "203.0.113.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ratelimit.ClientIP(r); got != tt.want {
				t.Errorf("ClientIP: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_EmailWindow(t *testing.T) {
	ll := ratelimit.NewLoginLimiter()

	// 5 attempts per email; vary the source IP so only the email window
	// trips.
	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.RemoteAddr = fmt.Sprintf("198.51.100.%d:1000", i+1)
		if ok, _ := ll.Check(r, "Target@Example.com"); !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.RemoteAddr = "198.51.100.9:1000"
	ok, reason := ll.Check(r, "target@example.com")
	if ok {
		t.Fatal("6th attempt for the same account should be blocked")
	}
	if reason == "" {
		t.Error("blocked attempt should carry a reason")
	}

	ll.ResetEmail("TARGET@example.com")
	r = httptest.NewRequest(http.MethodPost, "/login", nil)
	r.RemoteAddr = "198.51.100.10:1000"
	if ok, _ := ll.Check(r, "target@example.com"); !ok {
		t.Error("attempt after reset should be allowed")
	}
}
