package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(perMinute int) *Limiter {
	l := NewLimiter(Config{RequestsPerMinute: perMinute, CleanupInterval: time.Hour})
	return l
}

func TestAllowWithinLimit(t *testing.T) {
	l := newTestLimiter(3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("request over the limit should be denied")
	}
}

func TestAllowTracksClientsIndependently(t *testing.T) {
	l := newTestLimiter(1)
	defer l.Stop()

	if !l.Allow("10.0.0.1") {
		t.Fatal("first client should be allowed")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("second client should have its own budget")
	}
	if l.ActiveClients() != 2 {
		t.Errorf("ActiveClients() = %d, want 2", l.ActiveClients())
	}
}

func TestMiddlewareSkipsReads(t *testing.T) {
	l := newTestLimiter(1)
	defer l.Stop()

	handler := l.Middleware(func(*http.Request) string { return "10.0.0.1" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/expenses", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %d: status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestMiddlewareLimitsWrites(t *testing.T) {
	l := newTestLimiter(1)
	defer l.Stop()

	handler := l.Middleware(func(*http.Request) string { return "10.0.0.1" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/expenses", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first POST: status = %d, want 201", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/expenses", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second POST: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want 60", rec.Header().Get("Retry-After"))
	}
}
