package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mockCounter struct {
	counts map[string]int64
	err    error
}

func (m *mockCounter) Incr(_ context.Context, key string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[key]++
	return m.counts[key], nil
}

func limitedMux(counter WindowCounter, limit int64) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /webhooks/linkly/{nodeID}", Chain(okHandler(), RateLimitMiddleware(counter, limit, PathValueKey("nodeID"))))
	return mux
}

func TestRateLimitPerNode(t *testing.T) {
	counter := &mockCounter{}
	h := limitedMux(counter, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/linkly/a", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/linkly/b", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("other node should have its own bucket, got %d", rec.Code)
	}
	if counter.counts["nodeID:a"] != 3 {
		t.Fatalf("unexpected bucket counts %v", counter.counts)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	h := limitedMux(&mockCounter{err: errors.New("redis down")}, 1)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/linkly/a", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected fail-open, got %d", rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	h := limitedMux(nil, 1)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/linkly/a", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("limiter without counter must pass, got %d", rec.Code)
		}
	}
}

func TestClientIPKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := ClientIPKey(req); got != "ip:10.0.0.1" {
		t.Fatalf("got %q", got)
	}
	req.RemoteAddr = "garbage"
	if got := ClientIPKey(req); got != "ip:unknown" {
		t.Fatalf("got %q", got)
	}
}
