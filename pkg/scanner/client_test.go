package scanner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/phishguard/backend/pkg/circuit"
	"github.com/phishguard/backend/pkg/pool"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(
		Config{BaseURL: server.URL, APIKey: "scanner-secret"},
		pool.NewConnectionPool(pool.DefaultPoolConfig(), nil),
		circuit.NewBreaker("scanner", circuit.DefaultConfig(), zap.NewNop()),
		zap.NewNop(),
	)
}

func TestClient_Submit(t *testing.T) {
	var gotKey string
	var gotURL string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		gotKey = r.Header.Get("x-api-key")

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		gotURL = req.URL
		w.WriteHeader(http.StatusAccepted)
	})

	if err := client.Submit(context.Background(), "http://suspicious.example/login"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if gotKey != "scanner-secret" {
		t.Errorf("Expected api key header, got %q", gotKey)
	}
	if gotURL != "http://suspicious.example/login" {
		t.Errorf("Unexpected submitted URL %q", gotURL)
	}
}

func TestClient_SubmitUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if err := client.Submit(context.Background(), "http://suspicious.example"); err == nil {
		t.Fatal("Expected error for 500 response")
	}
}

func TestClient_SubmitCircuitOpen(t *testing.T) {
	breaker := circuit.NewBreaker("scanner", circuit.Config{
		Threshold:        1,
		Timeout:          circuit.DefaultConfig().Timeout,
		SuccessThreshold: 1,
		MaxHalfOpen:      1,
	}, zap.NewNop())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(
		Config{BaseURL: server.URL},
		pool.NewConnectionPool(pool.DefaultPoolConfig(), nil),
		breaker,
		zap.NewNop(),
	)

	if err := client.Submit(context.Background(), "http://a"); err == nil {
		t.Fatal("Expected first submit to fail")
	}
	if err := client.Submit(context.Background(), "http://b"); err != circuit.ErrCircuitOpen {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}
