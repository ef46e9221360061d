package pool

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewConnectionPool(t *testing.T) {
	pool := NewConnectionPool(DefaultPoolConfig(), zap.NewNop())
	if pool == nil {
		t.Fatal("Expected non-nil pool")
	}

	stats := pool.Stats()
	if stats["http_clients"].(int) != 0 {
		t.Errorf("Expected 0 http clients, got %d", stats["http_clients"].(int))
	}
}

func TestConnectionPool_GetHTTPClient(t *testing.T) {
	pool := NewConnectionPool(DefaultPoolConfig(), nil)

	client1 := pool.GetHTTPClient("https://exp.host")
	if client1 == nil {
		t.Fatal("Expected non-nil client")
	}

	client2 := pool.GetHTTPClient("https://exp.host")
	if client1 != client2 {
		t.Error("Expected same client instance")
	}

	stats := pool.Stats()
	if stats["http_clients"].(int) != 1 {
		t.Errorf("Expected 1 http client, got %d", stats["http_clients"].(int))
	}
}

func TestConnectionPool_HealthTracking(t *testing.T) {
	pool := NewConnectionPool(DefaultPoolConfig(), nil)

	address := "https://scanner.internal"
	pool.GetHTTPClient(address)

	pool.RecordSuccess(address)
	if !pool.IsHealthy(address) {
		t.Error("Expected backend to be healthy after success")
	}

	pool.RecordFailure(address, errors.New("connection refused"))
	stats := pool.GetHealthStats()
	if stats[address].FailureCount != 1 {
		t.Errorf("Expected 1 failure, got %d", stats[address].FailureCount)
	}
	if !pool.IsHealthy(address) {
		t.Error("Expected backend to stay healthy below failure threshold")
	}

	pool.RecordFailure(address, errors.New("connection refused"))
	pool.RecordFailure(address, errors.New("connection refused"))
	if pool.IsHealthy(address) {
		t.Error("Expected backend to be unhealthy after repeated failures")
	}
}

func TestConnectionPool_CloseAll(t *testing.T) {
	pool := NewConnectionPool(DefaultPoolConfig(), nil)

	pool.GetHTTPClient("https://exp.host")
	pool.GetHTTPClient("https://scanner.internal")

	if err := pool.CloseAllConnections(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	stats := pool.Stats()
	if stats["http_clients"].(int) != 0 {
		t.Errorf("Expected 0 http clients after close, got %d", stats["http_clients"].(int))
	}
}

func TestConnectionPool_ConcurrentAccess(t *testing.T) {
	pool := NewConnectionPool(DefaultPoolConfig(), nil)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			address := "https://exp.host"
			pool.GetHTTPClient(address)
			pool.RecordSuccess(address)
			pool.IsHealthy(address)
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Timeout waiting for goroutines")
		}
	}

	stats := pool.Stats()
	if stats["http_clients"].(int) != 1 {
		t.Errorf("Expected 1 http client, got %d", stats["http_clients"].(int))
	}
}
