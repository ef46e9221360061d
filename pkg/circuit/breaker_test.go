package circuit

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewBreaker(t *testing.T) {
	config := DefaultConfig()
	breaker := NewBreaker("test", config, nil)

	if breaker.State() != StateClosed {
		t.Errorf("Expected initial state CLOSED, got %s", breaker.State().String())
	}

	if breaker.IsOpen() {
		t.Error("Expected breaker to not be open initially")
	}
}

func TestBreaker_TransitionToOpen(t *testing.T) {
	config := Config{
		Threshold:        3,
		Timeout:          1 * time.Second,
		SuccessThreshold: 2,
		MaxHalfOpen:      2,
	}
	breaker := NewBreaker("test", config, zap.NewNop())

	for i := 0; i < 3; i++ {
		breaker.Record(errors.New("upstream down"))
	}

	if breaker.State() != StateOpen {
		t.Errorf("Expected state OPEN after %d failures, got %s", config.Threshold, breaker.State().String())
	}

	if err := breaker.Allow(); err != ErrCircuitOpen {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_RecoveryThroughHalfOpen(t *testing.T) {
	config := Config{
		Threshold:        2,
		Timeout:          50 * time.Millisecond,
		SuccessThreshold: 2,
		MaxHalfOpen:      3,
	}
	breaker := NewBreaker("test", config, zap.NewNop())

	breaker.Record(errors.New("error 1"))
	breaker.Record(errors.New("error 2"))

	if breaker.State() != StateOpen {
		t.Fatalf("Expected state OPEN, got %s", breaker.State().String())
	}

	time.Sleep(60 * time.Millisecond)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("Expected request to be allowed after timeout, got %v", err)
	}
	if breaker.State() != StateHalfOpen {
		t.Fatalf("Expected state HALF_OPEN, got %s", breaker.State().String())
	}

	breaker.Record(nil)
	breaker.Record(nil)

	if breaker.State() != StateClosed {
		t.Errorf("Expected state CLOSED after successes, got %s", breaker.State().String())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	config := Config{
		Threshold:        1,
		Timeout:          10 * time.Millisecond,
		SuccessThreshold: 2,
		MaxHalfOpen:      1,
	}
	breaker := NewBreaker("test", config, zap.NewNop())

	breaker.Record(errors.New("boom"))
	time.Sleep(20 * time.Millisecond)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("Expected request to be allowed, got %v", err)
	}

	breaker.Record(errors.New("still broken"))

	if breaker.State() != StateOpen {
		t.Errorf("Expected state OPEN after half-open failure, got %s", breaker.State().String())
	}
}

func TestBreaker_Execute(t *testing.T) {
	breaker := NewBreaker("test", DefaultConfig(), zap.NewNop())

	calls := 0
	err := breaker.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected fn to be called once, got %d", calls)
	}

	wantErr := errors.New("call failed")
	err = breaker.Execute(context.Background(), func(ctx context.Context) error {
		return wantErr
	})
	if err != wantErr {
		t.Errorf("Expected call error to propagate, got %v", err)
	}
}

func TestBreaker_ExecuteFailsFastWhenOpen(t *testing.T) {
	config := Config{
		Threshold:        1,
		Timeout:          time.Minute,
		SuccessThreshold: 1,
		MaxHalfOpen:      1,
	}
	breaker := NewBreaker("test", config, zap.NewNop())
	breaker.Record(errors.New("boom"))

	called := false
	err := breaker.Execute(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if err != ErrCircuitOpen {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
	if called {
		t.Error("Expected fn not to be called when circuit is open")
	}
}
