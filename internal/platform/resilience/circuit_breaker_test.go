package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, timeout time.Duration, halfOpen int) (*CircuitBreaker, *time.Time) {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      timeout,
		HalfOpenMaxReq:   halfOpen,
	})
	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b, now := newTestBreaker(2, 5*time.Second, 1)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	*now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open trial call to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful trial call, got %s", state)
	}
}

func TestCircuitBreaker_DoIgnoresNonCountedErrors(t *testing.T) {
	b, _ := newTestBreaker(1, time.Minute, 1)
	permanent := errors.New("bad request")
	transient := errors.New("timeout")
	counts := func(err error) bool { return errors.Is(err, transient) }

	if err := b.Do(func() error { return permanent }, counts); !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error passthrough, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("non-counted error must not open breaker, got %s", state)
	}

	if err := b.Do(func() error { return transient }, counts); !errors.Is(err, transient) {
		t.Fatalf("expected transient error passthrough, got %v", err)
	}
	if err := b.Do(func() error { return nil }, counts); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker to reject call, got %v", err)
	}
}

func TestCircuitBreaker_DisabledAlwaysRuns(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	calls := 0
	for range 3 {
		_ = b.Do(func() error { calls++; return errors.New("boom") }, nil)
	}
	if calls != 3 {
		t.Fatalf("disabled breaker should not short-circuit, calls=%d", calls)
	}
}
