package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(3, time.Minute, 1)

	for i := 0; i < 2; i++ {
		b.RecordFailure()
		if err := b.Allow(); err != nil {
			t.Fatalf("breaker opened before threshold at failure %d: %v", i+1, err)
		}
	}

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after threshold, got %v", err)
	}
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("state: got=%s want=%s", got, CircuitStateOpen)
	}
}

func TestCircuitBreaker_SuccessResetsFailureStreak(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(2, time.Minute, 1)

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()

	if err := b.Allow(); err != nil {
		t.Fatalf("interleaved success must reset the streak: %v", err)
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, 10*time.Millisecond, 1)
	clock := time.Now()
	b.now = func() time.Time { return clock }

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("breaker must open on first failure with threshold 1")
	}

	clock = clock.Add(20 * time.Millisecond)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe after open timeout rejected: %v", err)
	}

	// A second concurrent probe exceeds the half-open budget.
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("half-open budget not enforced, got %v", err)
	}

	b.RecordSuccess()
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("state after successful probe: got=%s want=%s", got, CircuitStateClosed)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker must allow: %v", err)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, 10*time.Millisecond, 1)
	clock := time.Now()
	b.now = func() time.Time { return clock }

	b.RecordFailure()
	clock = clock.Add(20 * time.Millisecond)

	if err := b.Allow(); err != nil {
		t.Fatalf("probe rejected: %v", err)
	}
	b.RecordFailure()

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("failed probe must reopen the breaker, got %v", err)
	}
}
