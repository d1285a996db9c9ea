package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, onChange StateFunc) (*Breaker, *time.Time) {
	b := NewBreaker("apifootball", BreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	}, onChange)
	now := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestBreaker_Transitions(t *testing.T) {
	t.Parallel()

	var transitions []State
	b, now := newTestBreaker(2, func(_ string, _, to State) { transitions = append(transitions, to) })

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}
	b.RecordFailure()
	if state := b.State(); state != StateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	*now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}
	b.RecordSuccess()
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []State{StateOpen, StateHalfOpen, StateClosed}
	if len(transitions) != len(want) {
		t.Fatalf("unexpected transitions: got=%v want=%v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("unexpected transition %d: got=%s want=%s", i, transitions[i], want[i])
		}
	}
}

func TestBreaker_ExecuteIgnoresNonCountedErrors(t *testing.T) {
	t.Parallel()

	b, _ := newTestBreaker(1, nil)
	errBadRequest := errors.New("bad request")

	err := b.Execute(context.Background(), func(context.Context) error { return errBadRequest }, func(err error) bool {
		return !errors.Is(err, errBadRequest)
	})
	if !errors.Is(err, errBadRequest) {
		t.Fatalf("expected fn error to be returned, got %v", err)
	}
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed breaker, got %s", state)
	}

	_ = b.Execute(context.Background(), func(context.Context) error { return errors.New("timeout") }, nil)
	if state := b.State(); state != StateOpen {
		t.Fatalf("expected open breaker, got %s", state)
	}
}

func TestBreaker_NilAllowsEverything(t *testing.T) {
	t.Parallel()

	b := NewBreaker("disabled", BreakerConfig{Enabled: false}, nil)
	if b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	for i := 0; i < 10; i++ {
		b.RecordFailure()
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("expected nil breaker to allow, got %v", err)
	}
}
