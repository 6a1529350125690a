package translate

import (
	"context"
	"errors"
	"testing"
	"time"

	"bisub/internal/services"
)

func TestPolicyBackoffDelays(t *testing.T) {
	p := Policy{BaseDelay: time.Second}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for i, expected := range want {
		if got := p.backoffDelay(i + 1); got != expected {
			t.Fatalf("backoffDelay(%d) = %s, want %s", i+1, got, expected)
		}
	}
}

func TestPolicyDoAppliesAttemptTimeout(t *testing.T) {
	sleeps := &recordedSleeps{}
	p := Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, AttemptTimeout: 10 * time.Millisecond, Sleep: sleeps.sleep}
	attempts := 0
	err := p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		attempts++
		if _, ok := ctx.Deadline(); !ok {
			t.Fatal("expected attempt deadline")
		}
		<-ctx.Done()
		return services.Wrap(services.ErrTransport, "test", "send", "", ctx.Err())
	})
	if attempts != 2 {
		t.Fatalf("expected hung attempts to be retried, got %d attempts", attempts)
	}
	var exhausted *ExhaustedRetriesError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedRetriesError, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline cause, got %v", err)
	}
}

func TestPolicyDoStopsOnParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 3, BaseDelay: time.Hour}
	attempts := 0
	err := p.Do(ctx, func(context.Context, int) error {
		attempts++
		cancel()
		return errors.New("boom")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestPolicyDoReportsFailures(t *testing.T) {
	sleeps := &recordedSleeps{}
	var observed []time.Duration
	p := Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Sleep:       sleeps.sleep,
		OnFailure: func(attempt int, err error, next time.Duration) {
			observed = append(observed, next)
		},
	}
	_ = p.Do(context.Background(), func(context.Context, int) error {
		return errors.New("unclassified")
	})
	want := []time.Duration{time.Second, 2 * time.Second, 0}
	if len(observed) != len(want) {
		t.Fatalf("expected %d observations, got %v", len(want), observed)
	}
	for i := range want {
		if observed[i] != want[i] {
			t.Fatalf("observation %d = %s, want %s", i, observed[i], want[i])
		}
	}
}

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
