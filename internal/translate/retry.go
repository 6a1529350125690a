package translate

import (
	"context"
	"time"

	"bisub/internal/services"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy retries a single-attempt operation with exponential backoff. The
// delay before attempt n+1 is BaseDelay * 2^(n-1).
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// AttemptTimeout bounds each attempt; zero leaves attempts unbounded.
	AttemptTimeout time.Duration
	Sleep          Sleeper
	// OnFailure observes every failed attempt. next is the upcoming backoff,
	// zero when no further attempt will be made.
	OnFailure func(attempt int, err error, next time.Duration)
}

// DefaultPolicy returns three attempts with a one second base delay.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: defaultMaxAttempts, BaseDelay: defaultBaseDelay}
}

// Do runs fn until it succeeds or attempts run out. Errors that are not
// retryable (configuration, validation) return immediately, as does parent
// context cancellation. Otherwise the final failure is wrapped in an
// ExhaustedRetriesError.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := p.runAttempt(ctx, attempt, fn)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !services.Retryable(err) {
			p.observe(attempt, err, 0)
			return err
		}
		if attempt == attempts {
			p.observe(attempt, err, 0)
			break
		}
		delay := p.backoffDelay(attempt)
		p.observe(attempt, err, delay)
		if err := p.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return &ExhaustedRetriesError{Attempts: attempts, Err: lastErr}
}

func (p Policy) runAttempt(ctx context.Context, attempt int, fn func(ctx context.Context, attempt int) error) error {
	if p.AttemptTimeout <= 0 {
		return fn(ctx, attempt)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
	defer cancel()
	return fn(attemptCtx, attempt)
}

func (p Policy) observe(attempt int, err error, next time.Duration) {
	if p.OnFailure != nil {
		p.OnFailure(attempt, err, next)
	}
}

func (p Policy) backoffDelay(attempt int) time.Duration {
	base := p.BaseDelay
	if base < 0 {
		base = 0
	}
	if attempt < 1 {
		attempt = 1
	}
	return base * time.Duration(1<<(attempt-1))
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
