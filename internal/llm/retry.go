package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds the attempts made for one logical request.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// DefaultRetryPolicy is three attempts starting at one second, doubling, capped at ten.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second}
}

// Retry runs op until it succeeds, fails irrecoverably, exhausts the policy or
// ctx is done. The last error is returned.
func Retry(ctx context.Context, p RetryPolicy, op func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	exp.Multiplier = 2
	exp.MaxInterval = p.MaxDelay
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	exp.Reset()

	attempts := 0
	for {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if IsIrrecoverable(err) {
			return err
		}
		attempts++
		if attempts >= p.MaxAttempts || ctx.Err() != nil {
			return err
		}

		wait := exp.NextBackOff()
		if p.OnRetry != nil {
			p.OnRetry(attempts, wait, err)
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
