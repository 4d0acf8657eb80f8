package service

import (
	"context"
	"time"

	"github.com/aniladanir/retry"
)

const (
	DefaultMaxRetries  = 2
	DefaultRetryDelay  = 2500 * time.Millisecond
	DefaultPacingDelay = 1500 * time.Millisecond
)

// minRetryDelay is the smallest delay the retrier accepts.
const minRetryDelay = time.Millisecond

// WaitFunc blocks for d. Implementations may return early with ctx's error.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Sleep is the WaitFunc used outside of tests
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Policy retries an operation a fixed number of times with a fixed delay.
// Every error is retried the same way.
type Policy struct {
	MaxRetries int
	Delay      time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: DefaultMaxRetries,
		Delay:      DefaultRetryDelay,
	}
}

// retrier pins the backoff to Delay: the random func never exceeds the
// minimum interval, so every wait is exactly Delay.
func (p Policy) retrier() (*retry.Retrier, error) {
	delay := max(p.Delay, minRetryDelay)

	return retry.New(
		retry.WithMaxAttemps(max(p.MaxRetries, 0)+1),
		retry.WithMinInterval(delay),
		retry.WithTimeFactor(delay/2),
		retry.WithMaxInterval(2*delay),
		retry.WithRandomFunc(func(int64) int64 { return 0 }),
	)
}

// Do runs op until it succeeds or MaxRetries+1 attempts have failed.
// It returns the number of attempts made and the last error. There is no
// wait after the final attempt. Cancelling ctx stops further attempts.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) (int, error) {
	retrier, err := p.retrier()
	if err != nil {
		return 0, err
	}

	var (
		attempts int
		lastErr  error
	)
	ok := <-retrier.Retry(ctx, func(attempt int) bool {
		attempts = attempt
		lastErr = op(ctx, attempt)
		return lastErr == nil
	}, true)

	if ok {
		return attempts, nil
	}
	return attempts, lastErr
}
