package owm

import (
	"context"
	"time"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second

	maxBackoff = 30 * time.Second
)

// Retrier re-runs operations that fail with a retryable ClassifiedError.
// Total attempts never exceed MaxRetries+1.
type Retrier struct {
	MaxRetries int
	Delay      time.Duration

	// Backoff computes the wait before retry n (1-based). Nil means a fixed Delay.
	Backoff func(retry int, delay time.Duration) time.Duration

	// OnRetry is called before each wait
	OnRetry func(retry int, wait time.Duration, err error)

	// sleep is swapped out in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrier returns a retrier with the default budget and fixed delay
func NewRetrier() *Retrier {
	return &Retrier{MaxRetries: DefaultMaxRetries, Delay: DefaultRetryDelay}
}

// ExponentialBackoff doubles the delay on each retry, capped at 30s
func ExponentialBackoff(retry int, delay time.Duration) time.Duration {
	if retry < 1 {
		retry = 1
	}
	d := delay << uint(min(retry-1, 10))
	if d > maxBackoff || d <= 0 {
		return maxBackoff
	}
	return d
}

func (r *Retrier) wait(retry int) time.Duration {
	if r.Backoff != nil {
		return r.Backoff(retry, r.Delay)
	}
	return r.Delay
}

func (r *Retrier) pause(ctx context.Context, d time.Duration) error {
	if r.sleep != nil {
		return r.sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry runs op, retrying retryable failures while budget remains. Successful
// results return immediately; other failures are returned unchanged. If ctx is
// done while waiting, the last failure is returned.
func Retry[T any](ctx context.Context, r *Retrier, op func(ctx context.Context) (T, error)) (T, error) {
	if r == nil {
		r = NewRetrier()
	}
	budget := max(r.MaxRetries, 0)

	var zero T
	for retry := 1; ; retry++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}

		if !IsRetryable(err) || budget == 0 {
			return zero, err
		}
		budget--

		d := r.wait(retry)
		if r.OnRetry != nil {
			r.OnRetry(retry, d, err)
		}
		if perr := r.pause(ctx, d); perr != nil {
			return zero, err
		}
	}
}
