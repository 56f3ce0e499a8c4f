package errhandling

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// RetryPolicy bounds how Do retries retryable statuses.
type RetryPolicy struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxTries:        3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

// Do runs op until it succeeds, fails with a non-retryable Status, or the
// policy is exhausted. The returned Status is zero on success.
func Do(ctx context.Context, h *Handler, policy RetryPolicy, op func(ctx context.Context) error) (Status, error) {
	b := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		b.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		b.MaxInterval = policy.MaxInterval
	}

	var last Status
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		start := time.Now()
		err := op(ctx)
		if err == nil {
			last = Status{}
			return struct{}{}, nil
		}

		last = h.Classify(err, time.Since(start))
		if !last.Retryable() {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(max(policy.MaxTries, 1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			h.logger.Debug("Retrying operation",
				zap.Int("attempt", attempt), zap.Duration("backoff", next), zap.Error(err))
		}),
	)
	if err == nil {
		return Status{}, nil
	}

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}

	if attempt == 0 || (ctx.Err() != nil && errors.Is(err, ctx.Err())) {
		last = NewStatus(Stop, false, ExitStop)
	}
	return last, err
}
