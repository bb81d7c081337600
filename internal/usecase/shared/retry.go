package shared

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"retail-core/internal/infra"
	"retail-core/internal/pkg/config"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds every store call with a timeout and retries transient failures.
type RetryPolicy struct {
	Attempts  uint64
	BaseDelay time.Duration
	Timeout   time.Duration
}

func NewRetryPolicy(cfg config.CheckoutConfig) RetryPolicy {
	return RetryPolicy{
		Attempts:  cfg.RetryAttempts,
		BaseDelay: cfg.RetryBaseDelay,
		Timeout:   cfg.StoreTimeout,
	}
}

// Do runs op at most Attempts+1 times. Non-transient errors stop immediately.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(p.exponential(0), p.Attempts), ctx)
	return backoff.RetryNotify(p.bounded(ctx, op), b, logRetry)
}

// UntilDone keeps retrying transient failures until op succeeds or ctx ends.
// Compensating writes use it.
func (p RetryPolicy) UntilDone(ctx context.Context, op func(ctx context.Context) error) error {
	b := backoff.WithContext(p.exponential(time.Second), ctx)
	return backoff.RetryNotify(p.bounded(ctx, op), b, logRetry)
}

func (p RetryPolicy) bounded(ctx context.Context, op func(ctx context.Context) error) backoff.Operation {
	return func() error {
		attemptCtx := ctx
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}
		err := op(attemptCtx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}
}

func (p RetryPolicy) exponential(maxInterval time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if p.BaseDelay > 0 {
		b.InitialInterval = p.BaseDelay
	}
	if maxInterval > 0 {
		b.MaxInterval = maxInterval
	}
	b.MaxElapsedTime = 0
	return b
}

func logRetry(err error, wait time.Duration) {
	slog.Warn("retrying store call", "wait_ms", wait.Milliseconds(), "error", err.Error())
}

// IsTransient reports store failures where the outcome is unknown or the call may succeed later.
// A deadline is never read as a negative answer.
func IsTransient(err error) bool {
	return infra.IsTransient(err) || errors.Is(err, context.DeadlineExceeded)
}
