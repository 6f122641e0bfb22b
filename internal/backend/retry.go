package backend

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"
)

// RetryPolicy describes how an operation is retried: attempt budget,
// backoff curve, and which errors are worth retrying. Passing the policy
// into Retry replaces ad-hoc retry loops with shared loading flags.
type RetryPolicy struct {
	MaxAttempts int
	InitialWait time.Duration
	Multiplier  float64
	MaxWait     time.Duration

	// Retryable reports whether an error is transient. Nil means
	// DefaultRetryable.
	Retryable func(error) bool

	// Sleep waits for d or until ctx is done. Nil means a real timer;
	// tests inject a recording sleeper.
	Sleep func(ctx context.Context, d time.Duration) error

	Logger *slog.Logger
}

// DefaultFetchPolicy is the problem-fetch retry schedule: five attempts
// with 1s, 2s, 4s, 8s waits between them.
func DefaultFetchPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		InitialWait: 1000 * time.Millisecond,
		Multiplier:  2.0,
		MaxWait:     30 * time.Second,
	}
}

// Delay returns the backoff wait after the given 1-based attempt:
// InitialWait * Multiplier^(attempt-1), capped at MaxWait.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	wait := float64(p.InitialWait) * math.Pow(p.Multiplier, float64(attempt-1))
	if p.MaxWait > 0 && wait > float64(p.MaxWait) {
		wait = float64(p.MaxWait)
	}
	return time.Duration(wait)
}

// DefaultRetryable retries transient fetch errors only. Context
// cancellation, 4xx rejections, and malformed payloads terminate
// immediately.
func DefaultRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rejected *ErrClientRejected
	if errors.As(err, &rejected) {
		return false
	}
	var invalid *ErrInvalidPayload
	if errors.As(err, &invalid) {
		return false
	}
	return true
}

// Retry runs fn under the policy, sleeping between failed attempts. Every
// attempt and its outcome is logged so tests and operators can follow the
// schedule. The last error is returned once the budget is spent or a
// non-retryable error occurs.
func Retry[T any](ctx context.Context, p RetryPolicy, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = DefaultRetryable
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepTimer
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			logger.Debug("attempt succeeded", "op", op, "attempt", attempt)
			return result, nil
		}
		lastErr = err

		if !retryable(err) {
			logger.Warn("attempt failed, not retryable",
				"op", op, "attempt", attempt, "reason", err.Error())
			return zero, err
		}

		if attempt == p.MaxAttempts {
			logger.Warn("attempt failed, budget exhausted",
				"op", op, "attempt", attempt, "reason", err.Error())
			break
		}

		delay := p.Delay(attempt)
		logger.Info("attempt failed, backing off",
			"op", op, "attempt", attempt, "delay", delay, "reason", err.Error())
		if serr := sleep(ctx, delay); serr != nil {
			return zero, serr
		}
	}
	return zero, lastErr
}

// sleepTimer is the default context-aware sleep.
func sleepTimer(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
