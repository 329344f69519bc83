package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/biilim/biilim/internal/logger"
)

// RetryProvider retries transient failures with exponential backoff and
// ±20% jitter. Empty or unusable output gets one extra attempt. Refusals,
// truncation and cancellation are returned at once.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
	log   *logger.Logger
}

// WithRetry wraps p. MaxAttempts below one still makes a single call.
func WithRetry(p Provider, cfg RetryConfig, log *logger.Logger) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RetryProvider{inner: p, cfg: cfg, log: log}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	invalidBudget := 1
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt >= r.cfg.MaxAttempts || !retryable(err, &invalidBudget) {
			return nil, err
		}

		wait := r.backoff(attempt, err)
		r.log.Warn("llm call failed, retrying",
			"purpose", PurposeFrom(ctx), "attempt", attempt, "wait", wait, "error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable decides whether err deserves another attempt. Unusable output
// draws on invalidBudget so a model that keeps answering badly is not
// called again and again.
func retryable(err error, invalidBudget *int) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		if *invalidBudget == 0 {
			return false
		}
		*invalidBudget--
		return true
	}
	return IsTransient(err)
}

// backoff returns the wait before the attempt after the given one (1-based).
// A rate limit's Retry-After wins over the computed delay.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	wait := min(float64(r.cfg.InitialWait)*math.Pow(r.cfg.Multiplier, float64(attempt-1)), float64(r.cfg.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(wait, 0))
}
