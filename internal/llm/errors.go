package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the model returned content that could not
// be used: empty, not JSON when JSON was required, or outside the schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, unreachable or
// did not answer within the request timeout.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit. Truncated structured output is never usable.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrRefused indicates the vendor declined to answer, usually because a
// safety filter blocked the prompt or the output. Repeating the same request
// will not help; rephrasing might.
type ErrRefused struct {
	Reason string
}

func (e *ErrRefused) Error() string {
	if e.Reason == "" {
		return "LLM refused the request"
	}
	return "LLM refused the request: " + e.Reason
}

// IsTransient reports whether a later identical request may succeed.
// Rate limits, outages and timeouts are transient; configuration problems
// truncation and refusals are not.
func IsTransient(err error) bool {
	var (
		rl      *ErrRateLimit
		unavail *ErrProviderUnavailable
		maxTok  *ErrMaxTokensExceeded
		refused *ErrRefused
	)
	switch {
	case errors.As(err, &maxTok), errors.As(err, &refused):
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.As(err, &rl), errors.As(err, &unavail):
		return true
	}
	return false
}
