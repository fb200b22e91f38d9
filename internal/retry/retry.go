// Package retry wraps calls to upstream AI providers with bounded
// exponential backoff.
//
// Only transient failures are retried; anything else aborts immediately so
// callers can surface a fatal error without burning the retry budget.
package retry

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxRetries bounds the retry budget for provider calls.
const DefaultMaxRetries = 3

const (
	initialInterval = 500 * time.Millisecond
	maxInterval     = 10 * time.Second
)

// transientPatterns groups error substrings by failure category, matched
// case-insensitively against err.Error().
//
// NOTE: string matching is used because the provider SDKs do not expose
// typed errors for transient failures. Re-evaluate if that changes.
var transientPatterns = [][]string{
	{"rate limit", "quota exceeded", "429"},      // rate limiting
	{"500", "502", "503", "504", "unavailable"},  // transient server errors
	{"connection reset", "timeout", "temporary"}, // network errors
}

// Transient reports whether err looks like a retryable upstream failure.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, group := range transientPatterns {
		for _, pattern := range group {
			if strings.Contains(msg, pattern) {
				return true
			}
		}
	}
	return false
}

// Do runs op with exponential backoff, retrying transient errors up to
// maxRetries additional attempts. Non-transient errors and context
// cancellation abort immediately.
func Do(ctx context.Context, maxRetries uint64, op func() error) error {
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if Transient(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialInterval
	policy.MaxInterval = maxInterval

	return backoff.Retry(wrapped,
		backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx))
}
