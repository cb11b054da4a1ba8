package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// IsRetryable reports whether an error is worth another attempt.
// Quota failures and context cancellation are final; rate limits, server
// errors, and transport hiccups are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if IsQuota(err) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"429", "rate limit", "overloaded", "overloaded_error",
		"500", "502", "503", "504", "529",
		"timeout", "timed out", "temporarily", "connection reset", "connection refused",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// WithRetry runs fn up to maxRetries+1 times with exponential backoff
// (1s, 2s, 4s...). Non-retryable errors abort immediately.
func WithRetry(ctx context.Context, maxRetries int, fn func() (string, error)) (string, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		out, err := fn()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("giving up after %d attempts: %w", maxRetries+1, lastErr)
}
