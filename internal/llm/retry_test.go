package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsQuota(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"quota exceeded", errors.New("429: You exceeded your current quota"), true},
		{"insufficient_quota", errors.New(`{"error":{"type":"insufficient_quota"}}`), true},
		{"billing", errors.New("billing hard limit has been reached"), true},
		{"credit balance", errors.New("Your credit balance is too low"), true},
		{"plain rate limit", errors.New("429 rate limit exceeded"), false},
		{"unrelated", errors.New("connection reset by peer"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQuota(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429", errors.New("openai API error: 429 Too Many Requests"), true},
		{"rate limit", errors.New("rate limit exceeded"), true},
		{"overloaded", errors.New(`{"type":"overloaded_error"}`), true},
		{"500", errors.New("500 Internal Server Error"), true},
		{"503", errors.New("503 Service Unavailable"), true},
		{"timeout", errors.New("request timed out"), true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"wrapped cancel", fmt.Errorf("gemini API error: %w", context.Canceled), false},
		{"quota is terminal", errors.New("429: insufficient_quota"), false},
		{"bad request", errors.New("400 Bad Request"), false},
		{"auth", errors.New("401 Unauthorized: invalid api key"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("first attempt succeeds", func(t *testing.T) {
		calls := 0
		out, err := WithRetry(context.Background(), 3, func() (string, error) {
			calls++
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
		assert.Equal(t, 1, calls)
	})

	t.Run("recovers from transient error", func(t *testing.T) {
		calls := 0
		out, err := WithRetry(context.Background(), 2, func() (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("503 Service Unavailable")
			}
			return "recovered", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "recovered", out)
		assert.Equal(t, 2, calls)
	})

	t.Run("non-retryable aborts immediately", func(t *testing.T) {
		calls := 0
		_, err := WithRetry(context.Background(), 3, func() (string, error) {
			calls++
			return "", errors.New("401 Unauthorized")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.NotContains(t, err.Error(), "giving up")
	})

	t.Run("quota aborts immediately", func(t *testing.T) {
		calls := 0
		_, err := WithRetry(context.Background(), 3, func() (string, error) {
			calls++
			return "", errors.New("you have exceeded your quota")
		})
		require.Error(t, err)
		assert.True(t, IsQuota(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausts retries", func(t *testing.T) {
		calls := 0
		_, err := WithRetry(context.Background(), 1, func() (string, error) {
			calls++
			return "", errors.New("429 Too Many Requests")
		})
		require.Error(t, err)
		assert.Equal(t, 2, calls)
		assert.Contains(t, err.Error(), "giving up after 2 attempts")
	})

	t.Run("canceled context stops the backoff wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		_, err := WithRetry(ctx, 3, func() (string, error) {
			calls++
			return "", errors.New("503 Service Unavailable")
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("negative retries means one attempt", func(t *testing.T) {
		calls := 0
		_, err := WithRetry(context.Background(), -5, func() (string, error) {
			calls++
			return "", errors.New("500 Internal Server Error")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
