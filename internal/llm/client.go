// Package llm provides the provider-neutral completion client used by the
// persona builder, with concrete clients for OpenAI, Anthropic, and Gemini.
package llm

import (
	"context"
	"errors"
	"strings"
)

// Provider identifies an LLM provider.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// Default models per provider. Overridable via config or --model.
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
	DefaultGeminiModel    = "gemini-2.5-flash"
)

// ErrEmptyCompletion is returned when a provider answers with no text.
var ErrEmptyCompletion = errors.New("empty completion")

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
	Provider() Provider
}

// Options configures a concrete client.
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string // override for tests and proxies
	Temperature float64
	MaxTokens   int
}

// DefaultModel returns the default model for a provider.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderAnthropic:
		return DefaultAnthropicModel
	case ProviderGemini:
		return DefaultGeminiModel
	default:
		return ""
	}
}

// IsQuota reports whether an error looks like an exhausted-quota/billing
// failure. Those are not transient: the caller should drop to the offline
// builder instead of retrying.
func IsQuota(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"quota", "insufficient_quota", "billing", "credit balance"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
