package llm

import (
	"fmt"
	"os"
)

// ProviderConfig holds the resolved provider and API key.
type ProviderConfig struct {
	Provider    Provider
	APIKey      string
	Model       string // optional model override
	BaseURL     string // optional endpoint override
	Temperature float64
	MaxTokens   int
}

// detectionOrder is the env scan order. OpenAI leads: it is the primary
// provider for persona generation.
var detectionOrder = []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGemini}

// Providers lists the supported providers in detection order.
func Providers() []Provider {
	return append([]Provider(nil), detectionOrder...)
}

// KeyEnvVar returns the environment variable holding a provider's API key.
func KeyEnvVar(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// Detect scans environment variables and returns the first provider with a
// configured key. Priority: OPENAI > ANTHROPIC > GEMINI.
func Detect() (*ProviderConfig, error) {
	for _, p := range detectionOrder {
		if key := os.Getenv(KeyEnvVar(p)); key != "" {
			return &ProviderConfig{Provider: p, APIKey: key}, nil
		}
	}
	return nil, fmt.Errorf("no API key found; set one of: OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY")
}

// New creates a client from a provider config. An empty Provider triggers
// env detection; an empty APIKey is resolved from the provider's env var.
func New(cfg *ProviderConfig) (Client, error) {
	if cfg == nil {
		cfg = &ProviderConfig{}
	}

	if cfg.Provider == "" {
		detected, err := Detect()
		if err != nil {
			return nil, err
		}
		cfg.Provider = detected.Provider
		if cfg.APIKey == "" {
			cfg.APIKey = detected.APIKey
		}
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(KeyEnvVar(cfg.Provider))
	}
	if cfg.APIKey == "" {
		envVar := KeyEnvVar(cfg.Provider)
		if envVar == "" {
			return nil, fmt.Errorf("unknown provider: %s (valid: openai, anthropic, gemini)", cfg.Provider)
		}
		return nil, fmt.Errorf("no API key for provider %s (set %s)", cfg.Provider, envVar)
	}

	opts := Options{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(opts), nil
	case ProviderAnthropic:
		return NewAnthropicClient(opts), nil
	case ProviderGemini:
		return NewGeminiClient(opts)
	default:
		return nil, fmt.Errorf("unknown provider: %s (valid: openai, anthropic, gemini)", cfg.Provider)
	}
}
