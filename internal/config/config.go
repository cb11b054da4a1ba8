package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all personagen configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Reddit API configuration
	Reddit RedditConfig `yaml:"reddit"`

	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Output configuration
	Output OutputConfig `yaml:"output"`
}

// RedditConfig configures the Reddit API client.
type RedditConfig struct {
	UserAgent       string `yaml:"user_agent"`
	BaseURL         string `yaml:"base_url"`
	TokenURL        string `yaml:"token_url"`
	PostLimit       int    `yaml:"post_limit"`
	CommentLimit    int    `yaml:"comment_limit"`
	RequestInterval string `yaml:"request_interval"`
	Timeout         string `yaml:"timeout"`
	MaxRetries      int    `yaml:"max_retries"`
}

// LLMConfig configures the persona generator.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // openai, anthropic, gemini ("" = auto-detect)
	Model       string  `yaml:"model"`    // "" = provider default
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Timeout     string  `yaml:"timeout"`
	MaxRetries  int     `yaml:"max_retries"`
}

// OutputConfig configures where persona files land.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "personagen",
		Version: "0.1.0",

		Reddit: RedditConfig{
			UserAgent:       "personagen/0.1",
			BaseURL:         "https://oauth.reddit.com",
			TokenURL:        "https://www.reddit.com/api/v1/access_token",
			PostLimit:       100,
			CommentLimit:    100,
			RequestInterval: "1s",
			Timeout:         "30s",
			MaxRetries:      3,
		},

		LLM: LLMConfig{
			Provider:    "",
			Model:       "",
			Temperature: 0.5,
			MaxTokens:   1024,
			Timeout:     "120s",
			MaxRetries:  3,
		},

		Output: OutputConfig{
			Dir: "outputs",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".personagen", "config.yaml")
	}
	return filepath.Join(home, ".personagen", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
// API keys are never stored in the YAML file; they are read from the
// environment by the callers that need them.
func (c *Config) applyEnvOverrides() {
	if provider := os.Getenv("PERSONAGEN_LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}
	if model := os.Getenv("PERSONAGEN_LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if ua := os.Getenv("PERSONAGEN_REDDIT_UA"); ua != "" {
		c.Reddit.UserAgent = ua
	}
	if dir := os.Getenv("PERSONAGEN_OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
}

// RedditCredentials returns the Reddit script-app credentials from the
// environment (.env is loaded by the CLI before config).
func RedditCredentials() (clientID, clientSecret string) {
	return os.Getenv("REDDIT_CLIENT_ID"), os.Getenv("REDDIT_CLIENT_SECRET")
}

// GetRequestInterval returns the minimum delay between Reddit requests.
func (c *Config) GetRequestInterval() time.Duration {
	d, err := time.ParseDuration(c.Reddit.RequestInterval)
	if err != nil {
		return 1 * time.Second
	}
	return d
}

// GetRedditTimeout returns the Reddit HTTP timeout as a duration.
func (c *Config) GetRedditTimeout() time.Duration {
	d, err := time.ParseDuration(c.Reddit.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// ValidProviders lists all supported LLM providers ("" means auto-detect).
var ValidProviders = []string{"", "openai", "anthropic", "gemini"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validProvider := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid LLM provider: %s (valid: openai, anthropic, gemini)", c.LLM.Provider)
	}

	if c.Reddit.PostLimit <= 0 {
		return fmt.Errorf("reddit post_limit must be positive, got %d", c.Reddit.PostLimit)
	}
	if c.Reddit.CommentLimit <= 0 {
		return fmt.Errorf("reddit comment_limit must be positive, got %d", c.Reddit.CommentLimit)
	}
	if c.Reddit.UserAgent == "" {
		return fmt.Errorf("reddit user_agent must not be empty")
	}
	if c.Reddit.MaxRetries < 0 {
		return fmt.Errorf("reddit max_retries must not be negative, got %d", c.Reddit.MaxRetries)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm temperature must be in [0, 2], got %v", c.LLM.Temperature)
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm max_retries must not be negative, got %d", c.LLM.MaxRetries)
	}

	for name, value := range map[string]string{
		"reddit request_interval": c.Reddit.RequestInterval,
		"reddit timeout":          c.Reddit.Timeout,
		"llm timeout":             c.LLM.Timeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %q", name, value)
		}
	}

	return nil
}
