package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "personagen", cfg.Name)
	assert.Equal(t, "personagen/0.1", cfg.Reddit.UserAgent)
	assert.Equal(t, "https://oauth.reddit.com", cfg.Reddit.BaseURL)
	assert.Equal(t, 100, cfg.Reddit.PostLimit)
	assert.Equal(t, 100, cfg.Reddit.CommentLimit)
	assert.Equal(t, 0.5, cfg.LLM.Temperature)
	assert.Equal(t, 1024, cfg.LLM.MaxTokens)
	assert.Equal(t, "outputs", cfg.Output.Dir)

	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().Reddit.BaseURL, cfg.Reddit.BaseURL)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		body := `
reddit:
  user_agent: "my-agent/2.0"
  post_limit: 25
llm:
  provider: anthropic
  model: claude-sonnet-4-20250514
output:
  dir: /tmp/personas
`
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "my-agent/2.0", cfg.Reddit.UserAgent)
		assert.Equal(t, 25, cfg.Reddit.PostLimit)
		// Untouched fields keep defaults
		assert.Equal(t, 100, cfg.Reddit.CommentLimit)
		assert.Equal(t, "anthropic", cfg.LLM.Provider)
		assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Model)
		assert.Equal(t, "/tmp/personas", cfg.Output.Dir)
	})

	t.Run("malformed YAML errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("reddit: ["), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.LLM.Provider = "openai"
	cfg.Output.Dir = "custom-outputs"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", loaded.LLM.Provider)
	assert.Equal(t, "custom-outputs", loaded.Output.Dir)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("PERSONAGEN_LLM_PROVIDER overrides provider", func(t *testing.T) {
		t.Setenv("PERSONAGEN_LLM_PROVIDER", "gemini")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gemini", cfg.LLM.Provider)
	})

	t.Run("PERSONAGEN_LLM_MODEL overrides model", func(t *testing.T) {
		t.Setenv("PERSONAGEN_LLM_MODEL", "gpt-4o")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	})

	t.Run("PERSONAGEN_REDDIT_UA overrides user agent", func(t *testing.T) {
		t.Setenv("PERSONAGEN_REDDIT_UA", "research-bot/9.9")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "research-bot/9.9", cfg.Reddit.UserAgent)
	})

	t.Run("PERSONAGEN_OUTPUT_DIR overrides dir", func(t *testing.T) {
		t.Setenv("PERSONAGEN_OUTPUT_DIR", "/var/personas")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "/var/personas", cfg.Output.Dir)
	})

	t.Run("empty env leaves config untouched", func(t *testing.T) {
		t.Setenv("PERSONAGEN_LLM_PROVIDER", "")

		cfg := DefaultConfig()
		cfg.LLM.Provider = "openai"
		cfg.applyEnvOverrides()

		assert.Equal(t, "openai", cfg.LLM.Provider)
	})

	t.Run("overrides apply through Load", func(t *testing.T) {
		t.Setenv("PERSONAGEN_OUTPUT_DIR", "env-outputs")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "env-outputs", cfg.Output.Dir)
	})
}

func TestRedditCredentials(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "cid")
	t.Setenv("REDDIT_CLIENT_SECRET", "secret")

	id, secret := RedditCredentials()
	assert.Equal(t, "cid", id)
	assert.Equal(t, "secret", secret)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:   "named providers are valid",
			mutate: func(c *Config) { c.LLM.Provider = "openai" },
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.LLM.Provider = "llamacpp" },
			wantErr: "invalid LLM provider",
		},
		{
			name:    "zero post limit",
			mutate:  func(c *Config) { c.Reddit.PostLimit = 0 },
			wantErr: "post_limit",
		},
		{
			name:    "negative comment limit",
			mutate:  func(c *Config) { c.Reddit.CommentLimit = -5 },
			wantErr: "comment_limit",
		},
		{
			name:    "empty user agent",
			mutate:  func(c *Config) { c.Reddit.UserAgent = "" },
			wantErr: "user_agent",
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.LLM.Temperature = 3.5 },
			wantErr: "temperature",
		},
		{
			name:    "zero max tokens",
			mutate:  func(c *Config) { c.LLM.MaxTokens = 0 },
			wantErr: "max_tokens",
		},
		{
			name:    "negative reddit max retries",
			mutate:  func(c *Config) { c.Reddit.MaxRetries = -1 },
			wantErr: "reddit max_retries",
		},
		{
			name:    "negative llm max retries",
			mutate:  func(c *Config) { c.LLM.MaxRetries = -2 },
			wantErr: "llm max_retries",
		},
		{
			name:   "zero retries are allowed",
			mutate: func(c *Config) { c.Reddit.MaxRetries = 0; c.LLM.MaxRetries = 0 },
		},
		{
			name:    "bad duration",
			mutate:  func(c *Config) { c.LLM.Timeout = "soon" },
			wantErr: "llm timeout",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestDurationGetters(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1*time.Second, cfg.GetRequestInterval())
	assert.Equal(t, 30*time.Second, cfg.GetRedditTimeout())
	assert.Equal(t, 120*time.Second, cfg.GetLLMTimeout())

	// Unparseable values fall back to defaults
	cfg.Reddit.RequestInterval = "whenever"
	cfg.Reddit.Timeout = "whenever"
	cfg.LLM.Timeout = "whenever"
	assert.Equal(t, 1*time.Second, cfg.GetRequestInterval())
	assert.Equal(t, 30*time.Second, cfg.GetRedditTimeout())
	assert.Equal(t, 120*time.Second, cfg.GetLLMTimeout())
}
