// Package main implements the personagen CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"personagen/internal/config"
)

const version = "0.1.0"

var (
	// Global flags
	verbose    bool
	configPath string
	envFile    string
	runTimeout time.Duration

	// Shared state built in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "personagen",
	Short: "personagen - Reddit user persona builder",
	Long: `personagen builds a natural-language persona for a Reddit account
from its public posts and comments.

It fetches the account's newest history through the Reddit API, asks an
LLM provider (OpenAI, Anthropic, or Gemini) to write a persona with
citations, and falls back to an offline word-frequency and sentiment
analyzer when no provider is reachable. Personas land in
outputs/<username>_persona.txt.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Credentials come from the environment; load the env file first
		// so config overrides and API keys see it. Missing files are fine.
		_ = godotenv.Load(envFile)

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file with API credentials")
	rootCmd.PersistentFlags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "Overall run timeout")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
