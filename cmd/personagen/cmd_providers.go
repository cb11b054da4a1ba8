package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"personagen/internal/llm"
)

// providersCmd shows which LLM providers are usable right now.
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show LLM provider detection status",
	Long: `Lists the supported LLM providers, whether their API key is present in
the environment, and which one a build would use. Detection order is
OpenAI, then Anthropic, then Gemini.`,
	RunE: runProviders,
}

func runProviders(cmd *cobra.Command, args []string) error {
	fmt.Println("🔑 LLM Providers")
	fmt.Println(strings.Repeat("─", 50))

	for _, p := range llm.Providers() {
		envVar := llm.KeyEnvVar(p)
		status := "❌ not set"
		if key := os.Getenv(envVar); key != "" {
			status = "✓ " + maskKey(key)
		}
		fmt.Printf("%-10s %-20s %s\n", p, envVar, status)
		fmt.Printf("%-10s default model: %s\n", "", llm.DefaultModel(p))
	}

	fmt.Println(strings.Repeat("─", 50))

	if cfg.LLM.Provider != "" {
		model := cfg.LLM.Model
		if model == "" {
			model = llm.DefaultModel(llm.Provider(cfg.LLM.Provider))
		}
		fmt.Printf("Selected: %s (%s, from config)\n", cfg.LLM.Provider, model)
		return nil
	}

	detected, err := llm.Detect()
	if err != nil {
		fmt.Println("No provider detected; builds will use the offline analyzer.")
		return nil
	}
	model := cfg.LLM.Model
	if model == "" {
		model = llm.DefaultModel(detected.Provider)
	}
	fmt.Printf("Selected: %s (%s, auto-detected)\n", detected.Provider, model)
	return nil
}

// maskKey hides all but the edges of an API key.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "set"
	}
	return key[:4] + "…" + key[len(key)-4:]
}
