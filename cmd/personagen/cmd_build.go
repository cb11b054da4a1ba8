package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"personagen/internal/config"
	"personagen/internal/llm"
	"personagen/internal/output"
	"personagen/internal/persona"
	"personagen/internal/reddit"
)

var (
	buildPosts    int
	buildComments int
	buildOut      string
	buildProvider string
	buildModel    string
	noFallback    bool
	fallbackOnly  bool
)

// buildCmd runs the full fetch, generate, write pipeline.
var buildCmd = &cobra.Command{
	Use:   "build <profile-url>",
	Short: "Build a persona for a Reddit user",
	Long: `Fetches the user's newest posts and comments and writes a cited persona
to the output directory.

The LLM provider comes from config or --provider; with neither set, the
environment is scanned for OPENAI_API_KEY, ANTHROPIC_API_KEY, and
GEMINI_API_KEY in that order. When no provider is reachable the offline
analyzer takes over unless --no-fallback is set.

Example:
  personagen build https://www.reddit.com/user/kojied/`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().IntVar(&buildPosts, "posts", 100, "Maximum posts to fetch")
	buildCmd.Flags().IntVar(&buildComments, "comments", 100, "Maximum comments to fetch")
	buildCmd.Flags().StringVar(&buildOut, "out", "", "Output directory (default from config)")
	buildCmd.Flags().StringVar(&buildProvider, "provider", "", "LLM provider: openai, anthropic, or gemini (default auto-detect)")
	buildCmd.Flags().StringVar(&buildModel, "model", "", "Model override for the chosen provider")
	buildCmd.Flags().BoolVar(&noFallback, "no-fallback", false, "Fail instead of falling back to the offline analyzer")
	buildCmd.Flags().BoolVar(&fallbackOnly, "fallback-only", false, "Skip the LLM and run the offline analyzer")
	buildCmd.MarkFlagsMutuallyExclusive("no-fallback", "fallback-only")
}

func runBuild(cmd *cobra.Command, args []string) error {
	username, err := reddit.ParseProfileURL(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	runID := uuid.NewString()
	log := logger.With(zap.String("run_id", runID), zap.String("username", username))

	postLimit := cfg.Reddit.PostLimit
	if cmd.Flags().Changed("posts") {
		postLimit = buildPosts
	}
	commentLimit := cfg.Reddit.CommentLimit
	if cmd.Flags().Changed("comments") {
		commentLimit = buildComments
	}
	outDir := cfg.Output.Dir
	if buildOut != "" {
		outDir = buildOut
	}

	client, err := resolveLLM(log)
	if err != nil {
		return err
	}

	fmt.Printf("🔍 Building persona for u/%s\n", username)
	fmt.Println(strings.Repeat("─", 50))

	rc, err := newRedditClient(log)
	if err != nil {
		return err
	}

	account, err := rc.Lookup(ctx, username)
	if err != nil {
		return err
	}
	log.Debug("account found",
		zap.String("id", account.ID),
		zap.Time("created", account.Created),
		zap.Int("link_karma", account.LinkKarma),
		zap.Int("comment_karma", account.CommentKarma))

	fmt.Printf("📥 Fetching up to %d posts and %d comments…\n", postLimit, commentLimit)
	posts, err := rc.UserPosts(ctx, username, postLimit)
	if err != nil {
		return err
	}
	comments, err := rc.UserComments(ctx, username, commentLimit)
	if err != nil {
		return err
	}
	fmt.Printf("   %d posts, %d comments\n", len(posts), len(comments))
	log.Info("history fetched", zap.Int("posts", len(posts)), zap.Int("comments", len(comments)))

	if len(posts) == 0 && len(comments) == 0 {
		return fmt.Errorf("no posts or comments found for u/%s; nothing to analyze", username)
	}

	if client != nil {
		fmt.Printf("🧠 Generating persona with %s (%s)…\n", client.Provider(), client.Model())
	} else {
		fmt.Println("🧮 Running offline analyzer…")
	}

	builder := persona.NewBuilder(client, logger)
	builder.MaxRetries = cfg.LLM.MaxRetries
	builder.AllowFallback = !noFallback
	builder.RunID = runID

	llmCtx, cancelLLM := context.WithTimeout(ctx, cfg.GetLLMTimeout())
	defer cancelLLM()
	p, err := builder.Build(llmCtx, username, persona.FromContent(posts), persona.FromContent(comments))
	if err != nil {
		return err
	}
	if p.Source == persona.SourceOffline && client != nil {
		fmt.Println("⚠️  Provider unavailable, used offline analyzer")
	}

	path, err := output.NewWriter(outDir).Write(p)
	if err != nil {
		return err
	}
	log.Info("persona written",
		zap.String("path", path),
		zap.Int("bytes", len(p.Text)),
		zap.String("source", p.Source))

	fmt.Println(strings.Repeat("─", 50))
	fmt.Printf("✅ Persona written to %s (%d bytes, source: %s)\n", path, len(p.Text), p.Source)
	return nil
}

// resolveLLM builds the provider client for this run. nil means the
// offline analyzer runs instead; with --no-fallback an unusable provider
// is an error.
func resolveLLM(log *zap.Logger) (llm.Client, error) {
	if fallbackOnly {
		log.Debug("offline analyzer forced by flag")
		return nil, nil
	}

	providerCfg := &llm.ProviderConfig{
		Provider:    llm.Provider(cfg.LLM.Provider),
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}
	if buildProvider != "" {
		providerCfg.Provider = llm.Provider(buildProvider)
	}
	if buildModel != "" {
		providerCfg.Model = buildModel
	}

	// A misspelled provider name is a usage error, not a reason to fall back.
	if providerCfg.Provider != "" && llm.KeyEnvVar(providerCfg.Provider) == "" {
		return nil, fmt.Errorf("unknown provider: %s (valid: openai, anthropic, gemini)", providerCfg.Provider)
	}

	client, err := llm.New(providerCfg)
	if err != nil {
		if noFallback {
			return nil, err
		}
		log.Warn("no LLM provider available", zap.Error(err))
		return nil, nil
	}

	log.Debug("provider selected",
		zap.String("provider", string(client.Provider())),
		zap.String("model", client.Model()))
	return client, nil
}

// newRedditClient wires the API client from config and env credentials.
func newRedditClient(log *zap.Logger) (*reddit.Client, error) {
	clientID, clientSecret := config.RedditCredentials()
	return reddit.NewClient(reddit.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		UserAgent:    cfg.Reddit.UserAgent,
		BaseURL:      cfg.Reddit.BaseURL,
		TokenURL:     cfg.Reddit.TokenURL,
		Timeout:      cfg.GetRedditTimeout(),
		MinInterval:  cfg.GetRequestInterval(),
		MaxRetries:   cfg.Reddit.MaxRetries,
		Logger:       log,
	})
}
