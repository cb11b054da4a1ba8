package persona

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"personagen/internal/llm"
)

// SourceOffline marks personas produced by the offline analyzer.
const SourceOffline = "offline-heuristic"

// Persona is a generated user description with provenance metadata.
type Persona struct {
	Username    string    `json:"username"`
	Text        string    `json:"text"`
	Source      string    `json:"source"` // model name, or SourceOffline
	Provider    string    `json:"provider,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	RunID       string    `json:"run_id"`
}

// Builder runs the LLM-first, offline-fallback persona pipeline.
type Builder struct {
	LLM           llm.Client // nil runs the offline analyzer directly
	Logger        *zap.Logger
	MaxRetries    int
	AllowFallback bool
	RunID         string // optional; generated when empty
}

// NewBuilder creates a builder with fallback enabled.
func NewBuilder(client llm.Client, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		LLM:           client,
		Logger:        logger,
		MaxRetries:    3,
		AllowFallback: true,
	}
}

// Build generates a persona for username from its fetched history.
// Provider failures fall through to the offline analyzer unless
// AllowFallback is off.
func (b *Builder) Build(ctx context.Context, username string, posts, comments []Evidence) (*Persona, error) {
	runID := b.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := b.Logger.With(zap.String("run_id", runID), zap.String("username", username))

	p := &Persona{
		Username:    username,
		Source:      SourceOffline,
		GeneratedAt: time.Now().UTC(),
		RunID:       runID,
	}

	if b.LLM != nil {
		text, err := b.generate(ctx, log, username, posts, comments)
		if err == nil {
			p.Text = text
			p.Source = b.LLM.Model()
			p.Provider = string(b.LLM.Provider())
			log.Info("persona generated",
				zap.String("provider", p.Provider),
				zap.String("model", p.Source),
				zap.Int("chars", len(p.Text)))
			return p, nil
		}

		if llm.IsQuota(err) {
			log.Warn("provider quota exhausted", zap.Error(err))
		} else {
			log.Warn("persona generation failed", zap.Error(err))
		}
		if !b.AllowFallback {
			return nil, fmt.Errorf("persona generation failed: %w", err)
		}
	}

	log.Info("running offline analyzer",
		zap.Int("posts", len(posts)),
		zap.Int("comments", len(comments)))
	p.Text = BuildFallback(posts, comments)
	return p, nil
}

func (b *Builder) generate(ctx context.Context, log *zap.Logger, username string, posts, comments []Evidence) (string, error) {
	prompt := BuildPrompt(username, posts, comments)
	log.Debug("prompt rendered",
		zap.Int("chars", len(prompt)),
		zap.Int("posts", len(posts)),
		zap.Int("comments", len(comments)))

	return llm.WithRetry(ctx, b.MaxRetries, func() (string, error) {
		return b.LLM.CompleteWithSystem(ctx, SystemPrompt(), prompt)
	})
}
