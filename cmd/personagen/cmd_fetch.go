package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"personagen/internal/reddit"
)

var (
	fetchPosts    int
	fetchComments int
	fetchJSONPath string
)

// fetchCmd dumps a user's raw history without generating a persona.
var fetchCmd = &cobra.Command{
	Use:   "fetch <profile-url>",
	Short: "Fetch a user's history as JSON",
	Long: `Fetches the user's newest posts and comments and dumps them as JSON to
stdout, or to a file with --json. Only Reddit credentials are needed; no
LLM provider is involved.

Example:
  personagen fetch https://www.reddit.com/user/kojied/ --json kojied.json`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchPosts, "posts", 100, "Maximum posts to fetch")
	fetchCmd.Flags().IntVar(&fetchComments, "comments", 100, "Maximum comments to fetch")
	fetchCmd.Flags().StringVar(&fetchJSONPath, "json", "", "Write JSON to this file instead of stdout")
}

// historyDump is the fetch command's JSON shape.
type historyDump struct {
	Username string           `json:"username"`
	Account  *reddit.Account  `json:"account"`
	Posts    []reddit.Content `json:"posts"`
	Comments []reddit.Content `json:"comments"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	username, err := reddit.ParseProfileURL(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	log := logger.With(zap.String("username", username))

	postLimit := cfg.Reddit.PostLimit
	if cmd.Flags().Changed("posts") {
		postLimit = fetchPosts
	}
	commentLimit := cfg.Reddit.CommentLimit
	if cmd.Flags().Changed("comments") {
		commentLimit = fetchComments
	}

	rc, err := newRedditClient(log)
	if err != nil {
		return err
	}

	account, err := rc.Lookup(ctx, username)
	if err != nil {
		return err
	}
	posts, err := rc.UserPosts(ctx, username, postLimit)
	if err != nil {
		return err
	}
	comments, err := rc.UserComments(ctx, username, commentLimit)
	if err != nil {
		return err
	}
	log.Info("history fetched", zap.Int("posts", len(posts)), zap.Int("comments", len(comments)))

	dump := historyDump{
		Username: username,
		Account:  account,
		Posts:    posts,
		Comments: comments,
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	data = append(data, '\n')

	if fetchJSONPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(fetchJSONPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", fetchJSONPath, err)
	}
	fmt.Printf("✅ Wrote %d posts and %d comments to %s\n", len(posts), len(comments), fetchJSONPath)
	return nil
}
