package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Reddit caps listing pages at 100 items.
const maxPageSize = 100

var (
	// ErrUserNotFound is returned when /about yields a 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserForbidden is returned when the profile is suspended or private.
	ErrUserForbidden = errors.New("user profile is private or suspended")
)

// Config holds configuration for the Reddit API client.
type Config struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	BaseURL      string
	TokenURL     string
	Timeout      time.Duration
	MinInterval  time.Duration
	MaxRetries   int
	Logger       *zap.Logger
}

// DefaultClientConfig returns sensible defaults for a script app.
func DefaultClientConfig(clientID, clientSecret string) Config {
	return Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		UserAgent:    "personagen/0.1",
		BaseURL:      "https://oauth.reddit.com",
		TokenURL:     "https://www.reddit.com/api/v1/access_token",
		Timeout:      30 * time.Second,
		MinInterval:  1 * time.Second,
		MaxRetries:   3,
	}
}

// Client talks to the Reddit data API using the script-app
// client-credentials flow. The oauth2 transport fetches and refreshes the
// bearer token; every request (token requests included) carries the
// configured User-Agent, which Reddit requires.
type Client struct {
	baseURL     string
	userAgent   string
	maxRetries  int
	minInterval time.Duration
	httpClient  *http.Client
	logger      *zap.Logger

	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient creates a Reddit client from config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("reddit credentials not configured (set REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET in your environment or .env)")
	}

	defaults := DefaultClientConfig(cfg.ClientID, cfg.ClientSecret)
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaults.TokenURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	base := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &userAgentTransport{
			agent: cfg.UserAgent,
			base:  http.DefaultTransport,
		},
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	authCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	httpClient := cc.Client(authCtx)
	httpClient.Timeout = cfg.Timeout

	return &Client{
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		maxRetries:  cfg.MaxRetries,
		minInterval: cfg.MinInterval,
		httpClient:  httpClient,
		logger:      cfg.Logger,
	}, nil
}

// userAgentTransport stamps the User-Agent on every outgoing request.
type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.agent)
	return t.base.RoundTrip(clone)
}

// Lookup fetches /user/{name}/about and confirms the account exists.
func (c *Client) Lookup(ctx context.Context, username string) (*Account, error) {
	body, err := c.get(ctx, "/user/"+url.PathEscape(username)+"/about", nil)
	if err != nil {
		return nil, fmt.Errorf("lookup u/%s: %w", username, err)
	}

	var env aboutEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode about for u/%s: %w", username, err)
	}
	if env.Data.IsSuspended {
		return nil, fmt.Errorf("lookup u/%s: %w", username, ErrUserForbidden)
	}

	return &Account{
		ID:           env.Data.ID,
		Name:         env.Data.Name,
		Created:      fromUnixUTC(env.Data.CreatedUTC),
		LinkKarma:    env.Data.LinkKarma,
		CommentKarma: env.Data.CommentKarma,
	}, nil
}

// UserPosts returns up to limit of the user's newest submissions.
func (c *Client) UserPosts(ctx context.Context, username string, limit int) ([]Content, error) {
	return c.listing(ctx, username, "submitted", limit)
}

// UserComments returns up to limit of the user's newest comments.
func (c *Client) UserComments(ctx context.Context, username string, limit int) ([]Content, error) {
	return c.listing(ctx, username, "comments", limit)
}

// listing pages through /user/{name}/{feed} with the after cursor until
// limit items are collected or the listing ends.
func (c *Client) listing(ctx context.Context, username, feed string, limit int) ([]Content, error) {
	if limit <= 0 {
		return nil, nil
	}

	initial := limit
	if initial > maxPageSize {
		initial = maxPageSize
	}
	items := make([]Content, 0, initial)
	after := ""
	for len(items) < limit {
		page := limit - len(items)
		if page > maxPageSize {
			page = maxPageSize
		}
		query := url.Values{}
		query.Set("limit", strconv.Itoa(page))
		if after != "" {
			query.Set("after", after)
		}

		body, err := c.get(ctx, "/user/"+url.PathEscape(username)+"/"+feed, query)
		if err != nil {
			return nil, fmt.Errorf("fetch %s for u/%s: %w", feed, username, err)
		}

		var env listingEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode %s listing for u/%s: %w", feed, username, err)
		}
		if len(env.Data.Children) == 0 {
			break
		}

		for _, child := range env.Data.Children {
			items = append(items, child.content())
			if len(items) == limit {
				break
			}
		}

		c.logger.Debug("fetched listing page",
			zap.String("username", username),
			zap.String("feed", feed),
			zap.Int("page_items", len(env.Data.Children)),
			zap.Int("total", len(items)))

		after = env.Data.After
		if after == "" {
			break
		}
	}

	return items, nil
}

// get performs one API GET with politeness spacing and a retry loop for
// rate limits and server errors. raw_json=1 goes on every request so
// Reddit returns unescaped bodies.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("raw_json", "1")
	u := c.baseURL + path + "?" + query.Encode()

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Exponential backoff: 1s, 2s, 4s
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(1<<uint(i-1)) * time.Second):
			}
		}
		c.wait()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrUserNotFound
		case resp.StatusCode == http.StatusForbidden:
			return nil, ErrUserForbidden
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limit exceeded (429)")
			continue
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server error (%d)", resp.StatusCode)
			continue
		default:
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncateBody(body))
		}
	}

	return nil, fmt.Errorf("giving up after %d attempts: %w", c.maxRetries+1, lastErr)
}

// wait enforces the minimum interval between requests.
func (c *Client) wait() {
	if c.minInterval <= 0 {
		return
	}
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < c.minInterval {
		time.Sleep(c.minInterval - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "..."
}
