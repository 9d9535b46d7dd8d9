// Package imgsearch provides the image search collaborator, a thin client
// for a Pixabay-style HTTP API. Absence of a result is not an error.
package imgsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the Pixabay image search endpoint.
const DefaultBaseURL = "https://pixabay.com/api/"

// DefaultTimeout bounds one search call.
const DefaultTimeout = 10 * time.Second

// Opts holds configuration options for the image search client.
type Opts struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// Option defines a configuration option for the image search client.
type Option func(*Opts)

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithBaseURL overrides the search endpoint (used by tests).
func WithBaseURL(base string) Option {
	return func(o *Opts) { o.BaseURL = base }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Opts) { o.Client = c }
}

// Client queries the image search API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates an image search client, applying any provided options.
func NewClient(opts ...Option) *Client {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: DefaultTimeout}
	}
	slog.Debug("imgsearch client created", "base_url", cfg.BaseURL, "api_key_set", cfg.APIKey != "")
	return &Client{apiKey: cfg.APIKey, baseURL: cfg.BaseURL, http: cfg.Client}
}

// searchResponse is the subset of the provider payload we read.
type searchResponse struct {
	Hits []struct {
		WebformatURL string `json:"webformatURL"`
	} `json:"hits"`
}

// Search returns the URL of the first hit for the query, or an empty URL
// when the provider has nothing. A missing API key behaves as "no result"
// so the command path never fails outwardly.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if c.apiKey == "" || query == "" {
		return "", nil
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", query)
	q.Set("per_page", "3")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("image search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image search returned status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}
	if len(payload.Hits) == 0 {
		slog.Debug("imgsearch: no hits", "query", query)
		return "", nil
	}
	return payload.Hits[0].WebformatURL, nil
}
