// Package ratings looks up IMDb ratings through the OMDb API.
//
// The lookup is optional enrichment: callers fall back to an empty rating
// when the lookup fails rather than failing their own operation.
package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"overair/internal/config"
)

// Client queries the OMDb API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a ratings client from configuration. Returns nil when
// no API key is configured; callers treat a nil client as "no enrichment".
func NewClient(cfg config.Ratings, opts ...Option) *Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type omdbResponse struct {
	Response   string `json:"Response"`
	IMDBRating string `json:"imdbRating"`
	Error      string `json:"Error"`
}

// Lookup returns the IMDb rating for a title (e.g. "7.4"). The error reports
// why no rating is available; callers are expected to fall back to an empty
// rating rather than propagate it.
func (c *Client) Lookup(ctx context.Context, title string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("ratings lookup disabled")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("title is empty")
	}

	endpoint := fmt.Sprintf("%s/?apikey=%s&t=%s", c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(title))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build ratings request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ratings request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ratings request: http %d", resp.StatusCode)
	}

	var or omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return "", fmt.Errorf("decode ratings response: %w", err)
	}
	if !strings.EqualFold(or.Response, "True") {
		return "", fmt.Errorf("ratings lookup: %s", strings.TrimSpace(or.Error))
	}
	rating := strings.TrimSpace(or.IMDBRating)
	if rating == "" || rating == "N/A" {
		return "", fmt.Errorf("ratings lookup: no rating for %q", title)
	}
	return rating, nil
}
