// Package dvr creates recording entries on a Tvheadend server.
//
// This is thin I/O glue around POST /api/dvr/entry/create; the interesting
// decisions (what to record) live with the caller.
package dvr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"overair/internal/config"
)

// Entry describes one recording to create.
type Entry struct {
	Channel string // Tvheadend channel name or UUID
	Start   int64  // unix seconds
	Stop    int64  // unix seconds
	Title   string
	Comment string
}

// Client talks to the Tvheadend DVR API.
type Client struct {
	baseURL    string
	username   string
	password   string
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

// NewClient constructs a DVR client from configuration.
func NewClient(cfg config.DVR, opts ...Option) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		username:   strings.TrimSpace(cfg.Username),
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// ScheduleRecording creates a DVR entry for the supplied airing.
func (c *Client) ScheduleRecording(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(map[string]any{
		"enabled": true,
		"channel": entry.Channel,
		"start":   entry.Start,
		"stop":    entry.Stop,
		"title":   map[string]string{"en": entry.Title},
		"comment": entry.Comment,
	})
	if err != nil {
		return fmt.Errorf("encode dvr entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/dvr/entry/create", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build dvr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create dvr entry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("create dvr entry: http %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
