// Package scoring asks a local LLM whether an upcoming airing is worth recording.
package scoring

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

// Request carries the airing details the judgment prompt is built from.
type Request struct {
	Title       string
	Description string
	Rating      string // optional IMDb rating enrichment, may be empty
	Start       time.Time
	Criteria    string
}

// Verdict is the model's recording decision.
type Verdict struct {
	Record bool
	Reason string
}

// Client wraps the Ollama chat API.
type Client struct {
	baseURL    string
	model      string
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

// NewClient constructs a scoring client from configuration.
func NewClient(cfg config.Scoring, opts ...Option) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		model:      strings.TrimSpace(cfg.Model),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Judge asks the model for a yes/no recording decision on one airing. The
// model's answer text is returned verbatim as the reason.
func (c *Client) Judge(ctx context.Context, req Request) (Verdict, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: buildPrompt(req)}},
		Stream:   false,
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return Verdict{}, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Verdict{}, fmt.Errorf("scoring request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return Verdict{}, fmt.Errorf("scoring request: http %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Verdict{}, fmt.Errorf("decode chat response: %w", err)
	}

	reason := strings.TrimSpace(cr.Message.Content)
	if reason == "" {
		return Verdict{}, fmt.Errorf("scoring request: empty model response")
	}
	return Verdict{
		Record: strings.Contains(strings.ToLower(reason), "yes"),
		Reason: reason,
	}, nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Upcoming OTA TV program:\n")
	b.WriteString("Title: " + req.Title + "\n")
	b.WriteString("Description: " + req.Description + "\n")
	if req.Rating != "" {
		b.WriteString("IMDb rating: " + req.Rating + "\n")
	}
	if !req.Start.IsZero() {
		b.WriteString("Start: " + req.Start.Local().Format("2006-01-02 15:04") + "\n")
	}
	fmt.Fprintf(&b, "Is this worth recording (%s)? Answer ONLY Yes or No + short reason.", req.Criteria)
	return b.String()
}
