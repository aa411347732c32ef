package listings

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// maxProgramBatch is the largest program-id batch the service accepts per request.
	maxProgramBatch = 4500

	defaultTimeout = 30 * time.Second
	userAgent      = "overair/0.1.0"
)

// Client provides access to the remote listings service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a listings client for the supplied base URL (including the
// service version segment, e.g. https://host/20141201).
func New(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Authenticate obtains a session token for the account and retains it for
// subsequent requests. The service expects the SHA1 hex digest of the
// password, never the password itself.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	digest := sha1.Sum([]byte(password))
	body, err := json.Marshal(map[string]string{
		"username": strings.TrimSpace(username),
		"password": hex.EncodeToString(digest[:]),
	})
	if err != nil {
		return "", fmt.Errorf("encode token request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/token", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(payload, &tr); err != nil {
		return "", &AuthError{StatusCode: resp.StatusCode, Message: "malformed token response"}
	}
	if resp.StatusCode != http.StatusOK || tr.Code != 0 {
		return "", &AuthError{StatusCode: resp.StatusCode, Message: tr.Message}
	}
	if strings.TrimSpace(tr.Token) == "" {
		return "", &AuthError{StatusCode: resp.StatusCode, Message: "no token in response"}
	}

	c.token = tr.Token
	return tr.Token, nil
}

// Status returns the lineups attached to the account.
func (c *Client) Status(ctx context.Context) ([]Lineup, error) {
	var sr statusResponse
	if err := c.getJSON(ctx, "/status", &sr); err != nil {
		return nil, err
	}
	if len(sr.Lineups) == 0 {
		return nil, &ProviderError{Endpoint: "/status", Message: "account has no lineups"}
	}
	return sr.Lineups, nil
}

// LineupChannels returns the station/channel map for a lineup.
func (c *Client) LineupChannels(ctx context.Context, lineupID string) ([]ChannelMapping, error) {
	endpoint := "/lineups/" + strings.TrimSpace(lineupID)
	var lr lineupResponse
	if err := c.getJSON(ctx, endpoint, &lr); err != nil {
		return nil, err
	}
	if len(lr.Map) == 0 {
		return nil, &ProviderError{Endpoint: endpoint, Message: "lineup has no channels"}
	}
	return lr.Map, nil
}

// Schedules fetches the schedule blocks for the supplied stations over the
// supplied dates (YYYY-MM-DD).
func (c *Client) Schedules(ctx context.Context, stationIDs []string, dates []string) ([]StationSchedule, error) {
	request := make([]scheduleRequest, 0, len(stationIDs))
	for _, station := range stationIDs {
		request = append(request, scheduleRequest{StationID: station, Date: dates})
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode schedules request: %w", err)
	}

	var schedules []StationSchedule
	if err := c.postJSON(ctx, "/schedules", body, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// Programs fetches program details for the supplied identifiers. Requests are
// chunked at the service's batch limit, issued sequentially, and concatenated
// in request order. A failing batch aborts the whole fetch.
func (c *Client) Programs(ctx context.Context, programIDs []string) ([]Program, error) {
	programs := make([]Program, 0, len(programIDs))
	for start := 0; start < len(programIDs); start += maxProgramBatch {
		end := start + maxProgramBatch
		if end > len(programIDs) {
			end = len(programIDs)
		}
		batch, err := c.programBatch(ctx, programIDs[start:end])
		if err != nil {
			return nil, err
		}
		programs = append(programs, batch...)
	}
	return programs, nil
}

func (c *Client) programBatch(ctx context.Context, ids []string) ([]Program, error) {
	body, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode programs request: %w", err)
	}
	var batch []Program
	if err := c.postJSON(ctx, "/programs", body, &batch); err != nil {
		return nil, err
	}
	return batch, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, endpoint, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body []byte, out any) error {
	resp, err := c.do(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, endpoint, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Endpoint: endpoint, Message: err.Error()}
	}
	return resp, nil
}

func decodeResponse(resp *http.Response, endpoint string, out any) error {
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "read response: " + err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return &ProviderError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: snippet(payload)}
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &ProviderError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	return nil
}

func snippet(payload []byte) string {
	const limit = 200
	trimmed := strings.TrimSpace(string(payload))
	if len(trimmed) > limit {
		return trimmed[:limit] + "..."
	}
	return trimmed
}
