package listings

import (
	"fmt"
	"strings"
)

// AuthError indicates the listings service rejected the account credentials
// or returned no token. It is fatal for the sync cycle.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "authentication rejected"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("listings auth: http %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("listings auth: %s", msg)
}

// ProviderError indicates a non-success response or a structurally empty
// result from the listings service. It is fatal for the affected step.
type ProviderError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "request failed"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("listings %s: http %d: %s", e.Endpoint, e.StatusCode, msg)
	}
	return fmt.Sprintf("listings %s: %s", e.Endpoint, msg)
}
