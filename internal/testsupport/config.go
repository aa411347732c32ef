// Package testsupport provides shared helpers for overair tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"overair/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp paths per test.
// Provider credentials default to placeholder values so validation passes.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Provider.Username = "test"
	cfg.Provider.Password = "test"
	cfg.Database.Path = filepath.Join(base, "overair.db")
	cfg.Logging.Dir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithProviderBaseURL points the listings client at a test server.
func WithProviderBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Provider.BaseURL = url
	}
}

// WithSchedulePolicy overrides the schedule reconciliation policy.
func WithSchedulePolicy(policy string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sync.SchedulePolicy = policy
	}
}
