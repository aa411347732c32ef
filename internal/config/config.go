package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Database contains local catalog storage settings.
type Database struct {
	Path string `toml:"path"`
}

// Provider contains connection settings for the remote listings service.
type Provider struct {
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	BaseURL        string `toml:"base_url"`
	Lineup         string `toml:"lineup"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Sync contains settings for the listings synchronization cycle.
type Sync struct {
	// Days is the forward-looking schedule window fetched per cycle.
	Days int `toml:"days"`
	// SchedulePolicy controls how an airing already stored at the same
	// channel and start time is handled: "ignore" keeps the stored row,
	// "upsert" refreshes its end time.
	SchedulePolicy   string `toml:"schedule_policy"`
	PersistSchedules bool   `toml:"persist_schedules"`
}

// DVR contains Tvheadend connection settings for recording creation.
type DVR struct {
	Enabled        bool   `toml:"enabled"`
	URL            string `toml:"url"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Scoring contains settings for the local LLM that judges airings.
type Scoring struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Criteria       string `toml:"criteria"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Ratings contains settings for the optional IMDb rating enrichment lookup.
type Ratings struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Tracking contains settings for the MLflow experiment-tracking sink.
type Tracking struct {
	URL        string `toml:"url"`
	Experiment string `toml:"experiment"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for overair.
//
// Configuration sections by subsystem:
//   - Database: local SQLite catalog location
//   - Provider: remote listings service credentials and endpoint
//   - Sync: schedule window and reconciliation policy
//   - DVR: Tvheadend recording integration
//   - Scoring: local LLM judging of upcoming airings
//   - Ratings: optional IMDb rating enrichment
//   - Tracking: MLflow run metrics
//   - Logging: log format, level, and directory
type Config struct {
	Database Database `toml:"database"`
	Provider Provider `toml:"provider"`
	Sync     Sync     `toml:"sync"`
	DVR      DVR      `toml:"dvr"`
	Scoring  Scoring  `toml:"scoring"`
	Ratings  Ratings  `toml:"ratings"`
	Tracking Tracking `toml:"tracking"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/overair/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and environment overrides applied. A missing
// file is not an error: defaults plus environment variables apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	projectPath, err := filepath.Abs("overair.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the application writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Database.Path), c.Logging.Dir}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath expands a leading ~ to the current user's home directory and
// returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(trimmed, "~"), "/"))
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
