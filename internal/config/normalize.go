package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeProvider()
	c.normalizeSync()
	c.normalizeDVR()
	c.normalizeScoring()
	c.normalizeRatings()
	c.normalizeTracking()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Database.Path) == "" {
		c.Database.Path = defaultDatabasePath
	}
	if c.Database.Path, err = ExpandPath(c.Database.Path); err != nil {
		return fmt.Errorf("database.path: %w", err)
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = defaultLogDir
	}
	if c.Logging.Dir, err = ExpandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProvider() {
	c.Provider.Username = strings.TrimSpace(c.Provider.Username)
	if c.Provider.Username == "" {
		if value, ok := os.LookupEnv("OVERAIR_PROVIDER_USERNAME"); ok {
			c.Provider.Username = strings.TrimSpace(value)
		}
	}
	if c.Provider.Password == "" {
		if value, ok := os.LookupEnv("OVERAIR_PROVIDER_PASSWORD"); ok {
			c.Provider.Password = value
		}
	}
	c.Provider.BaseURL = strings.TrimRight(strings.TrimSpace(c.Provider.BaseURL), "/")
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = defaultProviderBaseURL
	}
	c.Provider.Lineup = strings.TrimSpace(c.Provider.Lineup)
	if c.Provider.TimeoutSeconds <= 0 {
		c.Provider.TimeoutSeconds = defaultProviderTimeoutSeconds
	}
}

func (c *Config) normalizeSync() {
	if c.Sync.Days <= 0 {
		c.Sync.Days = defaultSyncDays
	}
	c.Sync.SchedulePolicy = strings.ToLower(strings.TrimSpace(c.Sync.SchedulePolicy))
	if c.Sync.SchedulePolicy == "" {
		c.Sync.SchedulePolicy = defaultSchedulePolicy
	}
}

func (c *Config) normalizeDVR() {
	c.DVR.URL = strings.TrimRight(strings.TrimSpace(c.DVR.URL), "/")
	c.DVR.Username = strings.TrimSpace(c.DVR.Username)
	if c.DVR.Password == "" {
		if value, ok := os.LookupEnv("OVERAIR_DVR_PASSWORD"); ok {
			c.DVR.Password = value
		}
	}
	if c.DVR.TimeoutSeconds <= 0 {
		c.DVR.TimeoutSeconds = defaultDVRTimeoutSeconds
	}
}

func (c *Config) normalizeScoring() {
	c.Scoring.BaseURL = strings.TrimRight(strings.TrimSpace(c.Scoring.BaseURL), "/")
	if c.Scoring.BaseURL == "" {
		c.Scoring.BaseURL = defaultScoringBaseURL
	}
	c.Scoring.Model = strings.TrimSpace(c.Scoring.Model)
	if c.Scoring.Model == "" {
		c.Scoring.Model = defaultScoringModel
	}
	c.Scoring.Criteria = strings.TrimSpace(c.Scoring.Criteria)
	if c.Scoring.Criteria == "" {
		c.Scoring.Criteria = defaultScoringCriteria
	}
	if c.Scoring.TimeoutSeconds <= 0 {
		c.Scoring.TimeoutSeconds = defaultScoringTimeoutSeconds
	}
}

func (c *Config) normalizeRatings() {
	c.Ratings.APIKey = strings.TrimSpace(c.Ratings.APIKey)
	if c.Ratings.APIKey == "" {
		if value, ok := os.LookupEnv("OVERAIR_OMDB_API_KEY"); ok {
			c.Ratings.APIKey = strings.TrimSpace(value)
		}
	}
	c.Ratings.BaseURL = strings.TrimRight(strings.TrimSpace(c.Ratings.BaseURL), "/")
	if c.Ratings.BaseURL == "" {
		c.Ratings.BaseURL = defaultRatingsBaseURL
	}
	if c.Ratings.TimeoutSeconds <= 0 {
		c.Ratings.TimeoutSeconds = defaultRatingsTimeoutSeconds
	}
}

func (c *Config) normalizeTracking() {
	c.Tracking.URL = strings.TrimRight(strings.TrimSpace(c.Tracking.URL), "/")
	c.Tracking.Experiment = strings.TrimSpace(c.Tracking.Experiment)
	if c.Tracking.Experiment == "" {
		c.Tracking.Experiment = defaultTrackingExperiment
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
