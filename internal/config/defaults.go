package config

const (
	defaultDatabasePath           = "~/.local/share/overair/overair.db"
	defaultLogDir                 = "~/.local/share/overair/logs"
	defaultProviderBaseURL        = "https://json.schedulesdirect.org/20141201"
	defaultProviderTimeoutSeconds = 30
	defaultSyncDays               = 4
	defaultSchedulePolicy         = "ignore"
	defaultDVRTimeoutSeconds      = 15
	defaultScoringBaseURL         = "http://localhost:11434"
	defaultScoringModel           = "mistral:7b-instruct-q5_K_M"
	defaultScoringTimeoutSeconds  = 120
	defaultScoringCriteria        = "classic horror, creature features, campy late-night movies"
	defaultRatingsBaseURL         = "https://www.omdbapi.com"
	defaultRatingsTimeoutSeconds  = 10
	defaultTrackingExperiment     = "overair"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Database: Database{
			Path: defaultDatabasePath,
		},
		Provider: Provider{
			BaseURL:        defaultProviderBaseURL,
			TimeoutSeconds: defaultProviderTimeoutSeconds,
		},
		Sync: Sync{
			Days:             defaultSyncDays,
			SchedulePolicy:   defaultSchedulePolicy,
			PersistSchedules: true,
		},
		DVR: DVR{
			TimeoutSeconds: defaultDVRTimeoutSeconds,
		},
		Scoring: Scoring{
			BaseURL:        defaultScoringBaseURL,
			Model:          defaultScoringModel,
			Criteria:       defaultScoringCriteria,
			TimeoutSeconds: defaultScoringTimeoutSeconds,
		},
		Ratings: Ratings{
			BaseURL:        defaultRatingsBaseURL,
			TimeoutSeconds: defaultRatingsTimeoutSeconds,
		},
		Tracking: Tracking{
			Experiment: defaultTrackingExperiment,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
