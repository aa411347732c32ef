// Package config loads, normalizes, and validates overair configuration.
//
// Configuration lives in a TOML file (default ~/.config/overair/config.toml)
// and is parsed into a single Config value that callers pass into component
// constructors. Secrets may be supplied through environment variables
// (OVERAIR_PROVIDER_USERNAME, OVERAIR_PROVIDER_PASSWORD, OVERAIR_DVR_PASSWORD,
// OVERAIR_OMDB_API_KEY) which take effect when the corresponding file value
// is empty.
package config
