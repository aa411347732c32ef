// Package logging constructs slog loggers for overair.
//
// Two output formats are supported: a human-oriented console handler that
// prints a compact header line followed by indented structured fields, and a
// machine-oriented JSON handler. Output can fan out to stdout/stderr and a
// log file under the configured log directory.
package logging
