// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON entries for machine parsing
//   - Development: console lines, coloured on a terminal
//
// Output defaults to stderr so that a table written to stdout is never
// interleaved with log lines.
//
// Example Usage:
//
//	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
//	logger = logger.WithRun(id.NewRunID())
//	logger.Warn("Skipped document", zap.String("file", name), zap.Error(err))
package logging
