// Package config provides 12-factor configuration for featurecount.
//
// Configuration is loaded from environment variables with defaults.
// CLI flags override environment values.
//
// Configuration Sections:
//   - Extract: criteria file, scan filter, error policy, column order, output format
//   - Server: HTTP listener for the counting endpoint
//   - Logging: log level and output format
//
// Example Usage:
//
//	cfg, err := config.Load()
//	opts, err := cfg.Extract.ScanOptions()
//
// Environment Variables:
//   - FEATURECOUNT_CRITERIA, FEATURECOUNT_EXTENSION, FEATURECOUNT_PATTERN
//   - FEATURECOUNT_ERROR_POLICY, FEATURECOUNT_COLUMN_ORDER, FEATURECOUNT_COLLISION
//   - FEATURECOUNT_SORT, FEATURECOUNT_RECURSIVE, FEATURECOUNT_FORMAT
//   - PORT, HOST, LOG_LEVEL, LOG_DEV
package config
