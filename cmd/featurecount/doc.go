// Package main is the entry point for the featurecount CLI.
//
// Usage:
//
//	# Count features in every .html file of a directory
//	featurecount extract --criteria features.yaml --dir ./pages > rows.csv
//
//	# Print the output columns
//	featurecount schema --criteria features.yaml
//
//	# Serve counting over HTTP
//	featurecount serve --criteria features.yaml --port 8000
//
// Configuration:
//   - Environment variables (FEATURECOUNT_*, LOG_LEVEL, PORT, HOST)
//   - CLI flags (override env vars)
package main
