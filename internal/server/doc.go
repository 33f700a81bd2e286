// Package server exposes feature counting over HTTP.
//
// Routes:
//   - POST /count:  request body is one HTML document, query parameters
//     become metadata, response is the row as JSON
//   - GET /schema:  column list for the loaded criteria
//   - GET /health:  readiness and feature names
//   - GET /metrics: Prometheus exposition, when a gatherer is configured
//
// Every response carries an X-Request-ID header.
//
// Example Usage:
//
//	srv, err := server.New(server.Config{Extractor: x, Logger: logger, Metrics: m, Gatherer: reg})
//	if err := srv.Run(ctx, cfg.Server.Address()); err != nil {
//	    return err
//	}
package server
