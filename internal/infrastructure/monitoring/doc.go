/*
Package monitoring provides Prometheus metrics for extraction runs and the
counting endpoint.

# Metrics

  - featurecount_documents_total{status}: documents by outcome (ok, skipped, failed)
  - featurecount_document_duration_seconds: parse and count time per document
  - featurecount_document_size_bytes: decoded document size
  - featurecount_query_errors_total{feature}: query evaluation failures
  - featurecount_http_requests_total / _duration_seconds: counting endpoint traffic

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	timer := monitoring.NewTimer(metrics)
	// ... parse and count ...
	timer.Stop(monitoring.StatusOK, doc.Size)

A batch run can dump the registry with prometheus.WriteToTextfile; the
server exposes it with promhttp:

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
*/
package monitoring
