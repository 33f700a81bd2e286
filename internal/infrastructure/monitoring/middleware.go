package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Timer measures the processing time of one document
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer starts a timer
func NewTimer(metrics *Metrics) *Timer {
	return &Timer{start: time.Now(), metrics: metrics}
}

// Stop records the document outcome and returns the elapsed time
func (t *Timer) Stop(status string, size int) time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.RecordDocument(status, elapsed, size)
	return elapsed
}
