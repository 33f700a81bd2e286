package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/GriffinCanCode/featurecount/internal/document"
	"github.com/GriffinCanCode/featurecount/internal/extractor"
	"github.com/GriffinCanCode/featurecount/internal/schema"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	extractor *extractor.Extractor
	meta      []string
}

// NewHandlers creates a new handler set
func NewHandlers(x *extractor.Extractor, meta []string) *Handlers {
	return &Handlers{
		extractor: x,
		meta:      append([]string(nil), meta...),
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "featurecount",
	})
}

// Health reports readiness and the loaded feature names
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"features": h.extractor.Criteria().Names(),
	})
}

// Schema returns the column list for the configured metadata.
// The "meta" query parameter overrides it, "order" picks the column order.
func (h *Handlers) Schema(c *gin.Context) {
	order, err := schema.ParseOrder(c.Query("order"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta := h.meta
	if raw, ok := c.GetQuery("meta"); ok {
		meta = splitList(raw)
	}

	columns, err := h.extractor.Schema(meta, order)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

// Count parses the request body as one document and returns its row.
// Query parameters become metadata fields.
func (h *Handlers) Count(c *gin.Context) {
	metadata := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			metadata[key] = values[0]
		}
	}

	row, err := h.extractor.Extract(document.FromReader(c.Request.Body), metadata)
	if err != nil {
		c.JSON(statusFor(err), gin.H{
			"error":      err.Error(),
			"request_id": c.GetString(requestIDKey),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"row":        row,
		"request_id": c.GetString(requestIDKey),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, document.ErrDocumentParse), errors.Is(err, extractor.ErrQueryEvaluation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, schema.ErrSchemaMismatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
