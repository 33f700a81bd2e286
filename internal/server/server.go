package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GriffinCanCode/featurecount/internal/extractor"
	"github.com/GriffinCanCode/featurecount/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/featurecount/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Server exposes an Extractor over HTTP
type Server struct {
	router    *gin.Engine
	extractor *extractor.Extractor
	logger    *logging.Logger
	metrics   *monitoring.Metrics
}

// Config contains server dependencies
type Config struct {
	Extractor *extractor.Extractor
	Logger    *logging.Logger
	Metrics   *monitoring.Metrics
	Gatherer  prometheus.Gatherer // serves /metrics when set
	Meta      []string            // metadata columns reported by /schema
}

// New creates the router and registers routes
func New(cfg Config) (*Server, error) {
	if cfg.Extractor == nil {
		return nil, errors.New("server requires an extractor")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID(logger))
	router.Use(monitoring.Middleware(cfg.Metrics))

	h := NewHandlers(cfg.Extractor, cfg.Meta)

	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/schema", h.Schema)
	router.POST("/count", h.Count)
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	return &Server{
		router:    router,
		extractor: cfg.Extractor,
		logger:    logger,
		metrics:   cfg.Metrics,
	}, nil
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting counting server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down counting server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
