package cmd

import (
	"github.com/GriffinCanCode/featurecount/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/featurecount/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve feature counting over HTTP",
		Long: `Start an HTTP server that counts the loaded criteria in documents
posted to /count. Query parameters of the request become metadata
columns of the returned row.

Routes: POST /count, GET /schema, GET /health, GET /metrics`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	addCommonFlags(cmd)
	cmd.Flags().String("host", "", "Listen host (default 0.0.0.0)")
	cmd.Flags().String("port", "", "Listen port (default 8000)")
	cmd.Flags().StringSlice("meta", nil, "Metadata column names reported by /schema")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd, cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(reg)

	x, err := newExtractor(cfg, logger, metrics)
	if err != nil {
		return err
	}
	meta, _ := cmd.Flags().GetStringSlice("meta")

	srv, err := server.New(server.Config{
		Extractor: x,
		Logger:    logger,
		Metrics:   metrics,
		Gatherer:  reg,
		Meta:      meta,
	})
	if err != nil {
		return err
	}

	logger.Info("Criteria loaded", zap.Strings("features", x.Criteria().Names()))
	return srv.Run(cmd.Context(), cfg.Server.Address())
}
