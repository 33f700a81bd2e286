package cmd

import (
	"errors"

	"github.com/GriffinCanCode/featurecount/internal/config"
	"github.com/GriffinCanCode/featurecount/internal/extractor"
	"github.com/GriffinCanCode/featurecount/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/featurecount/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var errNoCriteria = errors.New("no criteria file: set --criteria or FEATURECOUNT_CRITERIA")

// addCommonFlags registers the flags shared by every subcommand
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("criteria", "", "Criteria file (.json, .yaml, .yml, .toml)")
	cmd.Flags().String("order", "", "Column order: metadata_first or features_first")
	cmd.Flags().String("collision", "", "Metadata/feature name collision: metadata_wins or fail")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().Bool("log-dev", false, "Human readable console logs")
}

// loadSettings reads the environment, then applies flags the user set
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	overrideString(flags, "criteria", &cfg.Extract.Criteria)
	overrideString(flags, "ext", &cfg.Extract.Extension)
	overrideString(flags, "policy", &cfg.Extract.ErrorPolicy)
	overrideString(flags, "order", &cfg.Extract.ColumnOrder)
	overrideString(flags, "collision", &cfg.Extract.Collision)
	overrideString(flags, "pattern", &cfg.Extract.Pattern)
	overrideString(flags, "format", &cfg.Extract.Format)
	overrideBool(flags, "sort", &cfg.Extract.Sorted)
	overrideBool(flags, "recursive", &cfg.Extract.Recursive)
	overrideString(flags, "log-level", &cfg.Logging.Level)
	overrideBool(flags, "log-dev", &cfg.Logging.Development)
	overrideString(flags, "host", &cfg.Server.Host)
	overrideString(flags, "port", &cfg.Server.Port)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Extract.Criteria == "" {
		return nil, errNoCriteria
	}
	return cfg, nil
}

func overrideString(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Lookup(name) == nil || !flags.Changed(name) {
		return
	}
	if v, err := flags.GetString(name); err == nil {
		*dst = v
	}
}

func overrideBool(flags *pflag.FlagSet, name string, dst *bool) {
	if flags.Lookup(name) == nil || !flags.Changed(name) {
		return
	}
	if v, err := flags.GetBool(name); err == nil {
		*dst = v
	}
}

// newLogger writes to the command's stderr
func newLogger(cmd *cobra.Command, cfg config.LogConfig) (*logging.Logger, error) {
	return logging.New(cfg.Level, cfg.Development, logging.WithOutput(cmd.ErrOrStderr()))
}

// newExtractor loads the criteria file and applies the merge policy
func newExtractor(cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) (*extractor.Extractor, error) {
	merge, err := extractor.ParseMergePolicy(cfg.Extract.Collision)
	if err != nil {
		return nil, err
	}
	return extractor.NewFromConfig(cfg.Extract.Criteria,
		extractor.WithLogger(logger),
		extractor.WithMetrics(metrics),
		extractor.WithMergePolicy(merge),
	)
}
