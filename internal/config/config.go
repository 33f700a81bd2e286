package config

import (
	"fmt"

	"github.com/GriffinCanCode/featurecount/internal/extractor"
	"github.com/GriffinCanCode/featurecount/internal/schema"
	"github.com/GriffinCanCode/featurecount/internal/table"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Extract ExtractConfig
	Server  ServerConfig
	Logging LogConfig
}

// ExtractConfig holds extraction run settings.
type ExtractConfig struct {
	Criteria    string `envconfig:"FEATURECOUNT_CRITERIA"`
	Extension   string `envconfig:"FEATURECOUNT_EXTENSION" default:".html"`
	ErrorPolicy string `envconfig:"FEATURECOUNT_ERROR_POLICY" default:"abort"`
	ColumnOrder string `envconfig:"FEATURECOUNT_COLUMN_ORDER" default:"metadata_first"`
	Collision   string `envconfig:"FEATURECOUNT_COLLISION" default:"metadata_wins"`
	Sorted      bool   `envconfig:"FEATURECOUNT_SORT" default:"true"`
	Recursive   bool   `envconfig:"FEATURECOUNT_RECURSIVE" default:"false"`
	Pattern     string `envconfig:"FEATURECOUNT_PATTERN"`
	Format      string `envconfig:"FEATURECOUNT_FORMAT" default:"csv"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			Extension:   extractor.DefaultExtension,
			ErrorPolicy: string(extractor.PolicyAbort),
			ColumnOrder: string(schema.MetadataFirst),
			Collision:   string(extractor.MergeMetadataWins),
			Sorted:      true,
			Format:      string(table.FormatCSV),
		},
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}

// Validate rejects unknown enum values.
func (c *Config) Validate() error {
	if _, err := extractor.ParseErrorPolicy(c.Extract.ErrorPolicy); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := schema.ParseOrder(c.Extract.ColumnOrder); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := extractor.ParseMergePolicy(c.Extract.Collision); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := table.ParseFormat(c.Extract.Format); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ScanOptions converts the extract settings into directory scan options.
func (c ExtractConfig) ScanOptions() (extractor.ScanOptions, error) {
	policy, err := extractor.ParseErrorPolicy(c.ErrorPolicy)
	if err != nil {
		return extractor.ScanOptions{}, err
	}
	ext := c.Extension
	if ext == "" {
		ext = extractor.DefaultExtension
	}
	return extractor.ScanOptions{
		Extension: ext,
		Pattern:   c.Pattern,
		Policy:    policy,
		Sorted:    c.Sorted,
		Recursive: c.Recursive,
	}, nil
}

// Address returns host:port for the HTTP listener.
func (s ServerConfig) Address() string {
	return s.Host + ":" + s.Port
}
