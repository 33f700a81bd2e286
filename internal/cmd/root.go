package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for featurecount
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "featurecount",
		Short: "Count named structural features in HTML documents",
		Long: `Featurecount evaluates a set of named XPath or CSS queries against
HTML documents and emits one row per document with the number of
matches for each query, plus path and file metadata.

Criteria are loaded from a JSON, YAML or TOML file with a
"features_to_count" list. Settings are read from FEATURECOUNT_*
environment variables; flags override them.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewExtractCommand())
	cmd.AddCommand(NewSchemaCommand())
	cmd.AddCommand(NewServeCommand())

	return cmd
}
