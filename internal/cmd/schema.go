package cmd

import (
	"fmt"

	"github.com/GriffinCanCode/featurecount/internal/extractor"
	"github.com/GriffinCanCode/featurecount/internal/logging"
	"github.com/GriffinCanCode/featurecount/internal/schema"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the output columns for a criteria file",
		Long: `Print the column names an extract run would produce, one per line,
in output order. Use --meta to list metadata columns other than the
default "path" and "file".`,
		Args: cobra.NoArgs,
		RunE: runSchema,
	}

	addCommonFlags(cmd)
	cmd.Flags().StringSlice("meta", extractor.DefaultMetaFields(), "Metadata column names")

	return cmd
}

func runSchema(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	x, err := newExtractor(cfg, logging.NewNop(), nil)
	if err != nil {
		return err
	}

	order, err := schema.ParseOrder(cfg.Extract.ColumnOrder)
	if err != nil {
		return err
	}
	meta, _ := cmd.Flags().GetStringSlice("meta")

	columns, err := x.Schema(meta, order)
	if err != nil {
		return err
	}
	for _, col := range columns {
		fmt.Fprintln(cmd.OutOrStdout(), col)
	}
	return nil
}
