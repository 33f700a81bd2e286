package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/GriffinCanCode/featurecount/internal/extractor"
	"github.com/GriffinCanCode/featurecount/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/featurecount/internal/schema"
	"github.com/GriffinCanCode/featurecount/internal/shared/id"
	"github.com/GriffinCanCode/featurecount/internal/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewExtractCommand creates the extract command
func NewExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file...]",
		Short: "Count features in HTML documents and write a table",
		Long: `Count every criterion in each document and write one row per document.

Documents come from --dir (every file with the configured extension) and
from file arguments. Each row carries "path" and "file" metadata columns.

With --policy abort (default) the first unreadable document stops the run;
rows counted before it are still written and the command exits non-zero.
With --policy skip bad documents are reported and left out.

Examples:
  featurecount extract --criteria features.yaml --dir ./pages
  featurecount extract --criteria features.json --dir ./site --recursive --pattern '**/post-*.html'
  featurecount extract --criteria features.toml page1.html page2.html --format jsonl -o rows.jsonl`,
		RunE: runExtract,
	}

	addCommonFlags(cmd)
	cmd.Flags().String("dir", "", "Directory of documents to aggregate")
	cmd.Flags().String("ext", "", "File extension filter (default .html)")
	cmd.Flags().String("pattern", "", "Glob filter on the path relative to --dir")
	cmd.Flags().String("policy", "", "Bad document policy: abort or skip")
	cmd.Flags().Bool("sort", true, "Process files in lexical order")
	cmd.Flags().Bool("recursive", false, "Descend into subdirectories of --dir")
	cmd.Flags().String("format", "", "Output format: csv, tsv or jsonl")
	cmd.Flags().StringP("output", "o", "-", "Output file, - for stdout")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file after the run")

	return cmd
}

// runSummary describes the outcome of one extract run
type runSummary struct {
	RunID   id.RunID
	Rows    int
	Skipped []extractor.Skipped
	Elapsed time.Duration
	Err     error
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" && len(args) == 0 {
		return fmt.Errorf("nothing to extract: pass --dir or file arguments")
	}

	logger, err := newLogger(cmd, cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	runID := id.NewRunID()
	logger = logger.WithRun(runID)

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	x, err := newExtractor(cfg, logger, metrics)
	if err != nil {
		return err
	}

	order, err := schema.ParseOrder(cfg.Extract.ColumnOrder)
	if err != nil {
		return err
	}
	meta := extractor.DefaultMetaFields()
	columns, err := x.Schema(meta, order)
	if err != nil {
		return err
	}
	if merge, _ := extractor.ParseMergePolicy(cfg.Extract.Collision); merge == extractor.MergeMetadataWins {
		if clash := schema.Collisions(x.Criteria().Names(), meta); len(clash) > 0 {
			logger.Warn("Metadata values replace features of the same name", zap.Strings("features", clash))
		}
	}

	opts, err := cfg.Extract.ScanOptions()
	if err != nil {
		return err
	}

	start := time.Now()
	summary := runSummary{RunID: runID}
	if dir != "" {
		result, err := x.AggregateDirectory(cmd.Context(), dir, extractor.WithScanOptions(opts))
		if result != nil {
			summary.Skipped = append(summary.Skipped, result.Skipped...)
		}
		summary.Err = err
	}
	if summary.Err == nil {
		skipped, err := accumulateFiles(x, args, opts.Policy)
		summary.Skipped = append(summary.Skipped, skipped...)
		summary.Err = err
	}
	summary.Elapsed = time.Since(start)

	written, err := writeRows(cmd, x.Rows(), columns, table.Format(cfg.Extract.Format))
	if err != nil {
		return err
	}
	summary.Rows = written

	if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
		if err := prometheus.WriteToTextfile(path, reg); err != nil {
			logger.Warn("Failed to write metrics file", zap.String("path", path), zap.Error(err))
		}
	}

	printSummary(cmd.ErrOrStderr(), summary)
	return summary.Err
}

// accumulateFiles processes explicit file arguments in the order given
func accumulateFiles(x *extractor.Extractor, paths []string, policy extractor.ErrorPolicy) ([]extractor.Skipped, error) {
	var skipped []extractor.Skipped
	for _, path := range paths {
		metadata := map[string]string{
			extractor.MetaPath: filepath.Dir(path),
			extractor.MetaFile: filepath.Base(path),
		}
		if _, err := x.AccumulateFile(path, metadata); err != nil {
			if policy == extractor.PolicySkip && extractor.IsDocumentError(err) {
				skipped = append(skipped, extractor.Skipped{Path: metadata[extractor.MetaPath], File: metadata[extractor.MetaFile], Err: err})
				continue
			}
			return skipped, fmt.Errorf("%s: %w", path, err)
		}
	}
	return skipped, nil
}

// writeRows returns the number of rows written
func writeRows(cmd *cobra.Command, rows []extractor.Row, columns []string, format table.Format) (n int, err error) {
	var out io.Writer = cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" && path != "-" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return 0, fmt.Errorf("failed to create output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}

	w, err := table.NewWriter(out, columns, format)
	if err != nil {
		return 0, err
	}
	if err := table.WriteAll(w, rows); err != nil {
		return w.Count(), err
	}
	return w.Count(), w.Flush()
}
