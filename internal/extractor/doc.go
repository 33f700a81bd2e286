// Package extractor counts criteria matches in documents and accumulates
// one row per document.
//
// The pieces, leaf first:
//   - Engine evaluates every criterion of a store against a parsed document
//     and returns a Row of match counts.
//   - Extractor owns a store and an append-only result sequence. Accumulate
//     counts one document, overlays caller metadata and appends the row.
//   - AggregateDirectory drives Accumulate over the matching files of a
//     directory, tagging each row with its "path" and "file".
//
// Example Usage:
//
//	x, err := extractor.NewFromConfig("config/features.json")
//	if err != nil {
//		return err
//	}
//	res, err := x.AggregateDirectory(ctx, "data",
//		extractor.WithErrorPolicy(extractor.PolicySkip))
//	cols, _ := x.Schema(extractor.DefaultMetaFields(), schema.MetadataFirst)
package extractor
