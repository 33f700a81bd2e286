// Package table writes extracted rows as a flat dataset.
//
// The header is the column list assembled by package schema. Every row is
// validated against it before anything is written, so a partially written
// record never reaches the output.
//
// Formats:
//   - csv:   comma separated, header line first
//   - tsv:   tab separated, header line first
//   - jsonl: one JSON object per row, keys in column order
package table
