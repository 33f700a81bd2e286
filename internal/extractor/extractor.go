package extractor

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GriffinCanCode/featurecount/internal/criteria"
	"github.com/GriffinCanCode/featurecount/internal/document"
	"github.com/GriffinCanCode/featurecount/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/featurecount/internal/logging"
	"github.com/GriffinCanCode/featurecount/internal/schema"
	"go.uber.org/zap"
)

// MergePolicy decides what happens when a metadata field has the same name
// as a feature
type MergePolicy string

const (
	// MergeMetadataWins overwrites the feature count with the metadata value
	MergeMetadataWins MergePolicy = "metadata_wins"
	// MergeFailOnCollision rejects the row with schema.ErrSchemaMismatch
	MergeFailOnCollision MergePolicy = "fail"
)

// ParseMergePolicy converts a config string to a MergePolicy
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch p := MergePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case MergeMetadataWins, MergeFailOnCollision:
		return p, nil
	case "":
		return MergeMetadataWins, nil
	default:
		return "", fmt.Errorf("unknown collision policy %q (want %s or %s)", s, MergeMetadataWins, MergeFailOnCollision)
	}
}

// Extractor counts features in documents and accumulates the rows
type Extractor struct {
	criteria *criteria.Store
	engine   *Engine
	merge    MergePolicy
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	rows     []Row
}

// Option configures an Extractor
type Option func(*Extractor)

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(x *Extractor) { x.logger = logger }
}

// WithMetrics records per-document metrics
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(x *Extractor) { x.metrics = metrics }
}

// WithMergePolicy sets the metadata collision policy
func WithMergePolicy(policy MergePolicy) Option {
	return func(x *Extractor) { x.merge = policy }
}

// New creates an extractor over store. A nil store starts empty.
func New(store *criteria.Store, opts ...Option) *Extractor {
	if store == nil {
		store = criteria.NewStore()
	}

	x := &Extractor{
		criteria: store,
		merge:    MergeMetadataWins,
		engine:   NewEngine(),
	}
	for _, opt := range opts {
		opt(x)
	}
	if x.logger == nil {
		x.logger = logging.NewNop()
	}
	return x
}

// NewFromConfig creates an extractor with criteria loaded from a config file
func NewFromConfig(path string, opts ...Option) (*Extractor, error) {
	store, err := criteria.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(store, opts...), nil
}

// Criteria returns the extractor's criteria store
func (x *Extractor) Criteria() *criteria.Store {
	return x.criteria
}

// AddFeature registers an XPath criterion
func (x *Extractor) AddFeature(name, query string) error {
	return x.criteria.Add(name, query)
}

// LoadFeatures appends the criteria of a config file
func (x *Extractor) LoadFeatures(path string) error {
	return criteria.LoadInto(x.criteria, path)
}

// Schema returns the column list for rows produced with the given metadata
// fields, consistent with the extractor's merge policy.
func (x *Extractor) Schema(meta []string, order schema.Order) ([]string, error) {
	if x.merge == MergeFailOnCollision {
		return schema.Assemble(x.criteria.Names(), meta, order)
	}
	return schema.AssembleMerged(x.criteria.Names(), meta, order)
}

// Extract counts features in src and overlays metadata without recording
// the row.
func (x *Extractor) Extract(src document.Source, metadata map[string]string) (Row, error) {
	timer := monitoring.NewTimer(x.metrics)
	row, size, err := x.extract(src, metadata)
	return x.finish(timer, row, size, err, zap.Stringer("source", src.Kind()))
}

// Accumulate counts features in src, overlays metadata and appends the row
// to the result sequence. Nothing is appended on error.
func (x *Extractor) Accumulate(src document.Source, metadata map[string]string) (Row, error) {
	timer := monitoring.NewTimer(x.metrics)
	row, size, err := x.extract(src, metadata)
	if err == nil {
		x.rows = append(x.rows, row)
	}
	return x.finish(timer, row, size, err, zap.Stringer("source", src.Kind()))
}

// AccumulateText accumulates in-memory markup
func (x *Extractor) AccumulateText(text string, metadata map[string]string) (Row, error) {
	return x.Accumulate(document.FromText(text), metadata)
}

// AccumulateBytes accumulates an in-memory byte slice
func (x *Extractor) AccumulateBytes(data []byte, metadata map[string]string) (Row, error) {
	return x.Accumulate(document.FromBytes(data), metadata)
}

// AccumulateReader accumulates an open stream
func (x *Extractor) AccumulateReader(r io.Reader, metadata map[string]string) (Row, error) {
	return x.Accumulate(document.FromReader(r), metadata)
}

// AccumulateFile opens, accumulates and closes the file at path
func (x *Extractor) AccumulateFile(path string, metadata map[string]string) (Row, error) {
	timer := monitoring.NewTimer(x.metrics)
	row, size, err := x.accumulateFile(path, metadata)
	return x.finish(timer, row, size, err, zap.String("file", path))
}

// Rows returns the accumulated rows in processing order
func (x *Extractor) Rows() []Row {
	out := make([]Row, len(x.rows))
	for i, row := range x.rows {
		out[i] = row.Clone()
	}
	return out
}

// Len returns the number of accumulated rows
func (x *Extractor) Len() int {
	return len(x.rows)
}

// Reset discards accumulated rows; criteria are kept
func (x *Extractor) Reset() {
	x.rows = nil
}

func (x *Extractor) finish(timer *monitoring.Timer, row Row, size int, err error, fields ...zap.Field) (Row, error) {
	if err != nil {
		timer.Stop(monitoring.StatusFailed, size)
		x.logger.Debug("Document failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	elapsed := timer.Stop(monitoring.StatusOK, size)
	x.logger.Debug("Document counted", append(fields, zap.Int("bytes", size), zap.Duration("elapsed", elapsed))...)
	return row.Clone(), nil
}

// accumulateFile appends the row on success. Metrics are left to the
// caller, which knows whether a failure is fatal or skipped.
func (x *Extractor) accumulateFile(path string, metadata map[string]string) (Row, int, error) {
	doc, err := document.ParseFile(path)
	if err != nil {
		return nil, 0, err
	}

	row, err := x.count(doc, metadata)
	if err != nil {
		return nil, doc.Size, err
	}

	x.rows = append(x.rows, row)
	return row, doc.Size, nil
}

func (x *Extractor) extract(src document.Source, metadata map[string]string) (Row, int, error) {
	doc, err := document.Parse(src)
	if err != nil {
		return nil, 0, err
	}

	row, err := x.count(doc, metadata)
	if err != nil {
		return nil, doc.Size, err
	}
	return row, doc.Size, nil
}

// count evaluates the criteria on doc and merges metadata into the row
func (x *Extractor) count(doc *document.Document, metadata map[string]string) (Row, error) {
	row, err := x.engine.Count(x.criteria, doc)
	if err != nil {
		var qe *QueryError
		if errors.As(err, &qe) {
			x.metrics.RecordQueryError(qe.Feature)
		}
		return nil, err
	}

	if err := mergeMetadata(row, metadata, x.merge); err != nil {
		return nil, err
	}
	return row, nil
}

// mergeMetadata overlays metadata onto row. Collisions are checked before
// any write so a rejected row is never half merged.
func mergeMetadata(row Row, metadata map[string]string, policy MergePolicy) error {
	if policy == MergeFailOnCollision {
		for key := range metadata {
			if _, clash := row[key]; clash {
				return fmt.Errorf("%w: metadata field %q collides with a feature", schema.ErrSchemaMismatch, key)
			}
		}
	}

	for key, value := range metadata {
		row[key] = value
	}
	return nil
}
