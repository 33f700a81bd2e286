package extractor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/featurecount/internal/document"
	"github.com/GriffinCanCode/featurecount/internal/infrastructure/monitoring"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// Metadata fields set on every row of a directory scan
const (
	MetaPath = "path"
	MetaFile = "file"
)

// DefaultExtension selects the files a directory scan visits
const DefaultExtension = ".html"

// DefaultMetaFields returns the metadata columns of a directory scan.
// A new slice is returned on every call.
func DefaultMetaFields() []string {
	return []string{MetaPath, MetaFile}
}

// ErrorPolicy decides what a directory scan does with a bad document
type ErrorPolicy string

const (
	PolicyAbort ErrorPolicy = "abort"
	PolicySkip  ErrorPolicy = "skip"
)

// ParseErrorPolicy converts a config string to an ErrorPolicy
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch p := ErrorPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyAbort, PolicySkip:
		return p, nil
	case "":
		return PolicyAbort, nil
	default:
		return "", fmt.Errorf("unknown error policy %q (want %s or %s)", s, PolicyAbort, PolicySkip)
	}
}

// ScanOptions controls a directory scan
type ScanOptions struct {
	Extension string      // file name suffix, default ".html"
	Pattern   string      // optional doublestar glob on the path relative to the scan root
	Policy    ErrorPolicy // abort or skip on a bad document
	Sorted    bool        // process files in lexical order
	Recursive bool        // descend into subdirectories
}

// DefaultScanOptions returns the defaults: ".html", abort, sorted, flat
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Extension: DefaultExtension,
		Policy:    PolicyAbort,
		Sorted:    true,
	}
}

// ScanOption modifies ScanOptions
type ScanOption func(*ScanOptions)

// WithExtension sets the file name suffix filter
func WithExtension(ext string) ScanOption {
	return func(o *ScanOptions) { o.Extension = ext }
}

// WithPattern adds a glob filter, e.g. "**/article-*.html"
func WithPattern(pattern string) ScanOption {
	return func(o *ScanOptions) { o.Pattern = pattern }
}

// WithErrorPolicy sets the bad-document policy
func WithErrorPolicy(policy ErrorPolicy) ScanOption {
	return func(o *ScanOptions) { o.Policy = policy }
}

// WithSorted toggles lexical ordering; false keeps directory order
func WithSorted(sorted bool) ScanOption {
	return func(o *ScanOptions) { o.Sorted = sorted }
}

// WithRecursive toggles descending into subdirectories
func WithRecursive(recursive bool) ScanOption {
	return func(o *ScanOptions) { o.Recursive = recursive }
}

// WithScanOptions replaces all options at once
func WithScanOptions(opts ScanOptions) ScanOption {
	return func(o *ScanOptions) { *o = opts }
}

// Skipped records a document left out under PolicySkip
type Skipped struct {
	Path string
	File string
	Err  error
}

// ScanResult holds the rows and skips of one directory scan
type ScanResult struct {
	Rows    []Row
	Skipped []Skipped
}

type docEntry struct {
	dir  string // value of the "path" column
	name string // value of the "file" column
	full string
}

// AggregateDirectory accumulates every matching file in dir. Under
// PolicyAbort the first bad document stops the scan; the returned result
// then holds the rows processed before it. Rows are also appended to the
// extractor's result sequence.
func (x *Extractor) AggregateDirectory(ctx context.Context, dir string, opts ...ScanOption) (*ScanResult, error) {
	o := DefaultScanOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Pattern != "" && !doublestar.ValidatePattern(o.Pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", o.Pattern, doublestar.ErrBadPattern)
	}
	if o.Policy == "" {
		o.Policy = PolicyAbort
	}

	entries, err := listDocuments(ctx, dir, o)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &ScanResult{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		metadata := map[string]string{MetaPath: e.dir, MetaFile: e.name}
		timer := monitoring.NewTimer(x.metrics)
		row, size, err := x.accumulateFile(e.full, metadata)
		if err != nil {
			if o.Policy == PolicySkip && IsDocumentError(err) {
				timer.Stop(monitoring.StatusSkipped, size)
				x.logger.Warn("Skipped document", zap.String("file", e.full), zap.Error(err))
				result.Skipped = append(result.Skipped, Skipped{Path: e.dir, File: e.name, Err: err})
				continue
			}
			timer.Stop(monitoring.StatusFailed, size)
			return result, fmt.Errorf("%s: %w", e.full, err)
		}

		elapsed := timer.Stop(monitoring.StatusOK, size)
		x.logger.Debug("Document counted", zap.String("file", e.full), zap.Duration("elapsed", elapsed))
		result.Rows = append(result.Rows, row.Clone())
	}

	x.logger.Info("Directory aggregated",
		zap.String("dir", dir),
		zap.Int("rows", len(result.Rows)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// IsDocumentError reports whether err is confined to one document and may
// be skipped
func IsDocumentError(err error) bool {
	return errors.Is(err, document.ErrDocumentParse) || errors.Is(err, ErrQueryEvaluation)
}

func listDocuments(ctx context.Context, dir string, o ScanOptions) ([]docEntry, error) {
	if o.Recursive {
		return walkDocuments(ctx, dir, o)
	}

	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dirEntries, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}

	var entries []docEntry
	for _, d := range dirEntries {
		if d.IsDir() || !o.matches(d.Name()) {
			continue
		}
		entries = append(entries, docEntry{dir: dir, name: d.Name(), full: filepath.Join(dir, d.Name())})
	}

	if o.Sorted {
		sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	}
	return entries, nil
}

// walkDocuments collects matching files below dir. fastwalk invokes the
// callback from several goroutines.
func walkDocuments(ctx context.Context, dir string, o ScanOptions) ([]docEntry, error) {
	var (
		mu      sync.Mutex
		entries []docEntry
		rels    = make(map[string]string)
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil || !o.matches(rel) {
			return nil
		}

		parent := dir
		if sub := filepath.Dir(rel); sub != "." {
			parent = filepath.Join(dir, sub)
		}

		mu.Lock()
		entries = append(entries, docEntry{dir: parent, name: d.Name(), full: path})
		rels[path] = filepath.ToSlash(rel)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if o.Sorted {
		sort.Slice(entries, func(i, j int) bool { return rels[entries[i].full] < rels[entries[j].full] })
	}
	return entries, nil
}

// matches applies the extension and glob filters to a slash or OS path
// relative to the scan root
func (o ScanOptions) matches(rel string) bool {
	if !strings.HasSuffix(rel, o.Extension) {
		return false
	}
	if o.Pattern == "" {
		return true
	}
	ok, err := doublestar.Match(o.Pattern, filepath.ToSlash(rel))
	return err == nil && ok
}
