// Package schema assembles the ordered column list of an extraction table
// and checks rows against it.
package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrSchemaMismatch is returned when columns collide or a row's keys do not
// match the assembled columns.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Order places metadata columns relative to feature columns
type Order string

const (
	MetadataFirst Order = "metadata_first"
	FeaturesFirst Order = "features_first"
)

// ParseOrder converts a config string to an Order
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case MetadataFirst, FeaturesFirst:
		return o, nil
	case "":
		return MetadataFirst, nil
	default:
		return "", fmt.Errorf("unknown column order %q (want %s or %s)", s, MetadataFirst, FeaturesFirst)
	}
}

// Assemble returns the full column list. Any name appearing twice, within
// or across the two lists, is an error.
func Assemble(features, meta []string, order Order) ([]string, error) {
	if err := checkUnique("metadata", meta); err != nil {
		return nil, err
	}
	if err := checkUnique("feature", features); err != nil {
		return nil, err
	}
	for _, name := range meta {
		if contains(features, name) {
			return nil, fmt.Errorf("%w: %q is both a feature and a metadata field", ErrSchemaMismatch, name)
		}
	}
	return join(features, meta, order)
}

// AssembleMerged is like Assemble but a feature sharing its name with a
// metadata field is folded into the metadata column, matching rows whose
// metadata overwrote that feature's count.
func AssembleMerged(features, meta []string, order Order) ([]string, error) {
	if err := checkUnique("metadata", meta); err != nil {
		return nil, err
	}
	if err := checkUnique("feature", features); err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(features))
	for _, name := range features {
		if !contains(meta, name) {
			kept = append(kept, name)
		}
	}
	return join(kept, meta, order)
}

// Collisions lists feature names that are also metadata fields
func Collisions(features, meta []string) []string {
	var out []string
	for _, name := range features {
		if contains(meta, name) {
			out = append(out, name)
		}
	}
	return out
}

// Validate checks that row has exactly the given columns as keys
func Validate[V any](columns []string, row map[string]V) error {
	var missing []string
	for _, col := range columns {
		if _, ok := row[col]; !ok {
			missing = append(missing, col)
		}
	}

	var extra []string
	if len(row) != len(columns)-len(missing) {
		for key := range row {
			if !contains(columns, key) {
				extra = append(extra, key)
			}
		}
		sort.Strings(extra)
	}

	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	return fmt.Errorf("%w: missing %v, unexpected %v", ErrSchemaMismatch, missing, extra)
}

func join(features, meta []string, order Order) ([]string, error) {
	columns := make([]string, 0, len(features)+len(meta))
	switch order {
	case MetadataFirst, "":
		columns = append(columns, meta...)
		columns = append(columns, features...)
	case FeaturesFirst:
		columns = append(columns, features...)
		columns = append(columns, meta...)
	default:
		return nil, fmt.Errorf("unknown column order %q", order)
	}
	return columns, nil
}

func checkUnique(kind string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %s column %q declared twice", ErrSchemaMismatch, kind, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
