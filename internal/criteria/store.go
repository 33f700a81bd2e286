package criteria

import (
	"fmt"
	"strings"
)

// Dialect selects the query language of a criterion
type Dialect string

const (
	DialectXPath Dialect = "xpath"
	DialectCSS   Dialect = "css"
)

// Valid reports whether the dialect is supported
func (d Dialect) Valid() bool {
	return d == DialectXPath || d == DialectCSS
}

// Criterion is a named query whose match count becomes one output column
type Criterion struct {
	Name    string
	Query   string
	Dialect Dialect
}

// Store is an insertion-ordered set of criteria keyed by name.
// It is not safe for concurrent mutation; concurrent reads are fine once
// loading is done.
type Store struct {
	order []string
	byKey map[string]Criterion
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{byKey: make(map[string]Criterion)}
}

// Add registers an XPath criterion
func (s *Store) Add(name, query string) error {
	return s.AddCriterion(Criterion{Name: name, Query: query, Dialect: DialectXPath})
}

// AddCriterion registers a criterion. The store is left untouched on error.
func (s *Store) AddCriterion(c Criterion) error {
	if c.Name == "" {
		return ErrInvalidName
	}
	if _, exists := s.byKey[c.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, c.Name)
	}
	if strings.TrimSpace(c.Query) == "" {
		return fmt.Errorf("%w: feature %q has no query", ErrInvalidQuery, c.Name)
	}
	if c.Dialect == "" {
		c.Dialect = DialectXPath
	}
	if !c.Dialect.Valid() {
		return fmt.Errorf("%w: feature %q has unknown dialect %q", ErrInvalidQuery, c.Name, c.Dialect)
	}

	if s.byKey == nil {
		s.byKey = make(map[string]Criterion)
	}
	s.order = append(s.order, c.Name)
	s.byKey[c.Name] = c
	return nil
}

// Names returns feature names in insertion order
func (s *Store) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Get returns the criterion registered under name
func (s *Store) Get(name string) (Criterion, error) {
	c, ok := s.byKey[name]
	if !ok {
		return Criterion{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c, nil
}

// Criteria returns all criteria in insertion order
func (s *Store) Criteria() []Criterion {
	out := make([]Criterion, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byKey[name])
	}
	return out
}

// Len returns the number of registered criteria
func (s *Store) Len() int {
	return len(s.order)
}
