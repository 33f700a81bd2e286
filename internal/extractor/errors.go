package extractor

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/featurecount/internal/criteria"
)

// ErrQueryEvaluation is returned when a criterion cannot be evaluated
// against a document.
var ErrQueryEvaluation = errors.New("query evaluation failed")

// QueryError reports which criterion failed. It matches ErrQueryEvaluation
// and the underlying evaluator error with errors.Is.
type QueryError struct {
	Feature string
	Query   string
	Dialect criteria.Dialect
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%v: feature %q (%s %q): %v", ErrQueryEvaluation, e.Feature, e.Dialect, e.Query, e.Err)
}

func (e *QueryError) Unwrap() []error {
	return []error{ErrQueryEvaluation, e.Err}
}
