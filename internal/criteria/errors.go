package criteria

import "errors"

var (
	// ErrDuplicateName is returned when a criterion name is already registered.
	ErrDuplicateName = errors.New("duplicate feature name")

	// ErrInvalidQuery is returned for an empty query or an unknown dialect.
	ErrInvalidQuery = errors.New("invalid query expression")

	// ErrInvalidName is returned for an empty feature name.
	ErrInvalidName = errors.New("invalid feature name")

	// ErrNotFound is returned when looking up an unregistered name.
	ErrNotFound = errors.New("feature not found")

	// ErrConfigFormat is returned when a criteria config cannot be read or
	// does not have the expected layout.
	ErrConfigFormat = errors.New("invalid criteria config")
)
