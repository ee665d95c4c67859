package store

import "errors"

var (
	// ErrNotFound tags a lookup whose target row does not exist, as
	// opposed to a store/network failure.
	ErrNotFound = errors.New("not found")
	// ErrConflict tags a constraint violation, e.g. a duplicate
	// username or tribe slug.
	ErrConflict = errors.New("conflict")
	// ErrInvalid tags a write rejected by application-side validation
	// before it reached the store.
	ErrInvalid = errors.New("invalid input")
)
