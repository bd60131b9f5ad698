package core

import "errors"

var (
	// ErrNotFound is returned by Directory lookups when the record is missing.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateParam is returned when two fragments of a Selection bind
	// the same parameter name.
	ErrDuplicateParam = errors.New("duplicate selection parameter")

	// ErrUnboundParam is returned when a fragment references a parameter
	// that was never bound, or a bound parameter is never referenced.
	ErrUnboundParam = errors.New("unbound selection parameter")
)
