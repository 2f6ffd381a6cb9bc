package domain

import "errors"

var (
	// ErrSchema is returned when a Field Index cannot be built from a header row
	ErrSchema = errors.New("schema error")

	// ErrInvariantViolation is returned when an internal consistency check fails
	// (for example an empty duplicate cluster)
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRunNotFound is returned when a run report is not found in the run store
	ErrRunNotFound = errors.New("run not found")

	// ErrSheetNotFound is returned when the requested worksheet does not exist
	ErrSheetNotFound = errors.New("worksheet not found")
)
