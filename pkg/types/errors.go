package types

import "errors"

// Store error taxonomy. TieredStore absorbs ErrUnavailable entirely,
// converting it into a tier transition; every other kind propagates to
// the caller untouched.
var (
	// ErrUnavailable means the remote tier could not be reached
	// (network failure, missing or rejected credentials). Non-fatal:
	// it triggers fallback to the local tier.
	ErrUnavailable = errors.New("remote store unavailable")

	// ErrNotFound means no record exists with the given id. Expected
	// during normal operation; callers decide how to react.
	ErrNotFound = errors.New("record not found")

	// ErrMalformedRecord means a persisted document could not be
	// decoded into its entity: a required field is missing or has the
	// wrong shape. Listing operations skip and log such records rather
	// than failing wholesale.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrRemote means the remote store rejected an otherwise deliverable
	// operation. Surfaced to the caller, never retried.
	ErrRemote = errors.New("remote store error")
)

// Entity validation errors.
var (
	ErrInvalidPriority = errors.New("invalid priority value")
	ErrInvalidSource   = errors.New("invalid plan source value")
	ErrInvalidEvent    = errors.New("invalid event type value")
	ErrEmptyTitle      = errors.New("title must not be empty")
)
