// Package apperr defines the error taxonomy shared across layers.
package apperr

import "errors"

var (
	// ErrInvalidArgument marks requests rejected before touching the store
	// (empty query, missing required field). Never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks operations targeting a nonexistent node or edge.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a duplicate node id on create.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable marks underlying persistence failures.
	ErrUnavailable = errors.New("store unavailable")
)
