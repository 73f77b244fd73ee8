package leaderboarddb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAmountOutOfRange indicates a fee that does not fit the bigint column.
	ErrAmountOutOfRange = errors.New("fee amount out of range")

	// ErrDuplicateRequest indicates a fee receipt for the same game request exists.
	ErrDuplicateRequest = errors.New("duplicate game request")
)
