package domain

import "errors"

var (
	// ErrParseFailure means the README could not be tokenized.
	// No partial list is produced.
	ErrParseFailure = errors.New("cannot parse source document")

	// ErrCorruptPreviousState means a stored list is structurally unusable
	// as the previous version of a compare.
	ErrCorruptPreviousState = errors.New("cannot compare versions: corrupt previous state")

	// ErrListNotFound is returned by stores when no list exists for an id.
	ErrListNotFound = errors.New("list not found")

	// ErrFetchFailure means the upstream document could not be retrieved.
	ErrFetchFailure = errors.New("cannot fetch source document")
)
