package artifact

import "errors"

var (
	// ErrNotFound is returned when no artifact with the given name exists.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidName is returned for empty names and names that are not a
	// single path element.
	ErrInvalidName = errors.New("invalid artifact name")
)
