package core

import "github.com/google/uuid"

// NewID generates a new unique identifier for tasks and crew runs.
func NewID() string { return uuid.NewString() }
