package utils

import "github.com/google/uuid"

// NewID returns a server-assigned opaque identifier.
func NewID() string { return uuid.NewString() }
