package core

import "errors"

// Common errors.
var (
	ErrReadOnly = errors.New("board is in read-only mode")
	ErrDecode   = errors.New("malformed snapshot")
	ErrNotFound = errors.New("snapshot not found")
	ErrPersist  = errors.New("failed to persist snapshot")
)
