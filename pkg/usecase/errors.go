package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrInvalidSession = errors.New("invalid session ID")
)
