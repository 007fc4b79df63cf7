package domain

import "errors"

// Sentinel errors shared across layers. All are local, recoverable
// conditions; callers decide user-facing messaging.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidThreshold  = errors.New("critical threshold must be below low threshold")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict with concurrent modification")
)
