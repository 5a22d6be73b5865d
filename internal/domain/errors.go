package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing context record.
	ErrNotFound = errors.New("context not found")
	// ErrInvalidInput signals a request that failed domain validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyExists signals a duplicate context record.
	ErrAlreadyExists = errors.New("already exists")
	// ErrDimensionMismatch signals mixed embedding dimensionalities.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrRebuildInProgress signals that an index rebuild is already running.
	ErrRebuildInProgress = errors.New("index rebuild already in progress")
	// ErrSnapshotUnavailable signals that the context snapshot could not be loaded.
	ErrSnapshotUnavailable = errors.New("context snapshot unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// DimensionMismatchError wraps ErrDimensionMismatch with the offending lengths.
// Mixing dimensionalities means two providers were active at once; it is a
// configuration fault, not a per-query condition.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: want %d, got %d", ErrDimensionMismatch.Error(), e.Want, e.Got)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// NewDimensionMismatch creates a dimension mismatch error.
func NewDimensionMismatch(want, got int) error {
	return &DimensionMismatchError{Want: want, Got: got}
}
