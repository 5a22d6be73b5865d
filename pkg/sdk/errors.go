package memdex

import "github.com/kailas-cloud/memdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrInvalidInput           = domain.ErrInvalidInput
	ErrAlreadyExists          = domain.ErrAlreadyExists
	ErrDimensionMismatch      = domain.ErrDimensionMismatch
	ErrRebuildInProgress      = domain.ErrRebuildInProgress
	ErrSnapshotUnavailable    = domain.ErrSnapshotUnavailable
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
