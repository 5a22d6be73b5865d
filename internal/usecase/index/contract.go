package index

import (
	"context"

	"github.com/kailas-cloud/memdex/internal/domain/document"
)

// SnapshotProvider enumerates the authoritative context records the index is
// rebuilt from.
type SnapshotProvider interface {
	ListAll(ctx context.Context) ([]document.Document, error)
	Get(ctx context.Context, id string) (document.Document, error)
}
