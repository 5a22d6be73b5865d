package contexts

import (
	"context"

	"github.com/kailas-cloud/memdex/internal/domain/document"
)

// Repository is the persistence contract for context records.
type Repository interface {
	Save(ctx context.Context, doc document.Document) error
	Get(ctx context.Context, id string) (document.Document, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]document.Document, error)
}

// Indexer keeps the search index in step with writes.
type Indexer interface {
	IndexDocument(ctx context.Context, doc document.Document) error
	RemoveDocument(id string) bool
}
