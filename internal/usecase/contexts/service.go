package contexts

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/memdex/internal/domain"
	"github.com/kailas-cloud/memdex/internal/domain/document"
)

// CreateParams are the caller-supplied fields of a new context record.
type CreateParams struct {
	ID         string // optional; generated when empty
	Title      string
	Content    string
	Type       string
	Tags       []string
	OwnerID    string
	Importance document.Importance
}

// UpdateParams are the mutable fields of a context record. Empty fields are
// left unchanged; a non-nil empty tag slice clears the tags.
type UpdateParams struct {
	Title      string
	Content    string
	Type       string
	Tags       []string
	Importance document.Importance
}

// Service handles context record CRUD and keeps the search index current.
// Index maintenance is best-effort: a failed incremental index call is
// logged, not returned, because the next rebuild repairs it.
type Service struct {
	repo    Repository
	indexer Indexer
	logger  *zap.Logger
}

// New creates a contexts service.
func New(repo Repository, indexer Indexer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, indexer: indexer, logger: logger}
}

// Create validates, persists, and indexes a new context record.
func (s *Service) Create(ctx context.Context, p CreateParams) (document.Document, error) {
	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}

	doc, err := document.New(id, p.Title, p.Content, p.Type, p.Tags, p.OwnerID, p.Importance)
	if err != nil {
		return document.Document{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	if err := s.repo.Save(ctx, doc); err != nil {
		return document.Document{}, fmt.Errorf("save context: %w", err)
	}
	s.index(ctx, doc)
	return doc, nil
}

// Get returns one context record and bumps its interaction counter
// (best-effort; the counter feeds the frequency rerank boost).
func (s *Service) Get(ctx context.Context, id string) (document.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return document.Document{}, fmt.Errorf("get context: %w", err)
	}

	touched := doc.WithInteractions(doc.Interactions() + 1)
	if err := s.repo.Save(ctx, touched); err != nil {
		s.logger.Debug("interaction bump failed", zap.String("id", id), zap.Error(err))
		return doc, nil
	}
	return touched, nil
}

// Update applies changes to an existing record, persists, and reindexes.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (document.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return document.Document{}, fmt.Errorf("get context: %w", err)
	}

	updated := doc.WithUpdate(p.Title, p.Content, p.Type, p.Tags, p.Importance)
	if err := s.repo.Save(ctx, updated); err != nil {
		return document.Document{}, fmt.Errorf("save context: %w", err)
	}
	s.index(ctx, updated)
	return updated, nil
}

// Delete removes a record from storage and from the index.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete context: %w", err)
	}
	s.indexer.RemoveDocument(id)
	return nil
}

// List returns all records, most recently updated first.
func (s *Service) List(ctx context.Context) ([]document.Document, error) {
	docs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contexts: %w", err)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UpdatedAt().After(docs[j].UpdatedAt())
	})
	return docs, nil
}

func (s *Service) index(ctx context.Context, doc document.Document) {
	if err := s.indexer.IndexDocument(ctx, doc); err != nil {
		s.logger.Warn("incremental index failed, next rebuild will repair",
			zap.String("id", doc.ID()), zap.Error(err))
	}
}
