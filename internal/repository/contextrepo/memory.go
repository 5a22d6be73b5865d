package contextrepo

import (
	"context"
	"sync"

	"github.com/kailas-cloud/memdex/internal/domain"
	"github.com/kailas-cloud/memdex/internal/domain/document"
)

// Memory is an in-process context repository for the single-binary driver
// and for tests. Same contract as Redis.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]document.Document
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]document.Document)}
}

// Ping always succeeds.
func (m *Memory) Ping(_ context.Context) error { return nil }

// Save stores or replaces a context record.
func (m *Memory) Save(_ context.Context, doc document.Document) error {
	m.mu.Lock()
	m.docs[doc.ID()] = doc
	m.mu.Unlock()
	return nil
}

// Get retrieves one context record.
func (m *Memory) Get(_ context.Context, id string) (document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return document.Document{}, domain.ErrNotFound
	}
	return doc, nil
}

// Delete removes one context record.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

// ListAll enumerates every stored context record.
func (m *Memory) ListAll(_ context.Context) ([]document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := make([]document.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}
