package index

import (
	"github.com/kailas-cloud/memdex/internal/domain/document"
)

// Entry is the in-memory searchable representation of one context record.
// Entries are immutable after construction: updates replace the whole entry,
// which is what lets readers hold entries across a concurrent rebuild.
type Entry struct {
	doc       document.Document
	tokens    []string
	tokenSet  map[string]struct{}
	embedding []float32
}

// NewEntry derives an Entry from a context record. The token stream comes
// from title + content; embedding may be nil when no provider is configured.
func NewEntry(doc document.Document, embedding []float32) *Entry {
	tokens := Tokenize(doc.Title() + " " + doc.Content())
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return &Entry{doc: doc, tokens: tokens, tokenSet: set, embedding: embedding}
}

// ID returns the context identifier.
func (e *Entry) ID() string { return e.doc.ID() }

// Document returns the source context record.
func (e *Entry) Document() document.Document { return e.doc }

// Tokens returns the normalized, stop-word-filtered token stream.
func (e *Entry) Tokens() []string { return e.tokens }

// HasToken reports exact membership in the token stream.
func (e *Entry) HasToken(tok string) bool {
	_, ok := e.tokenSet[tok]
	return ok
}

// Embedding returns the embedding vector (nil without a provider).
func (e *Entry) Embedding() []float32 { return e.embedding }
