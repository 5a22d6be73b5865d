package index

import (
	"sync"
	"time"

	"github.com/kailas-cloud/memdex/internal/domain/search/filter"
)

// Stats describes the current index contents.
type Stats struct {
	EntryCount        int
	TotalTokens       int
	AvgTokensPerEntry float64
	LastRebuildTime   time.Time
}

// Store holds the in-memory index. It never persists across restarts; it is
// rebuilt from the external context snapshot.
//
// Rebuilds follow a build-into-new-map-then-swap discipline: the entry map
// under the mutex is replaced wholesale, never cleared in place, so a reader
// observes either the old or the new complete index. Entries are immutable,
// which makes the candidate slices handed to scorers safe to use lock-free.
type Store struct {
	mu          sync.RWMutex
	entries     map[string]*Entry
	totalTokens int
	lastRebuild time.Time
}

// NewStore creates an empty index store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Rebuild atomically replaces the whole index with the given entries.
// Idempotent: rebuilding from an unchanged snapshot yields an equal index.
func (s *Store) Rebuild(entries []*Entry) {
	m := make(map[string]*Entry, len(entries))
	tokens := 0
	for _, e := range entries {
		if prev, ok := m[e.ID()]; ok {
			tokens -= len(prev.tokens)
		}
		m[e.ID()] = e
		tokens += len(e.tokens)
	}

	s.mu.Lock()
	s.entries = m
	s.totalTokens = tokens
	s.lastRebuild = time.Now().UTC()
	s.mu.Unlock()
}

// IndexOne inserts or replaces a single entry (incremental update path).
func (s *Store) IndexOne(e *Entry) {
	s.mu.Lock()
	if prev, ok := s.entries[e.ID()]; ok {
		s.totalTokens -= len(prev.tokens)
	}
	s.entries[e.ID()] = e
	s.totalTokens += len(e.tokens)
	s.mu.Unlock()
}

// Remove deletes an entry. Returns whether it existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return false
	}
	s.totalTokens -= len(e.tokens)
	delete(s.entries, id)
	return true
}

// Get returns the entry for id, if present.
func (s *Store) Get(id string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Candidates returns a point-in-time slice of entries passing the filter.
// The slice is owned by the caller; the entries in it are immutable.
func (s *Store) Candidates(f filter.Filter) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		doc := e.Document()
		if f.Matches(doc.Type(), doc.Tags(), doc.OwnerID(), doc.UpdatedAt()) {
			out = append(out, e)
		}
	}
	return out
}

// Size returns the number of indexed entries.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// LastRebuild returns when the index was last rebuilt (zero before the first).
func (s *Store) LastRebuild() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRebuild
}

// Stats returns aggregate index statistics.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		EntryCount:      len(s.entries),
		TotalTokens:     s.totalTokens,
		LastRebuildTime: s.lastRebuild,
	}
	if st.EntryCount > 0 {
		st.AvgTokensPerEntry = float64(st.TotalTokens) / float64(st.EntryCount)
	}
	return st
}
