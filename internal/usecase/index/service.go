package index

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/memdex/internal/domain"
	"github.com/kailas-cloud/memdex/internal/domain/document"
	idxstore "github.com/kailas-cloud/memdex/internal/index"
	"github.com/kailas-cloud/memdex/internal/metrics"
)

// DefaultStaleInterval is how old an index may get before a query or timer
// tick triggers a rebuild.
const DefaultStaleInterval = 5 * time.Minute

// DefaultEmbedBatchSize is the number of texts vectorized per provider call
// during a rebuild.
const DefaultEmbedBatchSize = 64

// Config holds index lifecycle settings.
type Config struct {
	StaleInterval  time.Duration
	EmbedBatchSize int
}

// ApplyDefaults fills zero fields with default values.
func (c *Config) ApplyDefaults() {
	if c.StaleInterval <= 0 {
		c.StaleInterval = DefaultStaleInterval
	}
	if c.EmbedBatchSize <= 0 {
		c.EmbedBatchSize = DefaultEmbedBatchSize
	}
}

// Stats extends index statistics with the lifecycle state.
type Stats struct {
	idxstore.Stats
	Rebuilding bool
}

// Service is the index lifecycle manager. It owns the only rebuild guard:
// at most one rebuild runs at a time, concurrent triggers are logged no-ops.
// A failed rebuild retains the previous index (fail-safe, not fail-empty)
// and notifies subscribers.
type Service struct {
	store     *idxstore.Store
	snapshots SnapshotProvider
	embed     domain.Embedder
	cfg       Config
	logger    *zap.Logger

	rebuilding atomic.Bool

	obsMu     sync.RWMutex
	observers []func(Event)
}

// New creates a lifecycle service. embed may be nil (lexical-only mode).
func New(
	store *idxstore.Store, snapshots SnapshotProvider,
	embed domain.Embedder, cfg Config, logger *zap.Logger,
) *Service {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, snapshots: snapshots, embed: embed, cfg: cfg, logger: logger}
}

// Subscribe registers a lifecycle event callback. Callbacks run synchronously
// on the rebuilding goroutine and must not block.
func (s *Service) Subscribe(fn func(Event)) {
	s.obsMu.Lock()
	s.observers = append(s.observers, fn)
	s.obsMu.Unlock()
}

// Rebuild loads the full context snapshot and atomically swaps in a freshly
// built index. A second concurrent call is a no-op returning
// domain.ErrRebuildInProgress. On snapshot failure the previous index is kept
// and the error is surfaced to both the caller and subscribers.
func (s *Service) Rebuild(ctx context.Context) error {
	if !s.rebuilding.CompareAndSwap(false, true) {
		s.logger.Info("index rebuild already in flight, skipping trigger")
		metrics.ObserveRebuildSkipped()
		s.publish(Event{Type: EventRebuildSkipped, Time: time.Now().UTC()})
		return domain.ErrRebuildInProgress
	}
	defer s.rebuilding.Store(false)

	start := time.Now()
	s.publish(Event{Type: EventRebuildStarted, Time: start.UTC()})
	s.logger.Info("index rebuild started")

	docs, err := s.snapshots.ListAll(ctx)
	if err != nil {
		return s.failRebuild(fmt.Errorf("%w: list contexts: %w", domain.ErrSnapshotUnavailable, err))
	}

	entries, err := s.buildEntries(ctx, docs)
	if err != nil {
		return s.failRebuild(fmt.Errorf("build entries: %w", err))
	}

	s.store.Rebuild(entries)

	duration := time.Since(start)
	metrics.ObserveRebuild("completed", duration, len(entries))
	s.publish(Event{
		Type: EventRebuildCompleted, EntryCount: len(entries),
		Duration: duration, Time: time.Now().UTC(),
	})
	s.logger.Info("index rebuild completed",
		zap.Int("entries", len(entries)),
		zap.Duration("duration", duration),
	)
	return nil
}

// RebuildIfStale starts an asynchronous rebuild when the index is older than
// the stale interval. Non-blocking; safe to call from the query path.
func (s *Service) RebuildIfStale() {
	if !s.IsStale() || s.rebuilding.Load() {
		return
	}
	go func() {
		if err := s.Rebuild(context.Background()); err != nil {
			s.logger.Warn("stale-triggered rebuild failed", zap.Error(err))
		}
	}()
}

// IsStale reports whether the index is due for a rebuild.
func (s *Service) IsStale() bool {
	last := s.store.LastRebuild()
	return last.IsZero() || time.Since(last) > s.cfg.StaleInterval
}

// IndexDocument inserts or replaces one entry (incremental path, called by
// the CRUD layer after a write).
func (s *Service) IndexDocument(ctx context.Context, doc document.Document) error {
	emb, err := s.embedOne(ctx, doc)
	if err != nil {
		return err
	}
	entry := idxstore.NewEntry(withTokenCount(doc), emb)
	s.store.IndexOne(entry)
	return nil
}

// RemoveDocument deletes one entry. Returns whether it existed.
func (s *Service) RemoveDocument(id string) bool {
	return s.store.Remove(id)
}

// Stats returns index statistics plus the lifecycle state.
func (s *Service) Stats() Stats {
	return Stats{Stats: s.store.Stats(), Rebuilding: s.rebuilding.Load()}
}

func (s *Service) failRebuild(err error) error {
	metrics.ObserveRebuild("failed", 0, 0)
	s.publish(Event{Type: EventRebuildFailed, Err: err, Time: time.Now().UTC()})
	s.logger.Error("index rebuild failed, previous index retained", zap.Error(err))
	return err
}

func (s *Service) publish(e Event) {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	for _, fn := range s.observers {
		fn(e)
	}
}

// buildEntries derives index entries from the snapshot, batch-embedding when
// a provider is configured. A provider outage downgrades the whole batch to
// lexical-only entries; a dimension mismatch aborts the rebuild.
func (s *Service) buildEntries(ctx context.Context, docs []document.Document) ([]*idxstore.Entry, error) {
	vectors := s.embedBatch(ctx, docs)

	entries := make([]*idxstore.Entry, 0, len(docs))
	for i, doc := range docs {
		var vec []float32
		if vectors != nil {
			vec = vectors[i]
			if want := s.embed.Dimensions(); want > 0 && vec != nil && len(vec) != want {
				return nil, domain.NewDimensionMismatch(want, len(vec))
			}
		}
		entries = append(entries, idxstore.NewEntry(withTokenCount(doc), vec))
	}
	return entries, nil
}

// embedBatch vectorizes all documents, chunked by the configured batch size.
// Returns nil (lexical-only) when no provider is configured or the provider
// fails.
func (s *Service) embedBatch(ctx context.Context, docs []document.Document) [][]float32 {
	if s.embed == nil || len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = embedText(doc)
	}

	vectors := make([][]float32, 0, len(docs))
	for start := 0; start < len(texts); start += s.cfg.EmbedBatchSize {
		end := min(start+s.cfg.EmbedBatchSize, len(texts))

		var res domain.BatchEmbeddingResult
		var err error
		if be, ok := s.embed.(domain.BatchEmbedder); ok {
			res, err = be.BatchEmbed(ctx, texts[start:end])
		} else {
			res, err = domain.BatchFallback(ctx, s.embed, texts[start:end])
		}
		if err != nil {
			s.logger.Warn("batch embedding failed, building lexical-only index", zap.Error(err))
			return nil
		}
		vectors = append(vectors, res.Embeddings...)
	}
	return vectors
}

// embedOne vectorizes a single document. Provider outage degrades to a
// lexical-only entry.
func (s *Service) embedOne(ctx context.Context, doc document.Document) ([]float32, error) {
	if s.embed == nil {
		return nil, nil
	}
	res, err := s.embed.Embed(ctx, embedText(doc))
	if err != nil {
		s.logger.Warn("embedding failed, indexing without vector",
			zap.String("id", doc.ID()), zap.Error(err))
		return nil, nil
	}
	if want := s.embed.Dimensions(); want > 0 && len(res.Embedding) != want {
		return nil, domain.NewDimensionMismatch(want, len(res.Embedding))
	}
	return res.Embedding, nil
}

func embedText(doc document.Document) string {
	return doc.Title() + "\n" + doc.Content()
}

// withTokenCount backfills the stored token count from the normalized token
// stream when the record does not carry one.
func withTokenCount(doc document.Document) document.Document {
	if doc.TokenCount() > 0 {
		return doc
	}
	return doc.WithTokenCount(len(idxstore.Tokenize(doc.Title() + " " + doc.Content())))
}
