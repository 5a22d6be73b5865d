package embcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/memdex/internal/domain"
	"github.com/kailas-cloud/memdex/internal/metrics"
)

// Embedder is an expiring LRU cache decorator around an embedding provider.
// Cache hits report zero token usage since no provider call happened.
type Embedder struct {
	next  domain.Embedder
	cache *expirable.LRU[string, []float32]
}

// Wrap decorates an embedder with an LRU cache. Returns the embedder
// unchanged when caching is disabled (size or ttl <= 0) or next is nil.
func Wrap(next domain.Embedder, size int, ttl time.Duration) domain.Embedder {
	if next == nil || size <= 0 || ttl <= 0 {
		return next
	}
	return &Embedder{
		next:  next,
		cache: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

// Embed returns a cached vector when available, otherwise delegates.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if cached, ok := e.cache.Get(text); ok {
		metrics.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
		return domain.EmbeddingResult{Embedding: cloneVector(cached)}, nil
	}
	metrics.EmbeddingCacheTotal.WithLabelValues("miss").Inc()

	res, err := e.next.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	e.cache.Add(text, cloneVector(res.Embedding))
	return res, nil
}

// BatchEmbed delegates through the cache one text at a time when the inner
// provider lacks native batching; with native batching it passes through and
// backfills the cache.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	be, ok := e.next.(domain.BatchEmbedder)
	if !ok {
		return domain.BatchFallback(ctx, e, texts)
	}

	res, err := be.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err
	}
	for i, text := range texts {
		if i < len(res.Embeddings) {
			e.cache.Add(text, cloneVector(res.Embeddings[i]))
		}
	}
	return res, nil
}

// Dimensions reports the inner provider's vector dimensionality.
func (e *Embedder) Dimensions() int { return e.next.Dimensions() }

// HealthCheck delegates to the inner provider when it supports checks.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.next.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// cloneVector guards cached vectors against caller mutation.
func cloneVector(v []float32) []float32 {
	if len(v) == 0 {
		return nil
	}
	c := make([]float32, len(v))
	copy(c, v)
	return c
}
