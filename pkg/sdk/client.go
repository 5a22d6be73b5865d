package memdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/memdex/internal/domain"
	"github.com/kailas-cloud/memdex/internal/domain/document"
	"github.com/kailas-cloud/memdex/internal/domain/search/request"
	"github.com/kailas-cloud/memdex/internal/domain/search/result"
	idxstore "github.com/kailas-cloud/memdex/internal/index"
	"github.com/kailas-cloud/memdex/internal/repository/contextrepo"
	"github.com/kailas-cloud/memdex/internal/repository/embcache"
	openaiTransport "github.com/kailas-cloud/memdex/internal/transport/openai"
	contextsuc "github.com/kailas-cloud/memdex/internal/usecase/contexts"
	healthuc "github.com/kailas-cloud/memdex/internal/usecase/health"
	indexuc "github.com/kailas-cloud/memdex/internal/usecase/index"
	searchuc "github.com/kailas-cloud/memdex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Внутренние интерфейсы для подмены в тестах.
type contextsUseCase interface {
	Create(ctx context.Context, p contextsuc.CreateParams) (document.Document, error)
	Get(ctx context.Context, id string) (document.Document, error)
	Update(ctx context.Context, id string, p contextsuc.UpdateParams) (document.Document, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]document.Document, error)
}

type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (*result.Response, error)
	Suggest(ctx context.Context, partial string, limit int) []string
}

type indexUseCase interface {
	Rebuild(ctx context.Context) error
	Stats() indexuc.Stats
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// contextStore is what the client needs from a context repository.
type contextStore interface {
	contextsuc.Repository
	Ping(ctx context.Context) error
}

// Client is the memdex embedded client entry point. It is safe for
// concurrent use.
type Client struct {
	store    contextStore
	contexts contextsUseCase
	search   searchUseCase
	index    indexUseCase
	health   healthUseCase
	closeFn  func()
}

// New creates a memdex Client and builds the initial search index. The
// provided context bounds the readiness check and the initial rebuild.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: "memory"}
	for _, o := range opts {
		o.apply(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store, closeFn, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	embedder, err := createEmbedder(cfg, logger)
	if err != nil {
		closeFn()
		return nil, err
	}
	embedder = embcache.Wrap(embedder, cfg.cacheSize, cfg.cacheTTL)

	idx := idxstore.NewStore()
	lifecycle := indexuc.New(idx, store, embedder,
		indexuc.Config{StaleInterval: cfg.staleInterval}, logger)

	searchCfg := searchuc.DefaultConfig()
	if cfg.hybridLexical > 0 || cfg.hybridSemantic > 0 {
		searchCfg.Hybrid = searchuc.HybridWeights{
			Lexical:  cfg.hybridLexical,
			Semantic: cfg.hybridSemantic,
		}
	}
	if cfg.semanticThreshold > 0 {
		searchCfg.SemanticThreshold = cfg.semanticThreshold
	}
	searchSvc := searchuc.New(idx, embedder, lifecycle, searchCfg, logger)
	contextsSvc := contextsuc.New(store, lifecycle, logger)
	healthSvc := healthuc.New(store, embeddingChecker(embedder))

	c := &Client{
		store:    store,
		contexts: contextsSvc,
		search:   searchSvc,
		index:    lifecycle,
		health:   healthSvc,
		closeFn:  closeFn,
	}

	// Index the existing snapshot. A rebuild failure is not fatal: the
	// engine serves from an empty index until the next rebuild succeeds.
	if err := lifecycle.Rebuild(ctx); err != nil {
		logger.Warn("initial index rebuild failed", zap.Error(err))
	}
	return c, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (contextStore, func(), error) {
	switch cfg.driver {
	case "memory":
		return contextrepo.NewMemory(), func() {}, nil
	case "redis":
		s, err := contextrepo.NewRedis(contextrepo.RedisConfig{
			Addrs:     cfg.addrs,
			Username:  cfg.username,
			Password:  cfg.password,
			DB:        cfg.db,
			KeyPrefix: cfg.keyPrefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("memdex: create redis store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("memdex: redis not ready: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("memdex: unknown driver %q", cfg.driver)
	}
}

func createEmbedder(cfg *clientConfig, logger *zap.Logger) (domain.Embedder, error) {
	if cfg.embedder != nil && cfg.openAIModel != "" {
		return nil, errors.New("memdex: WithEmbedder and WithOpenAI are mutually exclusive")
	}
	if cfg.embedder != nil {
		return &embedderAdapter{inner: cfg.embedder}, nil
	}
	if cfg.openAIModel != "" {
		return openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.openAIKey,
			BaseURL:    cfg.openAIBaseURL,
			Model:      cfg.openAIModel,
			Dimensions: cfg.openAIDim,
			Provider:   "openai",
			Logger:     logger,
		}), nil
	}
	return nil, nil // lexical-only mode
}

// Close releases all resources.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Ping checks storage connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Health reports per-component health.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	out := HealthStatus{
		Status: string(report.Status),
		Checks: make(map[string]string, len(report.Checks)),
	}
	for name, res := range report.Checks {
		out.Checks[name] = string(res)
	}
	return out
}

// Create validates, stores, and indexes a new context record. The stored
// record (with generated fields populated) is returned.
func (c *Client) Create(ctx context.Context, rec Context) (Context, error) {
	doc, err := c.contexts.Create(ctx, contextsuc.CreateParams{
		ID:         rec.ID,
		Title:      rec.Title,
		Content:    rec.Content,
		Type:       rec.Type,
		Tags:       rec.Tags,
		OwnerID:    rec.OwnerID,
		Importance: document.Importance(rec.Importance),
	})
	if err != nil {
		return Context{}, err
	}
	return fromDocument(doc), nil
}

// Get returns a stored context record by id and counts the access as an
// interaction.
func (c *Client) Get(ctx context.Context, id string) (Context, error) {
	doc, err := c.contexts.Get(ctx, id)
	if err != nil {
		return Context{}, err
	}
	return fromDocument(doc), nil
}

// Update applies the non-zero fields of u to a stored record and reindexes it.
func (c *Client) Update(ctx context.Context, id string, u ContextUpdate) (Context, error) {
	doc, err := c.contexts.Update(ctx, id, contextsuc.UpdateParams{
		Title:      u.Title,
		Content:    u.Content,
		Type:       u.Type,
		Tags:       u.Tags,
		Importance: document.Importance(u.Importance),
	})
	if err != nil {
		return Context{}, err
	}
	return fromDocument(doc), nil
}

// Delete removes a record from storage and from the search index.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.contexts.Delete(ctx, id)
}

// List returns all stored records, most recently updated first.
func (c *Client) List(ctx context.Context) ([]Context, error) {
	docs, err := c.contexts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Context, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDocument(d))
	}
	return out, nil
}

// Search runs one query end to end: filtering, lexical and (when an
// embedder is configured) semantic scoring, optional rerank, sorting,
// pagination and the requested extras.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	domReq, err := toRequest(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	resp, err := c.search.Search(ctx, &domReq)
	if err != nil {
		return nil, err
	}
	return fromResponse(resp), nil
}

// Suggest returns up to limit query completions for a partial input, drawn
// from indexed titles and tags.
func (c *Client) Suggest(ctx context.Context, partial string, limit int) []string {
	return c.search.Suggest(ctx, partial, limit)
}

// RebuildIndex rebuilds the search index from the stored snapshot. At most
// one rebuild runs at a time; a concurrent call returns
// ErrRebuildInProgress and leaves the running rebuild alone.
func (c *Client) RebuildIndex(ctx context.Context) error {
	return c.index.Rebuild(ctx)
}

// IndexStats returns a point-in-time snapshot of index statistics.
func (c *Client) IndexStats() IndexStats {
	s := c.index.Stats()
	return IndexStats{
		EntryCount:        s.EntryCount,
		TotalTokens:       s.TotalTokens,
		AvgTokensPerEntry: s.AvgTokensPerEntry,
		LastRebuild:       s.LastRebuildTime,
		Rebuilding:        s.Rebuilding,
	}
}

// embedderAdapter wraps the public Embedder to satisfy internal
// domain.Embedder. Batch capability is passed through when present.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

func (a *embedderAdapter) Dimensions() int { return a.inner.Dimensions() }

func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	be, ok := a.inner.(BatchEmbedder)
	if !ok {
		return domain.BatchFallback(ctx, a, texts)
	}
	r, err := be.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   r.Embeddings,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// embeddingChecker adapts a domain.Embedder to health.EmbeddingChecker.
// Returns nil (check skipped) when no provider is configured or the
// provider has no health endpoint.
func embeddingChecker(embedder domain.Embedder) healthuc.EmbeddingChecker {
	if embedder == nil {
		return nil
	}
	if hc, ok := embedder.(domain.HealthChecker); ok {
		return hc
	}
	return nil
}
