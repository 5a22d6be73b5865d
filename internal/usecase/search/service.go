package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/memdex/internal/domain"
	"github.com/kailas-cloud/memdex/internal/domain/search/filter"
	"github.com/kailas-cloud/memdex/internal/domain/search/query"
	"github.com/kailas-cloud/memdex/internal/domain/search/request"
	"github.com/kailas-cloud/memdex/internal/domain/search/result"
	"github.com/kailas-cloud/memdex/internal/index"
	"github.com/kailas-cloud/memdex/internal/metrics"
)

// Config holds the scoring tuning parameters.
type Config struct {
	Weights           Weights
	Hybrid            HybridWeights
	SemanticThreshold float64
}

// DefaultConfig returns the default scoring configuration.
func DefaultConfig() Config {
	return Config{
		Weights:           DefaultWeights(),
		Hybrid:            DefaultHybridWeights(),
		SemanticThreshold: DefaultSemanticThreshold,
	}
}

// Service executes context searches: lexical scoring over the in-memory
// index, optional embedding similarity, hybrid combination, and result
// assembly. A nil embedder degrades to lexical-only search; that is a normal
// operating mode, not a failure.
type Service struct {
	idx       Index
	embed     domain.Embedder
	freshness Freshness
	cfg       Config
	logger    *zap.Logger
}

// New creates a search service. embed and freshness may be nil.
func New(idx Index, embed domain.Embedder, freshness Freshness, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{idx: idx, embed: embed, freshness: freshness, cfg: cfg, logger: logger}
}

// Search runs one query end to end. The response is structurally complete
// even on partial failure: an embedding outage downgrades the query to
// lexical-only instead of failing it. Only configuration faults (embedding
// dimension mismatch) propagate as errors.
func (s *Service) Search(ctx context.Context, req *request.Request) (*result.Response, error) {
	start := time.Now()

	if s.freshness != nil {
		s.freshness.RebuildIfStale()
	}

	q := query.Parse(req.Query())
	candidates := s.idx.Candidates(req.Filters())
	// Deterministic base order: sorted by id so stable sorts and
	// pagination partition reproducibly.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID() < candidates[j].ID() })

	var results []result.Result
	var err error
	if q.IsEmpty() {
		// No constraint means all candidates match, never zero results.
		results = matchAll(candidates)
	} else {
		results, err = s.scoreCandidates(ctx, candidates, q, req.Options())
		if err != nil {
			return nil, err
		}
	}

	if req.Options().Rerank() {
		results = rerank(results, time.Now().UTC())
	}
	sortResults(results, req.SortKey(), req.Descending())

	resp := &result.Response{
		Results:    paginate(results, req.Offset(), req.Limit()),
		TotalCount: len(results),
	}

	if req.Options().Facets() {
		resp.Facets = computeFacets(candidates, req.Filters())
	}
	if req.Options().Highlight() && !q.IsEmpty() {
		for i := range resp.Results {
			hl := buildHighlights(resp.Results[i].Document(), q)
			resp.Results[i] = resp.Results[i].WithHighlights(hl)
		}
	}
	if req.Options().Suggest() && !q.IsEmpty() {
		resp.Suggestions = buildSuggestions(req.Query(), q)
	}

	resp.ExecutionTime = time.Since(start)
	metrics.ObserveSearch(resp.ExecutionTime, len(resp.Results))
	return resp, nil
}

// Suggest completes a partial query against indexed titles and tags plus the
// concept-association table.
func (s *Service) Suggest(_ context.Context, partial string, limit int) []string {
	if limit <= 0 {
		limit = maxSuggestions
	}

	var known []string
	for _, e := range s.idx.Candidates(filter.Filter{}) {
		known = append(known, e.Document().Title())
		known = append(known, e.Document().Tags()...)
	}
	for _, related := range conceptAssociations {
		known = append(known, related...)
	}

	return prefixSuggestions(partial, known, limit)
}

// scoreCandidates runs lexical and (when possible) semantic scoring and
// combines them under the hybrid weighting.
func (s *Service) scoreCandidates(
	ctx context.Context, candidates []*index.Entry, q query.Query, opts request.Options,
) ([]result.Result, error) {
	lexical := make(map[string]float64, len(candidates))
	matchedBy := make(map[string][]string, len(candidates))

	for _, e := range candidates {
		score, fields := lexicalScore(e, q, s.cfg.Weights, opts.Fuzzy())
		if score > 0 {
			lexical[e.ID()] = score
			matchedBy[e.ID()] = fields
		}
	}

	semantic, err := s.scoreSemantic(ctx, candidates, q, opts)
	if err != nil {
		return nil, err
	}

	combined := combineScores(lexical, semantic, s.cfg.Hybrid)

	results := make([]result.Result, 0, len(combined))
	for _, e := range candidates {
		score, ok := combined[e.ID()]
		if !ok || score <= 0 {
			continue
		}

		fields := matchedBy[e.ID()]
		if _, ok := semantic[e.ID()]; ok {
			fields = append(fields, "semantic")
		}

		r := result.New(e.Document(), score, fields)
		if ls, ok := lexical[e.ID()]; ok {
			r = r.WithLexical(ls)
		}
		if ss, ok := semantic[e.ID()]; ok {
			r = r.WithSemantic(ss)
		}
		if opts.Explain() {
			r = r.WithExplanation(explain(r))
		}
		results = append(results, r)
	}
	return results, nil
}

// scoreSemantic embeds the query and scores candidates that carry an
// embedding. Provider outages degrade to lexical-only; a dimension mismatch
// is a configuration fault and fails the call.
func (s *Service) scoreSemantic(
	ctx context.Context, candidates []*index.Entry, q query.Query, opts request.Options,
) (map[string]float64, error) {
	if !opts.Semantic() || s.embed == nil {
		return nil, nil
	}

	text := strings.Join(append(q.Phrases(), q.Terms()...), " ")
	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("query embedding failed, using lexical-only results", zap.Error(err))
		return nil, nil
	}

	scores := make(map[string]float64)
	for _, e := range candidates {
		if e.Embedding() == nil {
			continue
		}
		sim, err := cosineSimilarity(emb.Embedding, e.Embedding())
		if err != nil {
			return nil, fmt.Errorf("score %q: %w", e.ID(), err)
		}
		if sim >= s.cfg.SemanticThreshold {
			scores[e.ID()] = sim
		}
	}
	return scores, nil
}

// matchAll turns every candidate into a neutral-score result.
func matchAll(candidates []*index.Entry) []result.Result {
	results := make([]result.Result, 0, len(candidates))
	for _, e := range candidates {
		results = append(results, result.New(e.Document(), 1.0, nil))
	}
	return results
}

func explain(r result.Result) string {
	var parts []string
	if ls, ok := r.Lexical(); ok {
		parts = append(parts, fmt.Sprintf("lexical=%.3f (%s)", ls, strings.Join(r.MatchedFields(), ",")))
	}
	if ss, ok := r.Semantic(); ok {
		parts = append(parts, fmt.Sprintf("semantic=%.3f", ss))
	}
	return fmt.Sprintf("%s => %.3f", strings.Join(parts, " + "), r.Score())
}

