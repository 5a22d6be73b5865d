package request

import (
	"fmt"

	"github.com/kailas-cloud/memdex/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 50
	MaxLimit       = 500
)

// SortKey selects the result ordering.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortDate      SortKey = "date"
	SortTitle     SortKey = "title"
	SortTokens    SortKey = "tokens"
)

// IsValid reports whether the sort key is known.
func (k SortKey) IsValid() bool {
	switch k {
	case SortRelevance, SortDate, SortTitle, SortTokens:
		return true
	}
	return false
}

// Options toggles optional scoring and assembly stages.
type Options struct {
	fuzzy     bool
	semantic  bool
	rerank    bool
	highlight bool
	suggest   bool
	facets    bool
	explain   bool
}

// DefaultOptions returns the default option set: fuzzy matching on, semantic
// scoring on (a no-op without an embedding provider), everything else off.
func DefaultOptions() Options {
	return Options{fuzzy: true, semantic: true}
}

// NewOptions creates an option set.
func NewOptions(fuzzy, semantic, rerank, highlight, suggest, facets, explain bool) Options {
	return Options{
		fuzzy: fuzzy, semantic: semantic, rerank: rerank,
		highlight: highlight, suggest: suggest, facets: facets, explain: explain,
	}
}

// Fuzzy reports whether edit-distance matching is enabled.
func (o Options) Fuzzy() bool { return o.fuzzy }

// Semantic reports whether embedding similarity scoring is requested.
func (o Options) Semantic() bool { return o.semantic }

// Rerank reports whether recency/importance/frequency boosts apply.
func (o Options) Rerank() bool { return o.rerank }

// Highlight reports whether matched fragments should be extracted.
func (o Options) Highlight() bool { return o.highlight }

// Suggest reports whether query suggestions should be generated.
func (o Options) Suggest() bool { return o.suggest }

// Facets reports whether facet aggregation should run.
func (o Options) Facets() bool { return o.facets }

// Explain reports whether score explanations should be attached.
func (o Options) Explain() bool { return o.explain }

// Request is a validated search request.
type Request struct {
	query      string
	filters    filter.Filter
	options    Options
	sortKey    SortKey
	descending bool
	limit      int
	offset     int
}

// New validates and normalizes search parameters. Search is a best-effort
// read path: cosmetic input problems (negative bounds, unknown sort keys)
// degrade to defaults instead of failing the request. Only a query that is
// too long to index is rejected outright.
func New(
	query string, filters filter.Filter, opts Options,
	sortKey SortKey, descending bool, limit, offset int,
) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if sortKey == "" || !sortKey.IsValid() {
		sortKey = SortRelevance
		descending = true
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	return Request{
		query: query, filters: filters, options: opts,
		sortKey: sortKey, descending: descending,
		limit: limit, offset: offset,
	}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// Filters returns the pre-score candidate filter.
func (r *Request) Filters() filter.Filter { return r.filters }

// Options returns the option toggles.
func (r *Request) Options() Options { return r.options }

// SortKey returns the result ordering key.
func (r *Request) SortKey() SortKey { return r.sortKey }

// Descending reports whether the sort order is descending.
func (r *Request) Descending() bool { return r.descending }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the page offset.
func (r *Request) Offset() int { return r.offset }
