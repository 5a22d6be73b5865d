package memdex

import "time"

// Importance grades how much a context record should be boosted in reranking.
type Importance string

// Importance levels.
const (
	ImportanceLow      Importance = "low"
	ImportanceMedium   Importance = "medium"
	ImportanceHigh     Importance = "high"
	ImportanceCritical Importance = "critical"
)

// Context is a stored context record.
//
// On Create, ID is optional (generated when empty), Type defaults to "note"
// and Importance to "medium". Interactions, TokenCount and the timestamps are
// maintained by the store and ignored on input.
type Context struct {
	ID           string
	Title        string
	Content      string
	Type         string
	Tags         []string
	OwnerID      string
	Importance   Importance
	Interactions int
	TokenCount   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ContextUpdate carries the mutable fields of a record. Zero-valued fields
// are left unchanged; a non-nil empty Tags slice clears the tags.
type ContextUpdate struct {
	Title      string
	Content    string
	Type       string
	Tags       []string
	Importance Importance
}

// SearchOptions toggles optional search stages. The zero value disables
// everything; Search treats a nil *SearchOptions as the defaults
// (fuzzy and semantic on, the rest off).
type SearchOptions struct {
	Fuzzy     bool
	Semantic  bool
	Rerank    bool
	Highlight bool
	Suggest   bool
	Facets    bool
	Explain   bool
}

// SearchRequest describes one search call. An empty Query matches every
// record that passes the filters.
type SearchRequest struct {
	Query string

	// Pre-score candidate filters.
	Types         []string
	Tags          []string
	OwnerID       string
	UpdatedAfter  time.Time
	UpdatedBefore time.Time

	Options *SearchOptions

	// SortBy is one of "relevance", "date", "title", "tokens"
	// (default relevance). Order is "asc" or "desc" (default desc).
	SortBy string
	Order  string

	Limit  int
	Offset int
}

// Highlight is a set of matched fragments from one field.
type Highlight struct {
	Field     string
	Fragments []string
}

// SearchResult is a single search hit.
type SearchResult struct {
	Context       Context
	Score         float64
	LexicalScore  *float64
	SemanticScore *float64
	MatchedFields []string
	Highlights    []Highlight
	Explanation   string
}

// FacetValue is one value bucket within a facet.
type FacetValue struct {
	Value    string
	Count    int
	Selected bool
}

// Facet aggregates candidate counts over one field.
type Facet struct {
	Field  string
	Values []FacetValue
}

// SearchResponse is the complete answer to one search call. TotalCount is
// the number of matches before pagination.
type SearchResponse struct {
	Results     []SearchResult
	TotalCount  int
	Facets      []Facet
	Suggestions []string
	Took        time.Duration
}

// IndexStats is a point-in-time snapshot of the search index.
type IndexStats struct {
	EntryCount        int
	TotalTokens       int
	AvgTokensPerEntry float64
	LastRebuild       time.Time
	Rebuilding        bool
}

// HealthStatus reports the store and embedding provider health.
type HealthStatus struct {
	Status string // "ok" or "degraded"
	Checks map[string]string
}
