package result

import (
	"time"

	"github.com/kailas-cloud/memdex/internal/domain/document"
)

// Result is a single search hit. Ephemeral: recomputed per query, never
// persisted.
type Result struct {
	doc           document.Document
	score         float64
	lexical       float64
	hasLexical    bool
	semantic      float64
	hasSemantic   bool
	matchedFields []string
	highlights    []Highlight
	explanation   string
}

// New creates a search result with the combined score.
func New(doc document.Document, score float64, matchedFields []string) Result {
	return Result{doc: doc, score: score, matchedFields: matchedFields}
}

// Document returns the matched context record.
func (r *Result) Document() document.Document { return r.doc }

// Score returns the combined relevance score.
func (r *Result) Score() float64 { return r.score }

// Lexical returns the lexical score component, if one was computed.
func (r *Result) Lexical() (float64, bool) { return r.lexical, r.hasLexical }

// Semantic returns the semantic score component, if one was computed.
func (r *Result) Semantic() (float64, bool) { return r.semantic, r.hasSemantic }

// MatchedFields returns the fields that contributed to the score.
func (r *Result) MatchedFields() []string { return r.matchedFields }

// Highlights returns the extracted match fragments.
func (r *Result) Highlights() []Highlight { return r.highlights }

// Explanation returns the human-readable score breakdown ("" if not requested).
func (r *Result) Explanation() string { return r.explanation }

// WithLexical returns a copy carrying the lexical component.
func (r Result) WithLexical(score float64) Result {
	r.lexical, r.hasLexical = score, true
	return r
}

// WithSemantic returns a copy carrying the semantic component.
func (r Result) WithSemantic(score float64) Result {
	r.semantic, r.hasSemantic = score, true
	return r
}

// WithScore returns a copy with the combined score replaced (reranking).
func (r Result) WithScore(score float64) Result {
	r.score = score
	return r
}

// WithHighlights returns a copy carrying highlight fragments.
func (r Result) WithHighlights(hl []Highlight) Result {
	r.highlights = hl
	return r
}

// WithExplanation returns a copy carrying a score explanation.
func (r Result) WithExplanation(expl string) Result {
	r.explanation = expl
	return r
}

// Highlight holds matched fragments for one field.
type Highlight struct {
	Field     string
	Fragments []string
}

// FacetValue is one distinct value with its document count.
type FacetValue struct {
	Value    string
	Count    int
	Selected bool
}

// Facet aggregates counts per distinct value of one field, computed over the
// filtered candidate set of a single query (not the whole index).
type Facet struct {
	Field  string
	Values []FacetValue
}

// Response is the complete answer to one search call. Structurally complete
// even on partial failure: a degraded query still carries every field.
type Response struct {
	Results       []Result
	TotalCount    int
	Facets        []Facet
	Suggestions   []string
	ExecutionTime time.Duration
}
