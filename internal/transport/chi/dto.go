package chi

import (
	"time"

	"github.com/kailas-cloud/memdex/internal/domain/document"
	"github.com/kailas-cloud/memdex/internal/domain/search/filter"
	"github.com/kailas-cloud/memdex/internal/domain/search/request"
	"github.com/kailas-cloud/memdex/internal/domain/search/result"
)

// errorDTO is the uniform error envelope.
type errorDTO struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// contextDTO is the wire shape of a context record.
type contextDTO struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Type         string   `json:"type"`
	Tags         []string `json:"tags,omitempty"`
	OwnerID      string   `json:"owner_id,omitempty"`
	Importance   string   `json:"importance"`
	Interactions int      `json:"interactions"`
	TokenCount   int      `json:"token_count"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func toContextDTO(doc *document.Document) contextDTO {
	return contextDTO{
		ID:           doc.ID(),
		Title:        doc.Title(),
		Content:      doc.Content(),
		Type:         doc.Type(),
		Tags:         doc.Tags(),
		OwnerID:      doc.OwnerID(),
		Importance:   string(doc.Importance()),
		Interactions: doc.Interactions(),
		TokenCount:   doc.TokenCount(),
		CreatedAt:    doc.CreatedAt().Format(time.RFC3339),
		UpdatedAt:    doc.UpdatedAt().Format(time.RFC3339),
	}
}

// upsertContextDTO is the request body for creating or updating a context.
type upsertContextDTO struct {
	ID         string   `json:"id,omitempty"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Type       string   `json:"type,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	OwnerID    string   `json:"owner_id,omitempty"`
	Importance string   `json:"importance,omitempty"`
}

// searchRequestDTO is the request body for POST /v1/search.
type searchRequestDTO struct {
	Query   string            `json:"query"`
	Filters *searchFiltersDTO `json:"filters,omitempty"`
	Options *searchOptionsDTO `json:"options,omitempty"`
	SortBy  string            `json:"sort_by,omitempty"`
	Order   string            `json:"order,omitempty"`
	Limit   int               `json:"limit,omitempty"`
	Offset  int               `json:"offset,omitempty"`
}

type searchFiltersDTO struct {
	Types         []string `json:"types,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	OwnerID       string   `json:"owner_id,omitempty"`
	UpdatedAfter  string   `json:"updated_after,omitempty"`
	UpdatedBefore string   `json:"updated_before,omitempty"`
}

type searchOptionsDTO struct {
	Fuzzy     *bool `json:"fuzzy,omitempty"`
	Semantic  *bool `json:"semantic,omitempty"`
	Rerank    bool  `json:"rerank,omitempty"`
	Highlight bool  `json:"highlight,omitempty"`
	Suggest   bool  `json:"suggest,omitempty"`
	Facets    bool  `json:"facets,omitempty"`
	Explain   bool  `json:"explain,omitempty"`
}

// toRequest converts the wire request into a validated domain request.
func (d *searchRequestDTO) toRequest() (request.Request, error) {
	f, err := d.toFilter()
	if err != nil {
		return request.Request{}, err
	}

	opts := request.DefaultOptions()
	if o := d.Options; o != nil {
		fuzzy, semantic := true, true
		if o.Fuzzy != nil {
			fuzzy = *o.Fuzzy
		}
		if o.Semantic != nil {
			semantic = *o.Semantic
		}
		opts = request.NewOptions(fuzzy, semantic, o.Rerank, o.Highlight, o.Suggest, o.Facets, o.Explain)
	}

	descending := d.Order != "asc"
	return request.New(d.Query, f, opts, request.SortKey(d.SortBy), descending, d.Limit, d.Offset)
}

func (d *searchRequestDTO) toFilter() (filter.Filter, error) {
	if d.Filters == nil {
		return filter.Filter{}, nil
	}

	var after, before time.Time
	var err error
	if s := d.Filters.UpdatedAfter; s != "" {
		if after, err = time.Parse(time.RFC3339, s); err != nil {
			return filter.Filter{}, err
		}
	}
	if s := d.Filters.UpdatedBefore; s != "" {
		if before, err = time.Parse(time.RFC3339, s); err != nil {
			return filter.Filter{}, err
		}
	}

	return filter.New(d.Filters.Types, d.Filters.Tags, d.Filters.OwnerID, after, before)
}

// searchResponseDTO is the response body for POST /v1/search.
type searchResponseDTO struct {
	Results         []searchResultDTO `json:"results"`
	TotalCount      int               `json:"total_count"`
	Facets          []facetDTO        `json:"facets,omitempty"`
	Suggestions     []string          `json:"suggestions,omitempty"`
	ExecutionTimeMS float64           `json:"execution_time_ms"`
}

type searchResultDTO struct {
	Context       contextDTO     `json:"context"`
	Score         float64        `json:"score"`
	LexicalScore  *float64       `json:"lexical_score,omitempty"`
	SemanticScore *float64       `json:"semantic_score,omitempty"`
	MatchedFields []string       `json:"matched_fields,omitempty"`
	Highlights    []highlightDTO `json:"highlights,omitempty"`
	Explanation   string         `json:"explanation,omitempty"`
}

type highlightDTO struct {
	Field     string   `json:"field"`
	Fragments []string `json:"fragments"`
}

type facetDTO struct {
	Field  string          `json:"field"`
	Values []facetValueDTO `json:"values"`
}

type facetValueDTO struct {
	Value    string `json:"value"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

func toSearchResponseDTO(resp *result.Response) searchResponseDTO {
	out := searchResponseDTO{
		Results:         make([]searchResultDTO, 0, len(resp.Results)),
		TotalCount:      resp.TotalCount,
		Suggestions:     resp.Suggestions,
		ExecutionTimeMS: float64(resp.ExecutionTime.Microseconds()) / 1000,
	}

	for i := range resp.Results {
		r := &resp.Results[i]
		doc := r.Document()

		dto := searchResultDTO{
			Context:       toContextDTO(&doc),
			Score:         r.Score(),
			MatchedFields: r.MatchedFields(),
			Explanation:   r.Explanation(),
		}
		if ls, ok := r.Lexical(); ok {
			dto.LexicalScore = &ls
		}
		if ss, ok := r.Semantic(); ok {
			dto.SemanticScore = &ss
		}
		for _, hl := range r.Highlights() {
			dto.Highlights = append(dto.Highlights, highlightDTO{Field: hl.Field, Fragments: hl.Fragments})
		}
		out.Results = append(out.Results, dto)
	}

	for _, f := range resp.Facets {
		fd := facetDTO{Field: f.Field, Values: make([]facetValueDTO, 0, len(f.Values))}
		for _, v := range f.Values {
			fd.Values = append(fd.Values, facetValueDTO{Value: v.Value, Count: v.Count, Selected: v.Selected})
		}
		out.Facets = append(out.Facets, fd)
	}

	return out
}

// statsDTO is the response body for GET /v1/index/stats.
type statsDTO struct {
	EntryCount        int     `json:"entry_count"`
	TotalTokens       int     `json:"total_tokens"`
	AvgTokensPerEntry float64 `json:"avg_tokens_per_entry"`
	LastRebuildTime   string  `json:"last_rebuild_time,omitempty"`
	Rebuilding        bool    `json:"rebuilding"`
}
