package memdex

import (
	"github.com/kailas-cloud/memdex/internal/domain/document"
	"github.com/kailas-cloud/memdex/internal/domain/search/filter"
	"github.com/kailas-cloud/memdex/internal/domain/search/request"
	"github.com/kailas-cloud/memdex/internal/domain/search/result"
)

func fromDocument(d document.Document) Context {
	return Context{
		ID:           d.ID(),
		Title:        d.Title(),
		Content:      d.Content(),
		Type:         d.Type(),
		Tags:         d.Tags(),
		OwnerID:      d.OwnerID(),
		Importance:   Importance(d.Importance()),
		Interactions: d.Interactions(),
		TokenCount:   d.TokenCount(),
		CreatedAt:    d.CreatedAt(),
		UpdatedAt:    d.UpdatedAt(),
	}
}

func toRequest(req SearchRequest) (request.Request, error) {
	f, err := filter.New(req.Types, req.Tags, req.OwnerID, req.UpdatedAfter, req.UpdatedBefore)
	if err != nil {
		return request.Request{}, err
	}

	opts := request.DefaultOptions()
	if o := req.Options; o != nil {
		opts = request.NewOptions(
			o.Fuzzy, o.Semantic, o.Rerank, o.Highlight, o.Suggest, o.Facets, o.Explain,
		)
	}

	descending := req.Order != "asc"
	return request.New(
		req.Query, f, opts,
		request.SortKey(req.SortBy), descending,
		req.Limit, req.Offset,
	)
}

func fromResponse(resp *result.Response) *SearchResponse {
	out := &SearchResponse{
		Results:     make([]SearchResult, 0, len(resp.Results)),
		TotalCount:  resp.TotalCount,
		Suggestions: resp.Suggestions,
		Took:        resp.ExecutionTime,
	}

	for i := range resp.Results {
		r := &resp.Results[i]

		sr := SearchResult{
			Context:       fromDocument(r.Document()),
			Score:         r.Score(),
			MatchedFields: r.MatchedFields(),
			Explanation:   r.Explanation(),
		}
		if ls, ok := r.Lexical(); ok {
			sr.LexicalScore = &ls
		}
		if ss, ok := r.Semantic(); ok {
			sr.SemanticScore = &ss
		}
		for _, hl := range r.Highlights() {
			sr.Highlights = append(sr.Highlights, Highlight{Field: hl.Field, Fragments: hl.Fragments})
		}
		out.Results = append(out.Results, sr)
	}

	for _, f := range resp.Facets {
		facet := Facet{Field: f.Field, Values: make([]FacetValue, 0, len(f.Values))}
		for _, v := range f.Values {
			facet.Values = append(facet.Values, FacetValue{Value: v.Value, Count: v.Count, Selected: v.Selected})
		}
		out.Facets = append(out.Facets, facet)
	}

	return out
}
