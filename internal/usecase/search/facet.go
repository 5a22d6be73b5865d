package search

import (
	"sort"

	"github.com/kailas-cloud/memdex/internal/domain/search/filter"
	"github.com/kailas-cloud/memdex/internal/domain/search/result"
	"github.com/kailas-cloud/memdex/internal/index"
)

// computeFacets aggregates type and tag counts over the filtered candidate
// set of one query (pre-score, pre-pagination), so facets describe the whole
// matching population rather than the returned page. Selected flags reflect
// the active filter.
func computeFacets(candidates []*index.Entry, f filter.Filter) []result.Facet {
	typeCounts := make(map[string]int)
	tagCounts := make(map[string]int)

	for _, e := range candidates {
		doc := e.Document()
		typeCounts[doc.Type()]++
		for _, tag := range doc.Tags() {
			tagCounts[tag]++
		}
	}

	return []result.Facet{
		{Field: "type", Values: facetValues(typeCounts, f.HasType)},
		{Field: "tags", Values: facetValues(tagCounts, f.HasTag)},
	}
}

// facetValues converts a count map into values sorted by count descending,
// then by value for a deterministic order.
func facetValues(counts map[string]int, selected func(string) bool) []result.FacetValue {
	values := make([]result.FacetValue, 0, len(counts))
	for v, c := range counts {
		values = append(values, result.FacetValue{Value: v, Count: c, Selected: selected(v)})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Value < values[j].Value
	})
	return values
}
