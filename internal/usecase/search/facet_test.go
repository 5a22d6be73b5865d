package search

import (
	"testing"
	"time"

	"github.com/kailas-cloud/memdex/internal/domain/search/filter"
	"github.com/kailas-cloud/memdex/internal/index"
)

func TestComputeFacets(t *testing.T) {
	candidates := []*index.Entry{
		makeEntry(t, "a", "t1", "c1", []string{"golang", "infra"}),
		makeEntry(t, "b", "t2", "c2", []string{"golang"}),
		makeEntry(t, "c", "t3", "c3", nil),
	}

	f, err := filter.New(nil, []string{"golang"}, "", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}

	facets := computeFacets(candidates, f)
	if len(facets) != 2 {
		t.Fatalf("len(facets) = %d, want 2", len(facets))
	}

	types := facets[0]
	if types.Field != "type" {
		t.Errorf("facets[0].Field = %q, want type", types.Field)
	}
	if len(types.Values) != 1 || types.Values[0].Value != "note" || types.Values[0].Count != 3 {
		t.Errorf("type values = %+v, want note:3", types.Values)
	}

	tags := facets[1]
	if tags.Field != "tags" {
		t.Errorf("facets[1].Field = %q, want tags", tags.Field)
	}
	if len(tags.Values) != 2 {
		t.Fatalf("tag values = %+v, want 2 entries", tags.Values)
	}
	// Sorted by count descending.
	if tags.Values[0].Value != "golang" || tags.Values[0].Count != 2 || !tags.Values[0].Selected {
		t.Errorf("tags[0] = %+v, want golang:2 selected", tags.Values[0])
	}
	if tags.Values[1].Value != "infra" || tags.Values[1].Count != 1 || tags.Values[1].Selected {
		t.Errorf("tags[1] = %+v, want infra:1 unselected", tags.Values[1])
	}
}

func TestComputeFacets_TieSortedByValue(t *testing.T) {
	candidates := []*index.Entry{
		makeEntry(t, "a", "t1", "c1", []string{"zebra"}),
		makeEntry(t, "b", "t2", "c2", []string{"alpha"}),
	}

	facets := computeFacets(candidates, filter.Filter{})
	tags := facets[1]
	if tags.Values[0].Value != "alpha" || tags.Values[1].Value != "zebra" {
		t.Errorf("tie order = %+v, want alpha before zebra", tags.Values)
	}
}

func TestComputeFacets_Empty(t *testing.T) {
	facets := computeFacets(nil, filter.Filter{})
	if len(facets) != 2 {
		t.Fatalf("len(facets) = %d, want 2", len(facets))
	}
	if len(facets[0].Values) != 0 || len(facets[1].Values) != 0 {
		t.Errorf("expected empty value lists, got %+v", facets)
	}
}
