package search

import (
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/memdex/internal/domain/document"
	"github.com/kailas-cloud/memdex/internal/domain/search/request"
	"github.com/kailas-cloud/memdex/internal/domain/search/result"
)

// Rerank boost factors. Multiplicative and independently applicable.
const (
	boostRecent7d     = 1.2
	boostRecent30d    = 1.1
	boostCritical     = 1.3
	boostHigh         = 1.2
	boostFrequent     = 1.1
	frequentThreshold = 10
)

// rerank multiplies each score by recency, importance, and frequency boosts.
func rerank(results []result.Result, now time.Time) []result.Result {
	for i := range results {
		doc := results[i].Document()
		s := results[i].Score()

		switch age := now.Sub(doc.UpdatedAt()); {
		case age < 7*24*time.Hour:
			s *= boostRecent7d
		case age < 30*24*time.Hour:
			s *= boostRecent30d
		}

		switch doc.Importance() {
		case document.ImportanceCritical:
			s *= boostCritical
		case document.ImportanceHigh:
			s *= boostHigh
		}

		if doc.Interactions() > frequentThreshold {
			s *= boostFrequent
		}

		results[i] = results[i].WithScore(s)
	}
	return results
}

// sortResults orders results by the requested key. The sort is stable so
// ties keep their original order and pages partition cleanly.
func sortResults(results []result.Result, key request.SortKey, descending bool) {
	less := func(a, b *result.Result) bool { return a.Score() < b.Score() }

	switch key {
	case request.SortDate:
		less = func(a, b *result.Result) bool {
			return a.Document().UpdatedAt().Before(b.Document().UpdatedAt())
		}
	case request.SortTitle:
		less = func(a, b *result.Result) bool {
			return strings.ToLower(a.Document().Title()) < strings.ToLower(b.Document().Title())
		}
	case request.SortTokens:
		less = func(a, b *result.Result) bool {
			return a.Document().TokenCount() < b.Document().TokenCount()
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if descending {
			return less(&results[j], &results[i])
		}
		return less(&results[i], &results[j])
	})
}

// paginate slices out one page. Out-of-range offsets yield an empty page,
// not an error.
func paginate(results []result.Result, offset, limit int) []result.Result {
	if offset >= len(results) {
		return nil
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}
