package search

import (
	"github.com/kailas-cloud/memdex/internal/domain/search/filter"
	"github.com/kailas-cloud/memdex/internal/index"
)

// Index is the read side of the index store.
type Index interface {
	Candidates(f filter.Filter) []*index.Entry
	Size() int
}

// Freshness lets the search path nudge the index lifecycle when it observes
// a stale index. Implementations must be non-blocking.
type Freshness interface {
	RebuildIfStale()
}
