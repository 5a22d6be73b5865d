package request

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/memdex/internal/domain/search/filter"
)

func TestNewDefaults(t *testing.T) {
	r, err := New("query", filter.Filter{}, DefaultOptions(), SortRelevance, true, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultLimit, r.Limit())
	assert.Equal(t, 0, r.Offset())
	assert.Equal(t, SortRelevance, r.SortKey())
	assert.True(t, r.Descending())
}

func TestNewDegradesInsteadOfFailing(t *testing.T) {
	tests := []struct {
		name       string
		sortKey    SortKey
		descending bool
		limit      int
		offset     int
		wantSort   SortKey
		wantDesc   bool
		wantLimit  int
		wantOffset int
	}{
		{
			name:     "unknown sort key falls back to relevance desc",
			sortKey:  SortKey("popularity"),
			wantSort: SortRelevance, wantDesc: true,
			wantLimit: DefaultLimit,
		},
		{
			name:     "empty sort key falls back to relevance desc",
			sortKey:  "",
			wantSort: SortRelevance, wantDesc: true,
			wantLimit: DefaultLimit,
		},
		{
			name:    "negative limit becomes default",
			sortKey: SortDate, descending: true,
			limit:    -5,
			wantSort: SortDate, wantDesc: true,
			wantLimit: DefaultLimit,
		},
		{
			name:    "limit capped at max",
			sortKey: SortTitle,
			limit:   MaxLimit + 1,
			wantSort: SortTitle,
			wantLimit: MaxLimit,
		},
		{
			name:    "negative offset becomes zero",
			sortKey: SortTokens,
			limit:   10, offset: -3,
			wantSort: SortTokens,
			wantLimit: 10, wantOffset: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New("q", filter.Filter{}, DefaultOptions(), tt.sortKey, tt.descending, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSort, r.SortKey())
			assert.Equal(t, tt.wantDesc, r.Descending())
			assert.Equal(t, tt.wantLimit, r.Limit())
			assert.Equal(t, tt.wantOffset, r.Offset())
		})
	}
}

func TestNewRejectsOverlongQuery(t *testing.T) {
	_, err := New(strings.Repeat("q", MaxQueryLength+1), filter.Filter{}, DefaultOptions(), SortRelevance, true, 0, 0)
	assert.Error(t, err)
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.True(t, o.Fuzzy())
	assert.True(t, o.Semantic())
	assert.False(t, o.Rerank())
	assert.False(t, o.Highlight())
	assert.False(t, o.Suggest())
	assert.False(t, o.Facets())
	assert.False(t, o.Explain())
}

func TestSortKeyIsValid(t *testing.T) {
	for _, k := range []SortKey{SortRelevance, SortDate, SortTitle, SortTokens} {
		assert.True(t, k.IsValid(), string(k))
	}
	assert.False(t, SortKey("rank").IsValid())
}
