package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/memdex/internal/domain"
	"github.com/kailas-cloud/memdex/internal/domain/document"
	"github.com/kailas-cloud/memdex/internal/domain/search/filter"
	"github.com/kailas-cloud/memdex/internal/domain/search/request"
	"github.com/kailas-cloud/memdex/internal/domain/search/result"
	"github.com/kailas-cloud/memdex/internal/index"
)

// --- Mocks ---

type mockIndex struct {
	entries []*index.Entry
}

func (m *mockIndex) Candidates(f filter.Filter) []*index.Entry {
	out := make([]*index.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		doc := e.Document()
		if f.Matches(doc.Type(), doc.Tags(), doc.OwnerID(), doc.UpdatedAt()) {
			out = append(out, e)
		}
	}
	return out
}

func (m *mockIndex) Size() int { return len(m.entries) }

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func (m *mockEmbedder) Dimensions() int { return len(m.vec) }

type mockFreshness struct {
	called bool
}

func (m *mockFreshness) RebuildIfStale() { m.called = true }

// --- Helpers ---

func embeddedEntry(t *testing.T, id, title, content string, tags []string, vec []float32) *index.Entry {
	t.Helper()
	doc, err := document.New(id, title, content, "note", tags, "owner-1", document.ImportanceMedium)
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return index.NewEntry(doc, vec)
}

func mustRequest(t *testing.T, q string, opts request.Options, limit, offset int) *request.Request {
	t.Helper()
	r, err := request.New(q, filter.Filter{}, opts, request.SortRelevance, true, limit, offset)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

// --- Tests ---

func TestSearch_LexicalRanking(t *testing.T) {
	idx := &mockIndex{entries: []*index.Entry{
		makeEntry(t, "title-hit", "Machine Learning Basics", "An introduction to the field.", nil),
		makeEntry(t, "content-hit", "Study notes", "Today I read about machine learning models.", nil),
		makeEntry(t, "no-hit", "Grocery list", "Milk, eggs, coffee.", nil),
	}}
	svc := New(idx, nil, nil, DefaultConfig(), nil)

	resp, err := svc.Search(context.Background(), mustRequest(t, "machine learning", request.DefaultOptions(), 10, 0))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if resp.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2", resp.TotalCount)
	}
	if resp.Results[0].Document().ID() != "title-hit" {
		t.Errorf("top result = %s, want title-hit", resp.Results[0].Document().ID())
	}
	for _, r := range resp.Results {
		if r.Document().ID() == "no-hit" {
			t.Error("zero-score document must be excluded")
		}
	}
}

func TestSearch_EmptyQueryMatchesAll(t *testing.T) {
	idx := &mockIndex{entries: []*index.Entry{
		makeEntry(t, "a", "first", "body one", nil),
		makeEntry(t, "b", "second", "body two", nil),
		makeEntry(t, "c", "third", "body three", nil),
	}}
	svc := New(idx, nil, nil, DefaultConfig(), nil)

	resp, err := svc.Search(context.Background(), mustRequest(t, "", request.DefaultOptions(), 10, 0))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if resp.TotalCount != 3 {
		t.Fatalf("TotalCount = %d, want 3", resp.TotalCount)
	}
	for _, r := range resp.Results {
		if r.Score() != 1.0 {
			t.Errorf("match-all score = %f, want 1.0", r.Score())
		}
	}
}

func TestSearch_HybridCombination(t *testing.T) {
	// Both entries carry embeddings; only one matches lexically.
	idx := &mockIndex{entries: []*index.Entry{
		embeddedEntry(t, "both", "docker networking", "how bridges work", nil, []float32{1, 0}),
		embeddedEntry(t, "sem-only", "container glossary", "terms and definitions", nil, []float32{1, 0}),
	}}
	emb := &mockEmbedder{vec: []float32{1, 0}}
	svc := New(idx, emb, nil, DefaultConfig(), nil)

	resp, err := svc.Search(context.Background(), mustRequest(t, "docker", request.DefaultOptions(), 10, 0))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !emb.called {
		t.Fatal("embedder was not consulted")
	}
	if resp.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2", resp.TotalCount)
	}

	var both, semOnly float64
	for _, r := range resp.Results {
		switch r.Document().ID() {
		case "both":
			both = r.Score()
			if _, ok := r.Lexical(); !ok {
				t.Error("expected lexical component on 'both'")
			}
			if _, ok := r.Semantic(); !ok {
				t.Error("expected semantic component on 'both'")
			}
		case "sem-only":
			semOnly = r.Score()
			if _, ok := r.Lexical(); ok {
				t.Error("unexpected lexical component on 'sem-only'")
			}
		}
	}
	if both <= semOnly {
		t.Errorf("dual-signal hit %f should outrank semantic-only %f", both, semOnly)
	}
}

func TestSearch_SemanticMatchedFieldMarker(t *testing.T) {
	idx := &mockIndex{entries: []*index.Entry{
		embeddedEntry(t, "a", "docker networking", "bridges", nil, []float32{1, 0}),
	}}
	svc := New(idx, &mockEmbedder{vec: []float32{1, 0}}, nil, DefaultConfig(), nil)

	resp, err := svc.Search(context.Background(), mustRequest(t, "docker", request.DefaultOptions(), 10, 0))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	found := false
	for _, f := range resp.Results[0].MatchedFields() {
		if f == "semantic" {
			found = true
		}
	}
	if !found {
		t.Errorf("matched fields %v should include semantic", resp.Results[0].MatchedFields())
	}
}

func TestSearch_EmbedderOutageDegradesToLexical(t *testing.T) {
	idx := &mockIndex{entries: []*index.Entry{
		embeddedEntry(t, "a", "docker networking", "bridges and overlays", nil, []float32{1, 0}),
	}}
	emb := &mockEmbedder{err: errors.New("provider down")}
	svc := New(idx, emb, nil, DefaultConfig(), nil)

	resp, err := svc.Search(context.Background(), mustRequest(t, "docker", request.DefaultOptions(), 10, 0))
	if err != nil {
		t.Fatalf("Search must not fail on provider outage: %v", err)
	}
	if resp.TotalCount != 1 {
		t.Fatalf("TotalCount = %d, want 1 lexical hit", resp.TotalCount)
	}
	if _, ok := resp.Results[0].Semantic(); ok {
		t.Error("no semantic score expected when the provider is down")
	}
}

func TestSearch_DimensionMismatchFailsTheCall(t *testing.T) {
	idx := &mockIndex{entries: []*index.Entry{
		embeddedEntry(t, "a", "docker networking", "bridges", nil, []float32{1, 0, 0}),
	}}
	svc := New(idx, &mockEmbedder{vec: []float32{1, 0}}, nil, DefaultConfig(), nil)

	_, err := svc.Search(context.Background(), mustRequest(t, "docker", request.DefaultOptions(), 10, 0))
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestSearch_SemanticBelowThresholdDropped(t *testing.T) {
	// Orthogonal vectors: similarity 0, below the default threshold, and no
	// lexical match either, so the entry disappears entirely.
	idx := &mockIndex{entries: []*index.Entry{
		embeddedEntry(t, "a", "unrelated title", "unrelated body", nil, []float32{0, 1}),
	}}
	svc := New(idx, &mockEmbedder{vec: []float32{1, 0}}, nil, DefaultConfig(), nil)

	resp, err := svc.Search(context.Background(), mustRequest(t, "docker", request.DefaultOptions(), 10, 0))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.TotalCount != 0 {
		t.Errorf("TotalCount = %d, want 0", resp.TotalCount)
	}
}

func TestSearch_SemanticDisabledByOption(t *testing.T) {
	idx := &mockIndex{entries: []*index.Entry{
		embeddedEntry(t, "a", "docker networking", "bridges", nil, []float32{1, 0}),
	}}
	emb := &mockEmbedder{vec: []float32{1, 0}}
	svc := New(idx, emb, nil, DefaultConfig(), nil)

	opts := request.NewOptions(true, false, false, false, false, false, false)
	_, err := svc.Search(context.Background(), mustRequest(t, "docker", opts, 10, 0))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if emb.called {
		t.Error("embedder must not be consulted with semantic off")
	}
}

func TestSearch_PaginationPartitions(t *testing.T) {
	var entries []*index.Entry
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		entries = append(entries, makeEntry(t, id, "shared term", "shared term body "+id, nil))
	}
	svc := New(&mockIndex{entries: entries}, nil, nil, DefaultConfig(), nil)

	collect := func(offset int) []string {
		resp, err := svc.Search(context.Background(), mustRequest(t, "shared", request.DefaultOptions(), 2, offset))
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if resp.TotalCount != 5 {
			t.Fatalf("TotalCount = %d, want 5", resp.TotalCount)
		}
		var ids []string
		for _, r := range resp.Results {
			ids = append(ids, r.Document().ID())
		}
		return ids
	}

	seen := make(map[string]int)
	total := 0
	for _, offset := range []int{0, 2, 4} {
		for _, id := range collect(offset) {
			seen[id]++
			total++
		}
	}
	if total != 5 {
		t.Fatalf("pages covered %d results, want 5", total)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("id %s appeared %d times across pages", id, n)
		}
	}

	// Out-of-range offset: empty page, TotalCount intact.
	resp, err := svc.Search(context.Background(), mustRequest(t, "shared", request.DefaultOptions(), 2, 50))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 0 || resp.TotalCount != 5 {
		t.Errorf("out-of-range page: len=%d total=%d, want 0/5", len(resp.Results), resp.TotalCount)
	}
}

func TestSearch_FreshnessNudge(t *testing.T) {
	fresh := &mockFreshness{}
	svc := New(&mockIndex{}, nil, fresh, DefaultConfig(), nil)

	if _, err := svc.Search(context.Background(), mustRequest(t, "q", request.DefaultOptions(), 10, 0)); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !fresh.called {
		t.Error("search should nudge the freshness check")
	}
}

func TestSearch_OptionalStages(t *testing.T) {
	idx := &mockIndex{entries: []*index.Entry{
		makeEntry(t, "a", "docker networking", "bridge networks explained for docker hosts", []string{"infra"}),
	}}
	svc := New(idx, nil, nil, DefaultConfig(), nil)

	opts := request.NewOptions(true, false, false, true, true, true, true)
	resp, err := svc.Search(context.Background(), mustRequest(t, "docker", opts, 10, 0))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Facets) == 0 {
		t.Error("facets requested but missing")
	}
	if len(resp.Suggestions) == 0 {
		t.Error("suggestions requested but missing")
	}
	if len(resp.Results[0].Highlights()) == 0 {
		t.Error("highlights requested but missing")
	}
	if resp.Results[0].Explanation() == "" {
		t.Error("explanation requested but missing")
	}
}

func TestSearch_ExecutionTimeSet(t *testing.T) {
	svc := New(&mockIndex{}, nil, nil, DefaultConfig(), nil)
	resp, err := svc.Search(context.Background(), mustRequest(t, "", request.DefaultOptions(), 10, 0))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.ExecutionTime < 0 {
		t.Error("execution time must be non-negative")
	}
}

func TestSuggest_FromIndexAndConcepts(t *testing.T) {
	idx := &mockIndex{entries: []*index.Entry{
		makeEntry(t, "a", "Docker networking", "content", []string{"docker-compose"}),
	}}
	svc := New(idx, nil, nil, DefaultConfig(), nil)

	got := svc.Suggest(context.Background(), "docker", 10)
	wantTitle, wantTag := false, false
	for _, s := range got {
		if s == "Docker networking" {
			wantTitle = true
		}
		if s == "docker-compose" {
			wantTag = true
		}
	}
	if !wantTitle || !wantTag {
		t.Errorf("suggestions %v should include the indexed title and tag", got)
	}
}

func TestSuggest_DefaultLimit(t *testing.T) {
	var entries []*index.Entry
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		entries = append(entries, makeEntry(t, id, "prefix "+id, "content", nil))
	}
	svc := New(&mockIndex{entries: entries}, nil, nil, DefaultConfig(), nil)

	got := svc.Suggest(context.Background(), "prefix", 0)
	if len(got) > maxSuggestions {
		t.Errorf("len = %d, want at most %d with default limit", len(got), maxSuggestions)
	}
}

func TestSearch_SingleTitleHitScenario(t *testing.T) {
	idx := &mockIndex{entries: []*index.Entry{
		makeEntry(t, "ml-fund", "Machine Learning Fundamentals",
			"Supervised and unsupervised approaches.", []string{"ai"}),
		makeEntry(t, "grocery", "Grocery list", "Milk, eggs, coffee.", nil),
		makeEntry(t, "garden", "Garden plan", "Tomatoes go in the south bed.", nil),
	}}
	svc := New(idx, nil, nil, DefaultConfig(), nil)

	resp, err := svc.Search(context.Background(),
		mustRequest(t, "Machine Learning Fundamentals", request.DefaultOptions(), 10, 0))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if resp.TotalCount != 1 {
		t.Fatalf("TotalCount = %d, want exactly 1", resp.TotalCount)
	}
	top := resp.Results[0]
	if doc := top.Document(); doc.ID() != "ml-fund" {
		t.Errorf("top = %q, want ml-fund", doc.ID())
	}
	if !containsField(top.MatchedFields(), "title") {
		t.Errorf("matched fields %v should contain title", top.MatchedFields())
	}
	if top.Score() <= 0 {
		t.Errorf("score = %v, want positive", top.Score())
	}
}

func TestSearch_FacetsCoverAllCandidates(t *testing.T) {
	idx := &mockIndex{entries: []*index.Entry{
		makeEntry(t, "hit", "Deploy checklist", "Scale the deployment first.", nil),
		makeEntry(t, "miss", "Grocery list", "Milk, eggs, coffee.", nil),
	}}
	svc := New(idx, nil, nil, DefaultConfig(), nil)

	opts := request.NewOptions(true, true, false, false, false, true, false)
	resp, err := svc.Search(context.Background(), mustRequest(t, "deployment", opts, 10, 0))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if resp.TotalCount != 1 {
		t.Fatalf("TotalCount = %d, want 1", resp.TotalCount)
	}

	// Facets count the full filtered candidate set, zero-score entries
	// included, so the type facet covers both documents.
	var typeFacet *result.Facet
	for i := range resp.Facets {
		if resp.Facets[i].Field == "type" {
			typeFacet = &resp.Facets[i]
		}
	}
	if typeFacet == nil {
		t.Fatalf("no type facet in %v", resp.Facets)
	}
	if len(typeFacet.Values) != 1 || typeFacet.Values[0].Value != "note" || typeFacet.Values[0].Count != 2 {
		t.Errorf("type facet = %+v, want note:2", typeFacet.Values)
	}
}

func containsField(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}
