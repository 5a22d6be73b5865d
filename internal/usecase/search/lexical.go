package search

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/memdex/internal/domain/search/query"
	"github.com/kailas-cloud/memdex/internal/index"
)

// Weights holds the per-field lexical match weights. The constants are
// tuning parameters, not invariants; the defaults match the relative value
// of a title hit over a content hit over a token hit.
type Weights struct {
	TitleExact   float64
	ContentExact float64
	TagExact     float64
	TokenExact   float64
	TitleFuzzy   float64
	ContentFuzzy float64
	TagFuzzy     float64
	// FuzzyThreshold is the minimum normalized Levenshtein similarity for a
	// fuzzy hit to count.
	FuzzyThreshold float64
}

// DefaultWeights returns the default lexical weight set.
func DefaultWeights() Weights {
	return Weights{
		TitleExact:     3.0,
		ContentExact:   1.0,
		TagExact:       2.0,
		TokenExact:     0.5,
		TitleFuzzy:     2.0,
		ContentFuzzy:   0.5,
		TagFuzzy:       1.0,
		FuzzyThreshold: 0.7,
	}
}

// lexicalScore computes the lexical relevance of one entry against a parsed
// query. Returns the normalized score and the fields that matched; a zero
// score means no match and the entry must be excluded from results.
//
// Query terms are matched as case-insensitive substrings of the raw title
// and content, not as normalized tokens; the token stream only feeds the
// exact-membership signal. Indexing-side normalization (stop words, short
// tokens) therefore does not constrain querying.
func lexicalScore(e *index.Entry, q query.Query, w Weights, fuzzy bool) (float64, []string) {
	doc := e.Document()
	title := strings.ToLower(doc.Title())
	content := strings.ToLower(doc.Content())

	var total float64
	matched := newFieldSet()

	for _, term := range q.Terms() {
		t := strings.ToLower(term)
		total += scoreTerm(e, title, content, t, w, fuzzy, matched)
	}
	for _, phrase := range q.Phrases() {
		p := strings.ToLower(phrase)
		// Phrases must match as contiguous substrings; no fuzzy fallback.
		total += scoreTerm(e, title, content, p, w, false, matched)
	}

	if total == 0 {
		return 0, nil
	}
	// Penalize long documents so volume alone cannot accumulate score.
	return total / math.Log(float64(len(doc.Content()))+1), matched.fields
}

func scoreTerm(
	e *index.Entry, title, content, term string,
	w Weights, fuzzy bool, matched *fieldSet,
) float64 {
	var s float64

	if strings.Contains(title, term) {
		s += w.TitleExact
		matched.add("title")
	} else if fuzzy && similarity(title, term) >= w.FuzzyThreshold {
		s += w.TitleFuzzy
		matched.add("title")
	}

	if strings.Contains(content, term) {
		s += w.ContentExact
		matched.add("content")
	} else if fuzzy && similarity(content, term) >= w.FuzzyThreshold {
		s += w.ContentFuzzy
		matched.add("content")
	}

	for _, tag := range e.Document().Tags() {
		lt := strings.ToLower(tag)
		if strings.Contains(lt, term) {
			s += w.TagExact
			matched.add("tags")
		} else if fuzzy && similarity(lt, term) >= w.FuzzyThreshold {
			s += w.TagFuzzy
			matched.add("tags")
		}
	}

	if e.HasToken(term) {
		s += w.TokenExact
		matched.add("tokens")
	}

	return s
}

// similarity is the normalized Levenshtein similarity:
// 1 - dist(a,b) / max(runes(a), runes(b)). 1.0 for two empty strings.
// The distance counts rune edits, so the denominator is in runes too.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes the edit distance between two strings with a
// two-row dynamic programming table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// fieldSet accumulates matched field names, preserving first-hit order.
type fieldSet struct {
	seen   map[string]bool
	fields []string
}

func newFieldSet() *fieldSet {
	return &fieldSet{seen: make(map[string]bool, 4)}
}

func (f *fieldSet) add(name string) {
	if !f.seen[name] {
		f.seen[name] = true
		f.fields = append(f.fields, name)
	}
}
