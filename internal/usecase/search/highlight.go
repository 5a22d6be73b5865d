package search

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/memdex/internal/domain/document"
	"github.com/kailas-cloud/memdex/internal/domain/search/query"
	"github.com/kailas-cloud/memdex/internal/domain/search/result"
)

// highlightWindow is the number of characters kept on each side of a match.
const highlightWindow = 75

// maxFragmentsPerField caps fragments so a repetitive document cannot bloat
// the response.
const maxFragmentsPerField = 3

// buildHighlights extracts match fragments from title and content for every
// term and phrase in the query. Matching is case-insensitive and anchored on
// word boundaries.
func buildHighlights(doc document.Document, q query.Query) []result.Highlight {
	needles := make([]string, 0, len(q.Terms())+len(q.Phrases()))
	for _, t := range q.Terms() {
		needles = append(needles, strings.ToLower(t))
	}
	for _, p := range q.Phrases() {
		needles = append(needles, strings.ToLower(p))
	}
	if len(needles) == 0 {
		return nil
	}

	var out []result.Highlight
	if frags := extractFragments(doc.Title(), needles); len(frags) > 0 {
		out = append(out, result.Highlight{Field: "title", Fragments: frags})
	}
	if frags := extractFragments(doc.Content(), needles); len(frags) > 0 {
		out = append(out, result.Highlight{Field: "content", Fragments: frags})
	}
	return out
}

// extractFragments finds word-boundary-anchored occurrences of any needle
// and returns ±window character excerpts, ellipsized when truncated.
func extractFragments(text string, needles []string) []string {
	lower := strings.ToLower(text)
	var frags []string

	for _, needle := range needles {
		if needle == "" {
			continue
		}
		for from := 0; len(frags) < maxFragmentsPerField; {
			i := strings.Index(lower[from:], needle)
			if i < 0 {
				break
			}
			pos := from + i
			from = pos + len(needle)
			if !atWordBoundary(lower, pos, len(needle)) {
				continue
			}
			frags = append(frags, fragmentAround(text, pos, len(needle)))
		}
	}
	return frags
}

// atWordBoundary reports whether the match at [pos, pos+n) is not embedded
// inside a larger word.
func atWordBoundary(s string, pos, n int) bool {
	if pos > 0 && isWordByte(s[pos-1]) {
		return false
	}
	if end := pos + n; end < len(s) && isWordByte(s[end]) {
		return false
	}
	return true
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func fragmentAround(text string, pos, n int) string {
	start := pos - highlightWindow
	if start < 0 {
		start = 0
	}
	end := pos + n + highlightWindow
	if end > len(text) {
		end = len(text)
	}
	// Window bounds are byte offsets, snap them to rune starts so multi-byte
	// text is never cut mid-rune.
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	frag := text[start:end]
	if start > 0 {
		frag = "..." + frag
	}
	if end < len(text) {
		frag += "..."
	}
	return frag
}
