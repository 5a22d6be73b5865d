package query

import "strings"

// Query is a parsed search query: double-quoted phrases plus loose terms.
type Query struct {
	phrases []string
	terms   []string
}

// Parse extracts double-quoted substrings as phrases (quotes stripped),
// removes them from the input, and splits the remainder on whitespace into
// terms. An empty query parses to an empty Query, which callers must treat
// as "match all", never as "match nothing".
func Parse(raw string) Query {
	var phrases []string
	rest := raw

	for {
		open := strings.IndexByte(rest, '"')
		if open < 0 {
			break
		}
		close := strings.IndexByte(rest[open+1:], '"')
		if close < 0 {
			// Unbalanced quote: treat the tail as plain terms.
			rest = rest[:open] + " " + rest[open+1:]
			break
		}
		phrase := rest[open+1 : open+1+close]
		if phrase = strings.TrimSpace(phrase); phrase != "" {
			phrases = append(phrases, phrase)
		}
		rest = rest[:open] + " " + rest[open+close+2:]
	}

	return Query{phrases: phrases, terms: strings.Fields(rest)}
}

// Phrases returns the quoted phrases, quotes stripped, in input order.
func (q Query) Phrases() []string { return q.phrases }

// Terms returns the unquoted terms in input order.
func (q Query) Terms() []string { return q.terms }

// IsEmpty reports whether the query carries no constraint.
func (q Query) IsEmpty() bool { return len(q.phrases) == 0 && len(q.terms) == 0 }
