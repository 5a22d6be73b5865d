package index

import "strings"

// minTokenLength: tokens of length <= 2 carry no search signal and are dropped.
const minTokenLength = 3

// stopWords are filtered out of the token stream at index-build time.
var stopWords = map[string]bool{
	"the": true, "and": true, "but": true, "for": true, "nor": true,
	"not": true, "are": true, "was": true, "were": true, "been": true,
	"being": true, "have": true, "has": true, "had": true, "having": true,
	"will": true, "would": true, "can": true, "could": true, "should": true,
	"this": true, "that": true, "these": true, "those": true, "with": true,
	"from": true, "into": true, "about": true, "then": true, "than": true,
	"them": true, "they": true, "there": true, "their": true, "what": true,
	"which": true, "your": true, "does": true, "did": true, "also": true,
}

// Tokenize lower-cases the input, replaces non-word characters with spaces,
// splits on whitespace, and drops short tokens and stop words. Pure and
// deterministic; shared by index building and stats.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < minTokenLength || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
