package search

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/memdex/internal/domain/search/query"
)

// maxSuggestions caps the suggestion list per query.
const maxSuggestions = 5

// minTemplateQueryLength: template expansions only make sense for queries
// that carry some substance.
const minTemplateQueryLength = 4

// conceptAssociations maps extracted query terms to related search terms.
var conceptAssociations = map[string][]string{
	"machine":     {"machine learning", "neural networks", "model training"},
	"learning":    {"machine learning", "deep learning", "tutorials"},
	"web":         {"web development", "frontend", "backend"},
	"api":         {"rest api", "api design", "endpoints"},
	"database":    {"database design", "sql", "indexing"},
	"search":      {"full-text search", "ranking", "relevance"},
	"test":        {"unit testing", "integration testing", "test coverage"},
	"deploy":      {"deployment", "ci/cd", "containers"},
	"docker":      {"containers", "docker compose", "images"},
	"security":    {"authentication", "authorization", "encryption"},
	"performance": {"profiling", "benchmarks", "optimization"},
	"error":       {"error handling", "debugging", "logging"},
	"config":      {"configuration", "environment variables", "settings"},
	"cache":       {"caching", "invalidation", "ttl"},
	"go":          {"golang", "goroutines", "channels"},
}

// buildSuggestions produces related queries for a search: concept
// associations keyed by the query terms, plus template expansions for
// non-trivial queries. Capped at maxSuggestions.
func buildSuggestions(raw string, q query.Query) []string {
	seen := map[string]bool{strings.ToLower(raw): true}
	var out []string

	add := func(s string) {
		key := strings.ToLower(s)
		if !seen[key] && len(out) < maxSuggestions {
			seen[key] = true
			out = append(out, s)
		}
	}

	for _, term := range q.Terms() {
		for _, related := range conceptAssociations[strings.ToLower(term)] {
			add(related)
		}
	}

	trimmed := strings.TrimSpace(raw)
	if len(trimmed) >= minTemplateQueryLength {
		add(trimmed + " examples")
		add(trimmed + " tutorial")
		add("how to " + trimmed)
	}

	return out
}

// prefixSuggestions matches a partial query against known strings (indexed
// titles and tags) by case-insensitive prefix, sorted for determinism.
func prefixSuggestions(partial string, known []string, limit int) []string {
	p := strings.ToLower(strings.TrimSpace(partial))
	if p == "" {
		return nil
	}

	seen := make(map[string]bool, len(known))
	var out []string
	for _, k := range known {
		if !strings.HasPrefix(strings.ToLower(k), p) {
			continue
		}
		if key := strings.ToLower(k); !seen[key] {
			seen[key] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
