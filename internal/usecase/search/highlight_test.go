package search

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kailas-cloud/memdex/internal/domain/search/query"
)

func TestBuildHighlights_TitleAndContent(t *testing.T) {
	doc := makeEntry(t, "a", "Logging guide", "How logging works in practice.", nil).Document()

	hl := buildHighlights(doc, query.Parse("logging"))
	if len(hl) != 2 {
		t.Fatalf("len = %d, want 2 (title and content)", len(hl))
	}
	if hl[0].Field != "title" || hl[1].Field != "content" {
		t.Errorf("fields = %s/%s, want title/content", hl[0].Field, hl[1].Field)
	}
	if len(hl[0].Fragments) != 1 || hl[0].Fragments[0] != "Logging guide" {
		t.Errorf("title fragments = %v", hl[0].Fragments)
	}
}

func TestBuildHighlights_EmptyQuery(t *testing.T) {
	doc := makeEntry(t, "a", "title", "content", nil).Document()
	if hl := buildHighlights(doc, query.Parse("")); hl != nil {
		t.Errorf("hl = %v, want nil", hl)
	}
}

func TestExtractFragments_WordBoundary(t *testing.T) {
	// "art" embedded in "smart" must not match; the standalone word must.
	frags := extractFragments("a smart take on art history", []string{"art"})
	if len(frags) != 1 {
		t.Fatalf("frags = %v, want exactly one", frags)
	}
	if !strings.Contains(frags[0], "art history") {
		t.Errorf("fragment %q should cover the standalone occurrence", frags[0])
	}
}

func TestExtractFragments_Ellipsis(t *testing.T) {
	pad := strings.Repeat("x ", 100)
	text := pad + "needle" + " " + pad

	frags := extractFragments(text, []string{"needle"})
	if len(frags) != 1 {
		t.Fatalf("frags = %v, want one", frags)
	}
	frag := frags[0]
	if !strings.HasPrefix(frag, "...") || !strings.HasSuffix(frag, "...") {
		t.Errorf("fragment %q should be ellipsized on both sides", frag)
	}
	if !strings.Contains(frag, "needle") {
		t.Errorf("fragment %q should contain the match", frag)
	}
	// window + match + window + ellipses, roughly.
	if len(frag) > 2*highlightWindow+len("needle")+6 {
		t.Errorf("fragment too long: %d chars", len(frag))
	}
}

func TestExtractFragments_ShortTextNoEllipsis(t *testing.T) {
	frags := extractFragments("short note", []string{"note"})
	if len(frags) != 1 || frags[0] != "short note" {
		t.Errorf("frags = %v, want [short note]", frags)
	}
}

func TestExtractFragments_CappedPerField(t *testing.T) {
	text := strings.Repeat("the word appears here. ", 10)
	frags := extractFragments(text, []string{"word"})
	if len(frags) != maxFragmentsPerField {
		t.Errorf("len = %d, want %d", len(frags), maxFragmentsPerField)
	}
}

func TestExtractFragments_CaseInsensitive(t *testing.T) {
	frags := extractFragments("Docker Compose setup", []string{"docker"})
	if len(frags) != 1 {
		t.Fatalf("frags = %v, want one", frags)
	}
	if !strings.Contains(frags[0], "Docker") {
		t.Errorf("fragment %q should keep original casing", frags[0])
	}
}

func TestExtractFragments_MultiByteSafe(t *testing.T) {
	// The window start lands mid-rune in the euro-sign run; both fragment
	// edges must snap to rune boundaries instead of splitting a codepoint.
	leading := strings.Repeat("€", 50)
	frags := extractFragments(leading+" match "+leading, []string{"match"})
	if len(frags) != 1 {
		t.Fatalf("frags = %v, want exactly one", frags)
	}
	if !utf8.ValidString(frags[0]) {
		t.Errorf("fragment is not valid UTF-8: %q", frags[0])
	}
	if !strings.HasPrefix(frags[0], "...") || !strings.HasSuffix(frags[0], "...") {
		t.Errorf("fragment should be ellipsized on both sides: %q", frags[0])
	}
	if !strings.Contains(frags[0], "match") {
		t.Errorf("fragment should contain the match: %q", frags[0])
	}
}
