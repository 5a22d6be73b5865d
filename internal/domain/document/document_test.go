package document

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		title   string
		content string
		wantErr string
	}{
		{"valid", "ctx_1", "title", "content", ""},
		{"hyphenated id", "a-b-c", "title", "content", ""},
		{"missing id", "", "title", "content", "ID is required"},
		{"id with spaces", "bad id", "title", "content", "alphanumeric"},
		{"id with slash", "a/b", "title", "content", "alphanumeric"},
		{"id too long", strings.Repeat("a", 257), "title", "content", "too long"},
		{"missing title", "ctx_1", "", "content", "title is required"},
		{"missing content", "ctx_1", "title", "", "content is required"},
		{"content too large", "ctx_1", "title", strings.Repeat("x", MaxContentSize+1), "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.id, tt.title, tt.content, "note", nil, "", ImportanceMedium)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	d, err := New("ctx_1", "title", "content", "", nil, "", "")
	require.NoError(t, err)

	assert.Equal(t, "note", d.Type())
	assert.Equal(t, ImportanceMedium, d.Importance())
	assert.Equal(t, 0, d.Interactions())
	assert.False(t, d.CreatedAt().IsZero())
	assert.Equal(t, d.CreatedAt(), d.UpdatedAt())
}

func TestNewRejectsUnknownImportance(t *testing.T) {
	_, err := New("ctx_1", "title", "content", "note", nil, "", Importance("urgent"))
	assert.Error(t, err)
}

func TestNewClonesTags(t *testing.T) {
	tags := []string{"a", "b"}
	d, err := New("ctx_1", "title", "content", "note", tags, "", ImportanceLow)
	require.NoError(t, err)

	tags[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, d.Tags())
}

func TestWithUpdate(t *testing.T) {
	d, err := New("ctx_1", "old title", "old content", "note", []string{"old"}, "owner", ImportanceLow)
	require.NoError(t, err)

	updated := d.WithUpdate("new title", "", "decision", []string{}, ImportanceHigh)

	assert.Equal(t, "new title", updated.Title())
	assert.Equal(t, "old content", updated.Content(), "empty content leaves the old value")
	assert.Equal(t, "decision", updated.Type())
	assert.Empty(t, updated.Tags(), "non-nil empty slice clears tags")
	assert.Equal(t, ImportanceHigh, updated.Importance())
	assert.False(t, updated.UpdatedAt().Before(d.UpdatedAt()))

	// Original stays untouched.
	assert.Equal(t, "old title", d.Title())
	assert.Equal(t, ImportanceLow, d.Importance())
}

func TestWithCounters(t *testing.T) {
	d, err := New("ctx_1", "title", "content", "note", nil, "", ImportanceMedium)
	require.NoError(t, err)

	assert.Equal(t, 42, d.WithTokenCount(42).TokenCount())
	assert.Equal(t, 7, d.WithInteractions(7).Interactions())
	assert.Equal(t, 0, d.TokenCount())
}

func TestImportanceIsValid(t *testing.T) {
	for _, i := range []Importance{ImportanceLow, ImportanceMedium, ImportanceHigh, ImportanceCritical} {
		assert.True(t, i.IsValid(), string(i))
	}
	assert.False(t, Importance("").IsValid())
	assert.False(t, Importance("urgent").IsValid())
}

func TestAccessorsOnReturnedValue(t *testing.T) {
	// Accessors are value-receiver methods, so they chain directly on
	// function return values without binding a local first.
	build := func() Document {
		return Reconstruct("ctx_1", "chained", "content", "note",
			[]string{"a"}, "owner-1", ImportanceHigh, 3, 9,
			time.Now().UTC(), time.Now().UTC())
	}

	assert.Equal(t, "chained", build().Title())
	assert.Equal(t, []string{"a"}, build().Tags())
	assert.Equal(t, 9, build().TokenCount())
	assert.False(t, build().UpdatedAt().IsZero())
}
