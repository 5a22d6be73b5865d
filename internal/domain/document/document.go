package document

import (
	"fmt"
	"regexp"
	"time"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxContentSize is the maximum context content size in bytes.
const MaxContentSize = 163840 // 160KB

// Importance ranks a context record for relevance boosting.
type Importance string

const (
	ImportanceLow      Importance = "low"
	ImportanceMedium   Importance = "medium"
	ImportanceHigh     Importance = "high"
	ImportanceCritical Importance = "critical"
)

// IsValid reports whether the importance level is known.
func (i Importance) IsValid() bool {
	switch i {
	case ImportanceLow, ImportanceMedium, ImportanceHigh, ImportanceCritical:
		return true
	}
	return false
}

// Document is a stored context record (immutable value object).
type Document struct {
	id           string
	title        string
	content      string
	ctxType      string
	tags         []string
	ownerID      string
	importance   Importance
	interactions int
	tokenCount   int
	createdAt    time.Time
	updatedAt    time.Time
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Title and content are required,
// content max 160KB. Importance defaults to medium.
func New(
	id, title, content, ctxType string,
	tags []string, ownerID string, importance Importance,
) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("context ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("context ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("context ID must be alphanumeric with underscores and hyphens")
	}
	if title == "" {
		return Document{}, fmt.Errorf("title is required")
	}
	if content == "" {
		return Document{}, fmt.Errorf("content is required")
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}
	if ctxType == "" {
		ctxType = "note"
	}
	if importance == "" {
		importance = ImportanceMedium
	}
	if !importance.IsValid() {
		return Document{}, fmt.Errorf("unknown importance %q", importance)
	}

	now := time.Now().UTC()
	return Document{
		id:         id,
		title:      title,
		content:    content,
		ctxType:    ctxType,
		tags:       cloneTags(tags),
		ownerID:    ownerID,
		importance: importance,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id, title, content, ctxType string,
	tags []string, ownerID string, importance Importance,
	interactions, tokenCount int,
	createdAt, updatedAt time.Time,
) Document {
	return Document{
		id: id, title: title, content: content, ctxType: ctxType,
		tags: tags, ownerID: ownerID, importance: importance,
		interactions: interactions, tokenCount: tokenCount,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the context identifier.
func (d Document) ID() string { return d.id }

// Title returns the context title.
func (d Document) Title() string { return d.title }

// Content returns the context text content.
func (d Document) Content() string { return d.content }

// Type returns the context type (note, conversation, decision, ...).
func (d Document) Type() string { return d.ctxType }

// Tags returns the context tags (case-sensitive as stored).
func (d Document) Tags() []string { return d.tags }

// OwnerID returns the owning session or user identifier.
func (d Document) OwnerID() string { return d.ownerID }

// Importance returns the importance level.
func (d Document) Importance() Importance { return d.importance }

// Interactions returns how many times the context was accessed.
func (d Document) Interactions() int { return d.interactions }

// TokenCount returns the stored token count.
func (d Document) TokenCount() int { return d.tokenCount }

// CreatedAt returns the creation timestamp.
func (d Document) CreatedAt() time.Time { return d.createdAt }

// UpdatedAt returns the last modification timestamp.
func (d Document) UpdatedAt() time.Time { return d.updatedAt }

// WithUpdate returns a copy with new content fields and a fresh UpdatedAt.
func (d Document) WithUpdate(title, content, ctxType string, tags []string, importance Importance) Document {
	if title != "" {
		d.title = title
	}
	if content != "" {
		d.content = content
	}
	if ctxType != "" {
		d.ctxType = ctxType
	}
	if tags != nil {
		d.tags = cloneTags(tags)
	}
	if importance != "" {
		d.importance = importance
	}
	d.updatedAt = time.Now().UTC()
	return d
}

// WithTokenCount returns a copy with the token count set.
func (d Document) WithTokenCount(n int) Document {
	d.tokenCount = n
	return d
}

// WithInteractions returns a copy with the interaction counter set.
func (d Document) WithInteractions(n int) Document {
	d.interactions = n
	return d
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	c := make([]string, len(tags))
	copy(c, tags)
	return c
}
