package contextrepo

import (
	"time"

	"github.com/kailas-cloud/memdex/internal/domain/document"
)

// contextDTO is the stored JSON shape of a context record.
type contextDTO struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Type         string   `json:"type"`
	Tags         []string `json:"tags,omitempty"`
	OwnerID      string   `json:"owner_id,omitempty"`
	Importance   string   `json:"importance"`
	Interactions int      `json:"interactions"`
	TokenCount   int      `json:"token_count"`
	CreatedAt    int64    `json:"created_at"`
	UpdatedAt    int64    `json:"updated_at"`
}

func toDTO(doc *document.Document) contextDTO {
	return contextDTO{
		ID:           doc.ID(),
		Title:        doc.Title(),
		Content:      doc.Content(),
		Type:         doc.Type(),
		Tags:         doc.Tags(),
		OwnerID:      doc.OwnerID(),
		Importance:   string(doc.Importance()),
		Interactions: doc.Interactions(),
		TokenCount:   doc.TokenCount(),
		CreatedAt:    doc.CreatedAt().UnixMilli(),
		UpdatedAt:    doc.UpdatedAt().UnixMilli(),
	}
}

func fromDTO(d contextDTO) document.Document {
	return document.Reconstruct(
		d.ID, d.Title, d.Content, d.Type,
		d.Tags, d.OwnerID, document.Importance(d.Importance),
		d.Interactions, d.TokenCount,
		time.UnixMilli(d.CreatedAt).UTC(), time.UnixMilli(d.UpdatedAt).UTC(),
	)
}
