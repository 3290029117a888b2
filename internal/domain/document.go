package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Document is a unit of ingestable content owned by exactly one client.
// VectorID stays nil until background ingestion completes at least once.
type Document struct {
	ID        uuid.UUID      `json:"id"`
	ClientID  uuid.UUID      `json:"client_id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	URL       string         `json:"url,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	VectorID  *string        `json:"vector_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// DocumentCreate represents document creation data
type DocumentCreate struct {
	Title    string         `json:"title" validate:"required,max=255"`
	Content  string         `json:"content" validate:"required"`
	URL      string         `json:"url,omitempty" validate:"omitempty,url"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DocumentUpdate represents document update data
type DocumentUpdate struct {
	Title    *string        `json:"title,omitempty" validate:"omitempty,max=255"`
	Content  *string        `json:"content,omitempty"`
	URL      *string        `json:"url,omitempty" validate:"omitempty,url"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DocumentRepository defines the interface for document storage
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	Get(ctx context.Context, id uuid.UUID) (*Document, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]Document, error)
	Update(ctx context.Context, doc *Document) error
	SetVectorID(ctx context.Context, id uuid.UUID, vectorID string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
