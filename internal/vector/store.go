package vector

import (
	"context"

	"github.com/Ozeirr/ai-chatbot-platform/internal/chunker"
	"github.com/google/uuid"
)

// Match is one retrieved chunk with its similarity score.
type Match struct {
	ID     string
	Score  float32
	Text   string
	Source string
	Title  string
}

// Store indexes and retrieves chunk embeddings. Every operation takes the
// owning client ID: the index is shared across tenants and the client ID is
// the mandatory partition key.
type Store interface {
	Upsert(ctx context.Context, clientID uuid.UUID, chunks []chunker.Chunk) error
	Query(ctx context.Context, clientID uuid.UUID, text string, topK int) ([]Match, error)
	DeleteDocument(ctx context.Context, clientID, documentID uuid.UUID) error
	DeleteClient(ctx context.Context, clientID uuid.UUID) error
}
