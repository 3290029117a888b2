package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DocumentRepository implements domain.DocumentRepository using PostgreSQL
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (id, client_id, title, content, url, metadata, vector_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		doc.ID, doc.ClientID, doc.Title, doc.Content, doc.URL,
		doc.Metadata, doc.VectorID, doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

func (r *DocumentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	query := `
		SELECT id, client_id, title, content, url, metadata, vector_id, created_at
		FROM documents
		WHERE id = $1
	`

	doc, err := scanDocument(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

func (r *DocumentRepository) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.Document, error) {
	query := `
		SELECT id, client_id, title, content, url, metadata, vector_id, created_at
		FROM documents
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}

	return docs, rows.Err()
}

func (r *DocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	query := `
		UPDATE documents
		SET title = $2, content = $3, url = $4, metadata = $5
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		doc.ID, doc.Title, doc.Content, doc.URL, doc.Metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *DocumentRepository) SetVectorID(ctx context.Context, id uuid.UUID, vectorID string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE documents SET vector_id = $2 WHERE id = $1`, id, vectorID)
	if err != nil {
		return fmt.Errorf("failed to set document vector id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var d domain.Document
	err := row.Scan(&d.ID, &d.ClientID, &d.Title, &d.Content, &d.URL,
		&d.Metadata, &d.VectorID, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
