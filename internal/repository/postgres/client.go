package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ClientRepository implements domain.ClientRepository using PostgreSQL
type ClientRepository struct {
	db *DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, name, website_url, api_key, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		client.ID, client.Name, client.WebsiteURL, client.APIKey,
		client.IsActive, client.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

func (r *ClientRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT id, name, website_url, api_key, is_active, created_at
		FROM clients
		WHERE id = $1
	`

	client, err := scanClient(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return client, nil
}

func (r *ClientRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Client, error) {
	query := `
		SELECT id, name, website_url, api_key, is_active, created_at
		FROM clients
		WHERE api_key = $1 AND is_active = TRUE
	`

	client, err := scanClient(r.db.Pool.QueryRow(ctx, query, apiKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client by api key: %w", err)
	}

	return client, nil
}

func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	query := `
		SELECT id, name, website_url, api_key, is_active, created_at
		FROM clients
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *client)
	}

	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $2, website_url = $3, is_active = $4
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		client.ID, client.Name, client.WebsiteURL, client.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	err := row.Scan(&c.ID, &c.Name, &c.WebsiteURL, &c.APIKey, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
