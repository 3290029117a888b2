package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Client represents a tenant: the identity boundary for all content,
// conversations and vector-index partitions.
type Client struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	WebsiteURL string    `json:"website_url"`
	APIKey     string    `json:"api_key"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// ClientCreate represents client provisioning data
type ClientCreate struct {
	Name       string `json:"name" validate:"required,max=255"`
	WebsiteURL string `json:"website_url" validate:"omitempty,url"`
}

// ClientUpdate represents client update data
type ClientUpdate struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=255"`
	WebsiteURL *string `json:"website_url,omitempty" validate:"omitempty,url"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// ClientRepository defines the interface for client storage
type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	Get(ctx context.Context, id uuid.UUID) (*Client, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*Client, error)
	List(ctx context.Context, limit, offset int) ([]Client, error)
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}
