package service

import (
	"context"
	"time"

	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/Ozeirr/ai-chatbot-platform/internal/vector"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ClientService handles tenant provisioning and lifecycle
type ClientService struct {
	clientRepo domain.ClientRepository
	store      vector.Store
}

// NewClientService creates a new client service
func NewClientService(clientRepo domain.ClientRepository, store vector.Store) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		store:      store,
	}
}

// Create provisions a new client with a fresh API key
func (s *ClientService) Create(ctx context.Context, in domain.ClientCreate) (*domain.Client, error) {
	client := &domain.Client{
		ID:         uuid.New(),
		Name:       in.Name,
		WebsiteURL: in.WebsiteURL,
		APIKey:     uuid.NewString(),
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	log.Info().Str("client_id", client.ID.String()).Str("name", client.Name).Msg("created client")
	return client, nil
}

// Get returns a client by ID
func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return s.clientRepo.Get(ctx, id)
}

// GetByAPIKey returns the active client owning the API key
func (s *ClientService) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Client, error) {
	return s.clientRepo.GetByAPIKey(ctx, apiKey)
}

// List returns clients with pagination
func (s *ClientService) List(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	return s.clientRepo.List(ctx, limit, offset)
}

// Update applies a partial update; nil fields keep their current value
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, in domain.ClientUpdate) (*domain.Client, error) {
	client, err := s.clientRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		client.Name = *in.Name
	}
	if in.WebsiteURL != nil {
		client.WebsiteURL = *in.WebsiteURL
	}
	if in.IsActive != nil {
		client.IsActive = *in.IsActive
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// Delete removes the client row and evicts its vectors. A vector store
// failure does not undo the delete; the orphaned points are unreachable
// because queries always filter by client ID.
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.store.DeleteClient(ctx, id); err != nil {
		log.Error().Str("client_id", id.String()).Err(err).Msg("failed to delete client vectors")
	}

	return nil
}
