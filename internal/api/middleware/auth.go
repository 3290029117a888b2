package middleware

import (
	"context"
	"net/http"

	"github.com/Ozeirr/ai-chatbot-platform/internal/api/response"
	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/Ozeirr/ai-chatbot-platform/internal/service"
)

type contextKey string

const clientKey contextKey = "client"

// AuthMiddleware resolves the X-API-Key header to an active client
type AuthMiddleware struct {
	clientService *service.ClientService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(clientService *service.ClientService) *AuthMiddleware {
	return &AuthMiddleware{clientService: clientService}
}

// Authenticate validates the API key and stores the client in the context.
// Unknown and deactivated keys both fail the same way.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			response.Unauthorized(w, "missing API key")
			return
		}

		client, err := m.clientService.GetByAPIKey(r.Context(), apiKey)
		if err != nil {
			response.Unauthorized(w, "invalid API key")
			return
		}

		ctx := context.WithValue(r.Context(), clientKey, client)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClient gets the authenticated client from context
func GetClient(ctx context.Context) (*domain.Client, bool) {
	client, ok := ctx.Value(clientKey).(*domain.Client)
	return client, ok
}

// WithClient returns a context carrying the given client, as Authenticate
// would have set it
func WithClient(ctx context.Context, client *domain.Client) context.Context {
	return context.WithValue(ctx, clientKey, client)
}
