package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ozeirr/ai-chatbot-platform/internal/api/middleware"
	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	redisrepo "github.com/Ozeirr/ai-chatbot-platform/internal/repository/redis"
	"github.com/Ozeirr/ai-chatbot-platform/internal/service"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// stubClientRepo serves a single client by API key
type stubClientRepo struct {
	client *domain.Client
}

func (r *stubClientRepo) Create(ctx context.Context, client *domain.Client) error { return nil }

func (r *stubClientRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return nil, domain.ErrNotFound
}

func (r *stubClientRepo) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Client, error) {
	if r.client != nil && r.client.APIKey == apiKey {
		return r.client, nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubClientRepo) List(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	return nil, nil
}

func (r *stubClientRepo) Update(ctx context.Context, client *domain.Client) error { return nil }

func (r *stubClientRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func testClient() *domain.Client {
	return &domain.Client{
		ID:       uuid.New(),
		Name:     "Acme Corp",
		APIKey:   uuid.NewString(),
		IsActive: true,
	}
}

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClient(r.Context()); !ok {
			t.Error("expected client in context")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_MissingKey(t *testing.T) {
	auth := middleware.NewAuthMiddleware(service.NewClientService(&stubClientRepo{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()

	auth.Authenticate(okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthenticate_UnknownKey(t *testing.T) {
	auth := middleware.NewAuthMiddleware(service.NewClientService(&stubClientRepo{client: testClient()}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	rec := httptest.NewRecorder()

	auth.Authenticate(okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthenticate_ValidKey(t *testing.T) {
	client := testClient()
	auth := middleware.NewAuthMiddleware(service.NewClientService(&stubClientRepo{client: client}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("X-API-Key", client.APIKey)
	rec := httptest.NewRecorder()

	auth.Authenticate(okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestLimit_BlocksOverBudget(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redisrepo.NewClientFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	limiter := redisrepo.NewRateLimiter(cache, 2, 0)
	mw := middleware.NewRateLimitMiddleware(limiter)

	client := testClient()
	handler := mw.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
		req = req.WithContext(middleware.WithClient(req.Context(), client))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("expected first two requests to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected third request to be limited, got %d", codes[2])
	}
}

func TestLimit_IsolatesClients(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redisrepo.NewClientFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	limiter := redisrepo.NewRateLimiter(cache, 1, 0)
	mw := middleware.NewRateLimitMiddleware(limiter)

	handler := mw.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Exhaust the first client's budget
	first := testClient()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
		req = req.WithContext(middleware.WithClient(req.Context(), first))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	// A different client still gets through
	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	req = req.WithContext(middleware.WithClient(req.Context(), testClient()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}
