package service

import (
	"context"
	"time"

	"github.com/Ozeirr/ai-chatbot-platform/internal/chunker"
	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/Ozeirr/ai-chatbot-platform/internal/llm"
	"github.com/Ozeirr/ai-chatbot-platform/internal/vector"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockClientRepository mocks the ClientRepository interface
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Client, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDocumentRepository mocks the DocumentRepository interface
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.Document, error) {
	args := m.Called(ctx, clientID, limit, offset)
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) SetVectorID(ctx context.Context, id uuid.UUID, vectorID string) error {
	args := m.Called(ctx, id, vectorID)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.ChatSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) End(ctx context.Context, id uuid.UUID, endTime time.Time) (*domain.ChatSession, error) {
	args := m.Called(ctx, id, endTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

// MockMessageRepository mocks the MessageRepository interface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

// MockCrawlJobRepository mocks the CrawlJobRepository interface
type MockCrawlJobRepository struct {
	mock.Mock
}

func (m *MockCrawlJobRepository) Create(ctx context.Context, job *domain.CrawlJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockCrawlJobRepository) Get(ctx context.Context, id uuid.UUID) (*domain.CrawlJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CrawlJob), args.Error(1)
}

func (m *MockCrawlJobRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.CrawlJob, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]domain.CrawlJob), args.Error(1)
}

func (m *MockCrawlJobRepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCrawlJobRepository) MarkCompleted(ctx context.Context, id uuid.UUID, result *domain.CrawlResult, completedAt time.Time) error {
	args := m.Called(ctx, id, result, completedAt)
	return args.Error(0)
}

func (m *MockCrawlJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, errText string, completedAt time.Time) error {
	args := m.Called(ctx, id, errText, completedAt)
	return args.Error(0)
}

// MockAnalyticsRepository mocks the AnalyticsRepository interface
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) CountSessions(ctx context.Context, clientID uuid.UUID, from time.Time) (int, error) {
	args := m.Called(ctx, clientID, from)
	return args.Int(0), args.Error(1)
}

func (m *MockAnalyticsRepository) CountMessages(ctx context.Context, clientID uuid.UUID, from time.Time) (int, error) {
	args := m.Called(ctx, clientID, from)
	return args.Int(0), args.Error(1)
}

func (m *MockAnalyticsRepository) DailySessions(ctx context.Context, clientID uuid.UUID, from time.Time) (map[string]int, error) {
	args := m.Called(ctx, clientID, from)
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockAnalyticsRepository) DailyMessages(ctx context.Context, clientID uuid.UUID, from time.Time) (map[string]int, error) {
	args := m.Called(ctx, clientID, from)
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockAnalyticsRepository) SaveSnapshot(ctx context.Context, snapshot *domain.AnalyticsSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// MockVectorStore mocks the vector.Store interface
type MockVectorStore struct {
	mock.Mock
}

func (m *MockVectorStore) Upsert(ctx context.Context, clientID uuid.UUID, chunks []chunker.Chunk) error {
	args := m.Called(ctx, clientID, chunks)
	return args.Error(0)
}

func (m *MockVectorStore) Query(ctx context.Context, clientID uuid.UUID, text string, topK int) ([]vector.Match, error) {
	args := m.Called(ctx, clientID, text, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vector.Match), args.Error(1)
}

func (m *MockVectorStore) DeleteDocument(ctx context.Context, clientID, documentID uuid.UUID) error {
	args := m.Called(ctx, clientID, documentID)
	return args.Error(0)
}

func (m *MockVectorStore) DeleteClient(ctx context.Context, clientID uuid.UUID) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

// MockProvider mocks the llm.Provider interface
type MockProvider struct {
	mock.Mock
	name string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{name: name}
}

func (m *MockProvider) Name() string {
	if m.name != "" {
		return m.name
	}
	return "mock"
}

func (m *MockProvider) AvailableModels() []string {
	return []string{"mock-model"}
}

func (m *MockProvider) DefaultModel() string {
	return "mock-model"
}

func (m *MockProvider) IsConfigured() bool {
	return true
}

func (m *MockProvider) GenerateAnswer(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	args := m.Called(ctx, req, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}
