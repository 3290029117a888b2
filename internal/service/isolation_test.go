package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Ozeirr/ai-chatbot-platform/internal/chunker"
	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/Ozeirr/ai-chatbot-platform/internal/llm"
	"github.com/Ozeirr/ai-chatbot-platform/internal/vector"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fakeVectorStore is an in-memory vector.Store that models the shared index
// the way the real one partitions it: chunks live under the client id they
// were upserted with, and a query reads only the partition it was given. It
// also rejects chunks whose metadata names a different owner than the
// partition they are written to.
type fakeVectorStore struct {
	mu         sync.Mutex
	partitions map[uuid.UUID][]chunker.Chunk
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{partitions: make(map[uuid.UUID][]chunker.Chunk)}
}

func (f *fakeVectorStore) Upsert(ctx context.Context, clientID uuid.UUID, chunks []chunker.Chunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range chunks {
		owner, _ := c.Metadata["client_id"].(string)
		if owner != clientID.String() {
			return fmt.Errorf("chunk %s owned by %q written to partition %s", c.ID, owner, clientID)
		}
	}
	f.partitions[clientID] = append(f.partitions[clientID], chunks...)
	return nil
}

func (f *fakeVectorStore) Query(ctx context.Context, clientID uuid.UUID, text string, topK int) ([]vector.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := make([]vector.Match, 0, topK)
	for _, c := range f.partitions[clientID] {
		if len(matches) == topK {
			break
		}
		source, _ := c.Metadata["source"].(string)
		title, _ := c.Metadata["title"].(string)
		matches = append(matches, vector.Match{ID: c.ID, Score: 1, Text: c.Text, Source: source, Title: title})
	}
	return matches, nil
}

func (f *fakeVectorStore) DeleteDocument(ctx context.Context, clientID, documentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.partitions[clientID][:0]
	for _, c := range f.partitions[clientID] {
		if docID, _ := c.Metadata["document_id"].(string); docID != documentID.String() {
			kept = append(kept, c)
		}
	}
	f.partitions[clientID] = kept
	return nil
}

func (f *fakeVectorStore) DeleteClient(ctx context.Context, clientID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.partitions, clientID)
	return nil
}

// Two tenants ingest overlapping return-policy content; a chat retrieval for
// one must never surface the other's chunks.
func TestChat_RetrievalStaysInsideTenantPartition(t *testing.T) {
	ctx := context.Background()
	store := newFakeVectorStore()

	acme := testClient()
	globex := &domain.Client{ID: uuid.New(), Name: "Globex", APIKey: uuid.NewString(), IsActive: true}

	docRepo := new(MockDocumentRepository)
	docSvc := NewDocumentService(docRepo, chunker.New(1000, 200), store, testQueue(t))

	acmeDoc := &domain.Document{
		ID:       uuid.New(),
		ClientID: acme.ID,
		Title:    "Return Policy",
		Content:  "Returns are accepted within 30 days. Acme ships replacements for free.",
	}
	globexDoc := &domain.Document{
		ID:       uuid.New(),
		ClientID: globex.ID,
		Title:    "Return Policy",
		Content:  "Returns are accepted within 30 days. Globex charges a restocking fee.",
	}

	docRepo.On("Get", ctx, acmeDoc.ID).Return(acmeDoc, nil)
	docRepo.On("Get", ctx, globexDoc.ID).Return(globexDoc, nil)
	docRepo.On("SetVectorID", ctx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("string")).Return(nil)

	assert.NoError(t, docSvc.Ingest(ctx, acme.ID, acmeDoc.ID))
	assert.NoError(t, docSvc.Ingest(ctx, globex.ID, globexDoc.ID))

	sessionRepo := new(MockSessionRepository)
	messageRepo := new(MockMessageRepository)
	provider := NewMockProvider("mock")
	router := llm.NewRouter("mock")
	router.RegisterProvider(provider)
	chatSvc := NewChatService(sessionRepo, messageRepo, store, router)

	sessionRepo.On("Create", ctx, mock.AnythingOfType("*domain.ChatSession")).Return(nil)
	messageRepo.On("ListBySession", ctx, mock.AnythingOfType("uuid.UUID")).Return([]domain.ChatMessage{}, nil)
	messageRepo.On("Create", ctx, mock.AnythingOfType("*domain.ChatMessage")).Return(nil)

	var captured llm.Request
	provider.On("GenerateAnswer", ctx, mock.AnythingOfType("llm.Request"), "").
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(llm.Request)
		}).
		Return(&llm.Response{Answer: "Within 30 days."}, nil)

	_, err := chatSvc.Chat(ctx, acme, domain.ChatRequest{Message: "What is the return window?"})
	assert.NoError(t, err)

	if assert.NotEmpty(t, captured.Passages) {
		for _, p := range captured.Passages {
			assert.Contains(t, p.Text, "Acme")
			assert.NotContains(t, p.Text, "Globex")
		}
	}
}
