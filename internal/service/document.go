package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ozeirr/ai-chatbot-platform/internal/chunker"
	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/Ozeirr/ai-chatbot-platform/internal/queue"
	"github.com/Ozeirr/ai-chatbot-platform/internal/vector"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TaskIngestDocument is the background task that chunks, embeds and indexes
// one document.
const TaskIngestDocument = "ingest_document"

// IngestDocumentTask is the payload for TaskIngestDocument
type IngestDocumentTask struct {
	DocumentID uuid.UUID `json:"document_id"`
	ClientID   uuid.UUID `json:"client_id"`
}

// DocumentService handles document CRUD and ingestion
type DocumentService struct {
	docRepo domain.DocumentRepository
	chunker *chunker.Chunker
	store   vector.Store
	tasks   *queue.Queue
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo domain.DocumentRepository,
	ch *chunker.Chunker,
	store vector.Store,
	tasks *queue.Queue,
) *DocumentService {
	return &DocumentService{
		docRepo: docRepo,
		chunker: ch,
		store:   store,
		tasks:   tasks,
	}
}

// RegisterHandlers binds this service's task types to the queue
func (s *DocumentService) RegisterHandlers(q *queue.Queue) {
	q.RegisterHandler(TaskIngestDocument, func(ctx context.Context, payload json.RawMessage) error {
		var task IngestDocumentTask
		if err := json.Unmarshal(payload, &task); err != nil {
			return fmt.Errorf("failed to decode ingest task: %w", err)
		}
		return s.Ingest(ctx, task.ClientID, task.DocumentID)
	})
}

// Create stores the document and schedules its ingestion. The document is
// immediately readable; its vector ID stays empty until ingestion finishes.
func (s *DocumentService) Create(ctx context.Context, clientID uuid.UUID, in domain.DocumentCreate) (*domain.Document, error) {
	doc := &domain.Document{
		ID:        uuid.New(),
		ClientID:  clientID,
		Title:     in.Title,
		Content:   in.Content,
		URL:       in.URL,
		Metadata:  in.Metadata,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.scheduleIngest(ctx, clientID, doc.ID)
	return doc, nil
}

// Get returns a document owned by the client. Documents of other clients
// are reported as not found.
func (s *DocumentService) Get(ctx context.Context, clientID, docID uuid.UUID) (*domain.Document, error) {
	doc, err := s.docRepo.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.ClientID != clientID {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// List returns the client's documents with pagination
func (s *DocumentService) List(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.Document, error) {
	return s.docRepo.ListByClient(ctx, clientID, limit, offset)
}

// Update applies a partial update. A content change schedules re-ingestion,
// which overwrites the document's chunks in the index.
func (s *DocumentService) Update(ctx context.Context, clientID, docID uuid.UUID, in domain.DocumentUpdate) (*domain.Document, error) {
	doc, err := s.Get(ctx, clientID, docID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		doc.Title = *in.Title
	}
	if in.Content != nil {
		doc.Content = *in.Content
	}
	if in.URL != nil {
		doc.URL = *in.URL
	}
	if in.Metadata != nil {
		doc.Metadata = in.Metadata
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	if in.Content != nil {
		s.scheduleIngest(ctx, clientID, docID)
	}

	return doc, nil
}

// Delete removes the document row and its chunks from the index
func (s *DocumentService) Delete(ctx context.Context, clientID, docID uuid.UUID) error {
	if _, err := s.Get(ctx, clientID, docID); err != nil {
		return err
	}

	if err := s.docRepo.Delete(ctx, docID); err != nil {
		return err
	}

	if err := s.store.DeleteDocument(ctx, clientID, docID); err != nil {
		log.Error().
			Str("client_id", clientID.String()).
			Str("document_id", docID.String()).
			Err(err).Msg("failed to delete document vectors")
	}

	return nil
}

// Ingest chunks, embeds and indexes one document, then stamps its vector ID.
// Chunk IDs are derived from the document ID, so repeated ingestion of the
// same document overwrites its points instead of accumulating duplicates.
func (s *DocumentService) Ingest(ctx context.Context, clientID, docID uuid.UUID) error {
	doc, err := s.Get(ctx, clientID, docID)
	if err != nil {
		return fmt.Errorf("failed to load document for ingestion: %w", err)
	}

	chunks := s.chunker.ProcessDocument(doc)
	if err := s.store.Upsert(ctx, clientID, chunks); err != nil {
		return fmt.Errorf("failed to index document %s: %w", docID, err)
	}

	vectorID := fmt.Sprintf("processed_%s", docID)
	if err := s.docRepo.SetVectorID(ctx, docID, vectorID); err != nil {
		return fmt.Errorf("failed to record vector id: %w", err)
	}

	log.Info().
		Str("document_id", docID.String()).
		Str("client_id", clientID.String()).
		Int("chunks", len(chunks)).
		Msg("document ingested")

	return nil
}

func (s *DocumentService) scheduleIngest(ctx context.Context, clientID, docID uuid.UUID) {
	task := IngestDocumentTask{DocumentID: docID, ClientID: clientID}
	if err := s.tasks.Enqueue(ctx, TaskIngestDocument, task); err != nil {
		log.Error().
			Str("document_id", docID.String()).
			Err(err).Msg("failed to schedule document ingestion")
	}
}
