package qdrant

import (
	"context"
	"fmt"

	"github.com/Ozeirr/ai-chatbot-platform/internal/chunker"
	"github.com/Ozeirr/ai-chatbot-platform/internal/config"
	"github.com/Ozeirr/ai-chatbot-platform/internal/embedding"
	"github.com/Ozeirr/ai-chatbot-platform/internal/vector"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog/log"
)

// Store implements vector.Store on a single shared Qdrant collection.
// Tenant isolation is enforced by a client_id payload filter on every
// query and delete.
type Store struct {
	client     *qdrant.Client
	embedder   embedding.Embedder
	collection string
}

// NewStore connects to Qdrant and ensures the collection exists. If the
// collection already exists with a different vector dimension, the embedder
// is swapped for the one matching the stored vectors so existing data stays
// queryable.
func NewStore(ctx context.Context, cfg *config.Config, embedder embedding.Embedder) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Vector.Host,
		Port:   cfg.Vector.Port,
		APIKey: cfg.Vector.APIKey,
		UseTLS: cfg.Vector.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	s := &Store{
		client:     client,
		embedder:   embedder,
		collection: cfg.Vector.Collection,
	}

	if err := s.ensureCollection(ctx, cfg); err != nil {
		return nil, err
	}

	return s, nil
}

// Embedder returns the embedder in use after dimension reconciliation.
func (s *Store) Embedder() embedding.Embedder {
	return s.embedder
}

// Close closes the underlying Qdrant connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) ensureCollection(ctx context.Context, cfg *config.Config) error {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, name := range collections {
		if name == s.collection {
			return s.reconcileDimension(ctx, cfg)
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.embedder.Dimension()),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %q: %w", s.collection, err)
	}

	log.Info().
		Str("collection", s.collection).
		Int("dimension", s.embedder.Dimension()).
		Str("model", s.embedder.Model()).
		Msg("created vector collection")

	return nil
}

// reconcileDimension aligns the embedder with an existing collection. A
// mismatched embedder would silently return garbage similarities, so the
// stored dimension wins over configuration.
func (s *Store) reconcileDimension(ctx context.Context, cfg *config.Config) error {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}

	params := info.GetConfig().GetParams().GetVectorsConfig().GetParams()
	if params == nil {
		return fmt.Errorf("collection %q has no vector params", s.collection)
	}

	existing := int(params.GetSize())
	if existing == s.embedder.Dimension() {
		return nil
	}

	replacement, err := embedding.ForDimension(cfg, existing)
	if err != nil {
		return fmt.Errorf("collection %q has dimension %d but no embedding model matches it: %w",
			s.collection, existing, err)
	}

	log.Warn().
		Str("collection", s.collection).
		Int("configured_dimension", s.embedder.Dimension()).
		Int("collection_dimension", existing).
		Str("model", replacement.Model()).
		Msg("embedding dimension mismatch, using model matching the existing collection")

	s.embedder = replacement
	return nil
}

// Upsert embeds and indexes chunks for one client. Point IDs are derived
// from chunk IDs, so re-ingesting a source overwrites its chunks in place.
func (s *Store) Upsert(ctx context.Context, clientID uuid.UUID, chunks []chunker.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedded %d vectors for %d chunks", len(vectors), len(chunks))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		payload := make(map[string]any, len(chunk.Metadata)+2)
		for k, v := range chunk.Metadata {
			payload[k] = v
		}
		payload["client_id"] = clientID.String()
		payload["text"] = chunk.Text

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(pointID(chunk.ID).String()),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

// Query embeds the text and returns the client's topK most similar chunks.
func (s *Store) Query(ctx context.Context, clientID uuid.UUID, text string, topK int) ([]vector.Match, error) {
	vectors, err := s.embedder.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedded %d vectors for query", len(vectors))
	}

	limit := uint64(topK)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vectors[0]...),
		Limit:          &limit,
		Filter:         clientFilter(clientID),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}

	matches := make([]vector.Match, 0, len(points))
	for _, point := range points {
		m := vector.Match{Score: point.GetScore()}
		if id := point.GetId(); id != nil {
			m.ID = id.GetUuid()
		}
		if val, ok := point.Payload["text"]; ok {
			m.Text = val.GetStringValue()
		}
		if val, ok := point.Payload["source"]; ok {
			m.Source = val.GetStringValue()
		}
		if val, ok := point.Payload["title"]; ok {
			m.Title = val.GetStringValue()
		}
		matches = append(matches, m)
	}

	return matches, nil
}

// DeleteDocument removes all chunks of one document owned by the client.
func (s *Store) DeleteDocument(ctx context.Context, clientID, documentID uuid.UUID) error {
	filter := clientFilter(clientID)
	filter.Must = append(filter.Must, qdrant.NewMatch("document_id", documentID.String()))

	return s.deleteByFilter(ctx, filter)
}

// DeleteClient removes every chunk the client owns.
func (s *Store) DeleteClient(ctx context.Context, clientID uuid.UUID) error {
	return s.deleteByFilter(ctx, clientFilter(clientID))
}

func (s *Store) deleteByFilter(ctx context.Context, filter *qdrant.Filter) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelectorFilter(filter),
	})
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}

	return nil
}

func clientFilter(clientID uuid.UUID) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("client_id", clientID.String()),
		},
	}
}

// pointID maps a chunk ID to a stable UUID. Qdrant point IDs must be UUIDs
// or integers, and determinism is what makes upserts overwrite.
func pointID(chunkID string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID))
}
