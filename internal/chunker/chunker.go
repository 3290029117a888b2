package chunker

import (
	"fmt"
	"strings"

	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/google/uuid"
)

const (
	// DefaultChunkSize is the target chunk length in runes.
	DefaultChunkSize = 1000
	// DefaultOverlap is how many trailing runes each chunk shares with the next.
	DefaultOverlap = 200
)

// Chunk is one indexable fragment of a source document or page. The ID is
// "{sourceID}_{ordinal}" so re-splitting the same source yields stable IDs.
type Chunk struct {
	ID       string
	Text     string
	Metadata map[string]any
}

// Chunker splits text into overlapping windows, preferring to cut at
// paragraph, sentence, then line boundaries.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker. Overlap must be smaller than size; out-of-range
// values fall back to the defaults.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultOverlap
		if overlap >= size {
			overlap = size / 5
		}
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split divides text into chunks of at most the configured size. Every rune
// of the input appears in at least one chunk, and consecutive chunks overlap.
// Empty or whitespace-only input yields nil.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= c.size {
		return []string{strings.TrimSpace(text)}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = c.cutAt(runes, start, end)
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
		start = end - c.overlap
	}

	return chunks
}

// cutAt finds the best boundary in runes[start:limit], scanning backwards for
// a paragraph break, then a sentence end, then a newline. The returned cut
// always leaves room past the overlap so the window keeps advancing.
func (c *Chunker) cutAt(runes []rune, start, limit int) int {
	window := string(runes[start:limit])
	minCut := c.overlap + 1

	for _, sep := range []string{"\n\n", ". ", "\n"} {
		if idx := strings.LastIndex(window, sep); idx >= 0 {
			cut := len([]rune(window[:idx])) + len([]rune(sep))
			if cut >= minCut {
				return start + cut
			}
		}
	}

	return limit
}

// ProcessDocument splits a document and attaches retrieval metadata to each
// chunk. The document ID is the source ID.
func (c *Chunker) ProcessDocument(doc *domain.Document) []Chunk {
	source := doc.URL
	if source == "" {
		source = doc.Title
	}
	return c.build(doc.ID.String(), doc.Content, map[string]any{
		"source":      source,
		"title":       doc.Title,
		"document_id": doc.ID.String(),
		"client_id":   doc.ClientID.String(),
	})
}

// ProcessPages splits each crawled page. The source ID for a page is derived
// from its URL so re-crawling the same site overwrites the same chunks.
func (c *Chunker) ProcessPages(clientID uuid.UUID, pages []domain.Page) []Chunk {
	var chunks []Chunk
	for _, page := range pages {
		pageID := uuid.NewSHA1(uuid.NameSpaceURL, []byte(page.URL))
		chunks = append(chunks, c.build(pageID.String(), page.Content, map[string]any{
			"source":      page.URL,
			"title":       page.Title,
			"document_id": pageID.String(),
			"client_id":   clientID.String(),
		})...)
	}
	return chunks
}

func (c *Chunker) build(sourceID, text string, base map[string]any) []Chunk {
	parts := c.Split(text)
	chunks := make([]Chunk, 0, len(parts))
	for i, part := range parts {
		meta := make(map[string]any, len(base)+1)
		for k, v := range base {
			meta[k] = v
		}
		meta["chunk"] = i
		chunks = append(chunks, Chunk{
			ID:       fmt.Sprintf("%s_%d", sourceID, i),
			Text:     part,
			Metadata: meta,
		})
	}
	return chunks
}
