package embedding

import (
	"context"
	"fmt"

	"github.com/Ozeirr/ai-chatbot-platform/internal/config"
)

// Embedder turns text into fixed-dimension vectors. All texts in one call
// are embedded with the same model.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	Model() string
}

// ForDimension selects the embedding backend matching a vector dimension.
// Each supported dimension maps to exactly one model, so reconciling against
// an existing collection is a lookup, not a guess.
func ForDimension(cfg *config.Config, dimension int) (Embedder, error) {
	switch dimension {
	case GeminiDimension:
		return NewGeminiEmbedder(cfg.LLM.Gemini.APIKey), nil
	case OllamaDimension:
		return NewOllamaEmbedder(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.EmbeddingModel), nil
	default:
		return nil, fmt.Errorf("no embedding model for dimension %d", dimension)
	}
}
