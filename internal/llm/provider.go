package llm

import "context"

// Passage is one retrieved context snippet fed to the model.
type Passage struct {
	Source string
	Title  string
	Text   string
}

// Turn is one prior user/bot exchange in the conversation.
type Turn struct {
	User string
	Bot  string
}

// Request contains answer generation parameters
type Request struct {
	Question   string
	ClientName string
	Passages   []Passage
	History    []Turn
}

// Response contains LLM generation result
type Response struct {
	Answer     string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// GenerateAnswer produces a grounded answer to the question
	GenerateAnswer(ctx context.Context, req Request, model string) (*Response, error)
}
