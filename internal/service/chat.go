package service

import (
	"context"
	"time"

	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/Ozeirr/ai-chatbot-platform/internal/llm"
	"github.com/Ozeirr/ai-chatbot-platform/internal/vector"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// retrievalTopK is how many chunks are fed to the model per question.
const retrievalTopK = 5

// fallbackAnswer is returned to the end user whenever retrieval or
// generation fails. The real error is logged; the widget never sees it.
const fallbackAnswer = "I'm sorry, I encountered an error processing your request. Please try again later."

// ChatService orchestrates retrieval-augmented conversations
type ChatService struct {
	sessionRepo domain.SessionRepository
	messageRepo domain.MessageRepository
	store       vector.Store
	llmRouter   *llm.Router
}

// NewChatService creates a new chat service
func NewChatService(
	sessionRepo domain.SessionRepository,
	messageRepo domain.MessageRepository,
	store vector.Store,
	llmRouter *llm.Router,
) *ChatService {
	return &ChatService{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		store:       store,
		llmRouter:   llmRouter,
	}
}

// Chat answers one user message. A missing session ID starts a new session.
// Retrieval or generation failures degrade to a fallback answer rather than
// an error response; the exchange is persisted either way.
func (s *ChatService) Chat(ctx context.Context, client *domain.Client, req domain.ChatRequest) (*domain.ChatResponse, error) {
	session, err := s.resolveSession(ctx, client, req)
	if err != nil {
		return nil, err
	}

	answer := s.generate(ctx, client, session.ID, req.Message)

	message := &domain.ChatMessage{
		ID:          uuid.New(),
		ClientID:    client.ID,
		SessionID:   session.ID,
		UserMessage: req.Message,
		BotResponse: answer,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	return &domain.ChatResponse{
		Message:   answer,
		SessionID: session.ID,
	}, nil
}

func (s *ChatService) resolveSession(ctx context.Context, client *domain.Client, req domain.ChatRequest) (*domain.ChatSession, error) {
	if req.SessionID == nil {
		session := &domain.ChatSession{
			ID:        uuid.New(),
			ClientID:  client.ID,
			UserID:    req.UserID,
			StartTime: time.Now().UTC(),
		}
		if err := s.sessionRepo.Create(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	session, err := s.sessionRepo.Get(ctx, *req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.ClientID != client.ID {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// generate runs retrieval and the LLM. Every failure path returns the
// fallback answer; the cause lands in the log with full context.
func (s *ChatService) generate(ctx context.Context, client *domain.Client, sessionID uuid.UUID, question string) string {
	logger := log.With().
		Str("client_id", client.ID.String()).
		Str("session_id", sessionID.String()).
		Logger()

	matches, err := s.store.Query(ctx, client.ID, question, retrievalTopK)
	if err != nil {
		logger.Error().Err(err).Msg("retrieval failed")
		return fallbackAnswer
	}

	history, err := s.messageRepo.ListBySession(ctx, sessionID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load conversation history")
		return fallbackAnswer
	}

	req := llm.Request{
		Question:   question,
		ClientName: client.Name,
		Passages:   toPassages(matches),
		History:    toTurns(history),
	}

	provider, err := s.llmRouter.GetProvider("")
	if err != nil {
		logger.Error().Err(err).Msg("no usable LLM provider")
		return fallbackAnswer
	}

	resp, err := provider.GenerateAnswer(ctx, req, "")
	if err != nil {
		logger.Error().Str("provider", provider.Name()).Err(err).Msg("answer generation failed")
		return fallbackAnswer
	}

	logger.Debug().
		Str("provider", provider.Name()).
		Str("model", resp.Model).
		Int("tokens", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Int("passages", len(req.Passages)).
		Msg("generated answer")

	return resp.Answer
}

// GetSession returns a session owned by the client
func (s *ChatService) GetSession(ctx context.Context, clientID, sessionID uuid.UUID) (*domain.ChatSession, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ClientID != clientID {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// EndSession closes a session. Ending an already-ended session is a no-op
// that returns the session with its original end time.
func (s *ChatService) EndSession(ctx context.Context, clientID, sessionID uuid.UUID) (*domain.ChatSession, error) {
	if _, err := s.GetSession(ctx, clientID, sessionID); err != nil {
		return nil, err
	}
	return s.sessionRepo.End(ctx, sessionID, time.Now().UTC())
}

// ListMessages returns a session's messages in chronological order
func (s *ChatService) ListMessages(ctx context.Context, clientID, sessionID uuid.UUID) ([]domain.ChatMessage, error) {
	if _, err := s.GetSession(ctx, clientID, sessionID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListBySession(ctx, sessionID)
}

func toPassages(matches []vector.Match) []llm.Passage {
	passages := make([]llm.Passage, 0, len(matches))
	for _, m := range matches {
		passages = append(passages, llm.Passage{
			Source: m.Source,
			Title:  m.Title,
			Text:   m.Text,
		})
	}
	return passages
}

func toTurns(messages []domain.ChatMessage) []llm.Turn {
	turns := make([]llm.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, llm.Turn{User: m.UserMessage, Bot: m.BotResponse})
	}
	return turns
}
