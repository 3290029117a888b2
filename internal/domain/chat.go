package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChatSession is a conversation scope for one client and optionally one
// end-user identifier. EndTime is nil while the session is open.
type ChatSession struct {
	ID        uuid.UUID  `json:"id"`
	ClientID  uuid.UUID  `json:"client_id"`
	UserID    *string    `json:"user_id,omitempty"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// ChatMessage is one user/bot exchange. Immutable once created.
type ChatMessage struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	SessionID   uuid.UUID `json:"session_id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChatRequest is the inbound chat payload
type ChatRequest struct {
	Message   string     `json:"message" validate:"required"`
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	UserID    *string    `json:"user_id,omitempty"`
}

// ChatResponse is the outbound chat payload
type ChatResponse struct {
	Message   string    `json:"message"`
	SessionID uuid.UUID `json:"session_id"`
}

// SessionRepository defines the interface for chat session storage
type SessionRepository interface {
	Create(ctx context.Context, session *ChatSession) error
	Get(ctx context.Context, id uuid.UUID) (*ChatSession, error)
	End(ctx context.Context, id uuid.UUID, endTime time.Time) (*ChatSession, error)
}

// MessageRepository defines the interface for chat message storage
type MessageRepository interface {
	Create(ctx context.Context, message *ChatMessage) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]ChatMessage, error)
}
