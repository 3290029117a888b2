package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SessionRepository implements domain.SessionRepository using PostgreSQL
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.ChatSession) error {
	query := `
		INSERT INTO chat_sessions (id, client_id, user_id, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		session.ID, session.ClientID, session.UserID,
		session.StartTime, session.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to create chat session: %w", err)
	}

	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	query := `
		SELECT id, client_id, user_id, start_time, end_time
		FROM chat_sessions
		WHERE id = $1
	`

	session, err := scanSession(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}

	return session, nil
}

// End stamps the session's end time. Ending an already-ended session keeps
// the original end time and returns the row unchanged.
func (r *SessionRepository) End(ctx context.Context, id uuid.UUID, endTime time.Time) (*domain.ChatSession, error) {
	query := `
		UPDATE chat_sessions
		SET end_time = COALESCE(end_time, $2)
		WHERE id = $1
		RETURNING id, client_id, user_id, start_time, end_time
	`

	session, err := scanSession(r.db.Pool.QueryRow(ctx, query, id, endTime))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to end chat session: %w", err)
	}

	return session, nil
}

func scanSession(row pgx.Row) (*domain.ChatSession, error) {
	var s domain.ChatSession
	err := row.Scan(&s.ID, &s.ClientID, &s.UserID, &s.StartTime, &s.EndTime)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
