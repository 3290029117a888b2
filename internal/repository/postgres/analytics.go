package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/google/uuid"
)

// AnalyticsRepository implements domain.AnalyticsRepository using PostgreSQL
type AnalyticsRepository struct {
	db *DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) CountSessions(ctx context.Context, clientID uuid.UUID, from time.Time) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chat_sessions WHERE client_id = $1 AND start_time >= $2`,
		clientID, from).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}

func (r *AnalyticsRepository) CountMessages(ctx context.Context, clientID uuid.UUID, from time.Time) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chat_messages WHERE client_id = $1 AND created_at >= $2`,
		clientID, from).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}

	return count, nil
}

func (r *AnalyticsRepository) DailySessions(ctx context.Context, clientID uuid.UUID, from time.Time) (map[string]int, error) {
	query := `
		SELECT to_char(start_time, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM chat_sessions
		WHERE client_id = $1 AND start_time >= $2
		GROUP BY day
		ORDER BY day
	`

	return r.dailyCounts(ctx, query, clientID, from)
}

func (r *AnalyticsRepository) DailyMessages(ctx context.Context, clientID uuid.UUID, from time.Time) (map[string]int, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM chat_messages
		WHERE client_id = $1 AND created_at >= $2
		GROUP BY day
		ORDER BY day
	`

	return r.dailyCounts(ctx, query, clientID, from)
}

func (r *AnalyticsRepository) dailyCounts(ctx context.Context, query string, clientID uuid.UUID, from time.Time) (map[string]int, error) {
	rows, err := r.db.Pool.Query(ctx, query, clientID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		counts[day] = count
	}

	return counts, rows.Err()
}

func (r *AnalyticsRepository) SaveSnapshot(ctx context.Context, snapshot *domain.AnalyticsSnapshot) error {
	query := `
		INSERT INTO analytics_snapshots (id, client_id, date, total_sessions, total_messages, avg_messages_per_session)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		snapshot.ID, snapshot.ClientID, snapshot.Date,
		snapshot.TotalSessions, snapshot.TotalMessages, snapshot.AvgMessagesPerSession,
	)
	if err != nil {
		return fmt.Errorf("failed to save analytics snapshot: %w", err)
	}

	return nil
}
