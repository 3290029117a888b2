package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AnalyticsSummary is an on-demand usage rollup for one client.
type AnalyticsSummary struct {
	ClientID           uuid.UUID `json:"client_id"`
	DateRange          string    `json:"date_range"`
	TotalSessions      int       `json:"total_sessions"`
	TotalMessages      int       `json:"total_messages"`
	AvgMessagesPerSession float64 `json:"avg_messages_per_session"`
}

// DailyCount is one day's session or message count.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsSnapshot is a persisted point-in-time rollup, never mutated.
type AnalyticsSnapshot struct {
	ID                    uuid.UUID `json:"id"`
	ClientID              uuid.UUID `json:"client_id"`
	Date                  time.Time `json:"date"`
	TotalSessions         int       `json:"total_sessions"`
	TotalMessages         int       `json:"total_messages"`
	AvgMessagesPerSession float64   `json:"avg_messages_per_session"`
}

// AnalyticsRepository defines aggregation queries and snapshot storage
type AnalyticsRepository interface {
	CountSessions(ctx context.Context, clientID uuid.UUID, from time.Time) (int, error)
	CountMessages(ctx context.Context, clientID uuid.UUID, from time.Time) (int, error)
	DailySessions(ctx context.Context, clientID uuid.UUID, from time.Time) (map[string]int, error)
	DailyMessages(ctx context.Context, clientID uuid.UUID, from time.Time) (map[string]int, error)
	SaveSnapshot(ctx context.Context, snapshot *AnalyticsSnapshot) error
}
