package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/google/uuid"
)

// AnalyticsService computes usage rollups for client dashboards
type AnalyticsService struct {
	analyticsRepo domain.AnalyticsRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(analyticsRepo domain.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo}
}

// Summary aggregates the client's usage over the trailing window
func (s *AnalyticsService) Summary(ctx context.Context, clientID uuid.UUID, days int) (*domain.AnalyticsSummary, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -days)

	sessions, err := s.analyticsRepo.CountSessions(ctx, clientID, from)
	if err != nil {
		return nil, err
	}

	messages, err := s.analyticsRepo.CountMessages(ctx, clientID, from)
	if err != nil {
		return nil, err
	}

	var avg float64
	if sessions > 0 {
		avg = round2(float64(messages) / float64(sessions))
	}

	return &domain.AnalyticsSummary{
		ClientID:              clientID,
		DateRange:             fmt.Sprintf("%s to %s", from.Format("2006-01-02"), now.Format("2006-01-02")),
		TotalSessions:         sessions,
		TotalMessages:         messages,
		AvgMessagesPerSession: avg,
	}, nil
}

// DailySessions returns one count per calendar day over the trailing
// window, zero-filled so charts have no gaps.
func (s *AnalyticsService) DailySessions(ctx context.Context, clientID uuid.UUID, days int) ([]domain.DailyCount, error) {
	from := time.Now().UTC().AddDate(0, 0, -days)

	counts, err := s.analyticsRepo.DailySessions(ctx, clientID, from)
	if err != nil {
		return nil, err
	}

	return fillDailySeries(from, days, counts), nil
}

// DailyMessages returns one message count per calendar day, zero-filled
func (s *AnalyticsService) DailyMessages(ctx context.Context, clientID uuid.UUID, days int) ([]domain.DailyCount, error) {
	from := time.Now().UTC().AddDate(0, 0, -days)

	counts, err := s.analyticsRepo.DailyMessages(ctx, clientID, from)
	if err != nil {
		return nil, err
	}

	return fillDailySeries(from, days, counts), nil
}

// Snapshot persists the last 24 hours of usage as an immutable record
func (s *AnalyticsService) Snapshot(ctx context.Context, clientID uuid.UUID) (*domain.AnalyticsSnapshot, error) {
	summary, err := s.Summary(ctx, clientID, 1)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.AnalyticsSnapshot{
		ID:                    uuid.New(),
		ClientID:              clientID,
		Date:                  time.Now().UTC(),
		TotalSessions:         summary.TotalSessions,
		TotalMessages:         summary.TotalMessages,
		AvgMessagesPerSession: summary.AvgMessagesPerSession,
	}

	if err := s.analyticsRepo.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// fillDailySeries expands a sparse day-count map into days+1 consecutive
// entries from the window start through today.
func fillDailySeries(from time.Time, days int, counts map[string]int) []domain.DailyCount {
	series := make([]domain.DailyCount, 0, days+1)
	for i := 0; i <= days; i++ {
		day := from.AddDate(0, 0, i).Format("2006-01-02")
		series = append(series, domain.DailyCount{
			Date:  day,
			Count: counts[day],
		})
	}
	return series
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
