package service

import (
	"context"
	"testing"
	"time"

	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAnalyticsService_Summary(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	svc := NewAnalyticsService(repo)
	ctx := context.Background()
	clientID := uuid.New()

	repo.On("CountSessions", ctx, clientID, mock.AnythingOfType("time.Time")).Return(4, nil)
	repo.On("CountMessages", ctx, clientID, mock.AnythingOfType("time.Time")).Return(10, nil)

	summary, err := svc.Summary(ctx, clientID, 30)
	assert.NoError(t, err)
	assert.Equal(t, 4, summary.TotalSessions)
	assert.Equal(t, 10, summary.TotalMessages)
	assert.Equal(t, 2.5, summary.AvgMessagesPerSession)
	assert.Contains(t, summary.DateRange, " to ")
}

func TestAnalyticsService_SummaryAvgRounding(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	svc := NewAnalyticsService(repo)
	ctx := context.Background()
	clientID := uuid.New()

	repo.On("CountSessions", ctx, clientID, mock.AnythingOfType("time.Time")).Return(3, nil)
	repo.On("CountMessages", ctx, clientID, mock.AnythingOfType("time.Time")).Return(10, nil)

	summary, err := svc.Summary(ctx, clientID, 30)
	assert.NoError(t, err)
	assert.Equal(t, 3.33, summary.AvgMessagesPerSession)
}

func TestAnalyticsService_SummaryNoSessions(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	svc := NewAnalyticsService(repo)
	ctx := context.Background()
	clientID := uuid.New()

	repo.On("CountSessions", ctx, clientID, mock.AnythingOfType("time.Time")).Return(0, nil)
	repo.On("CountMessages", ctx, clientID, mock.AnythingOfType("time.Time")).Return(0, nil)

	summary, err := svc.Summary(ctx, clientID, 30)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, summary.AvgMessagesPerSession)
}

func TestAnalyticsService_DailySessionsZeroFilled(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	svc := NewAnalyticsService(repo)
	ctx := context.Background()
	clientID := uuid.New()

	repo.On("DailySessions", ctx, clientID, mock.AnythingOfType("time.Time")).
		Return(map[string]int{}, nil)

	series, err := svc.DailySessions(ctx, clientID, 7)
	assert.NoError(t, err)
	assert.Len(t, series, 8, "window start through today inclusive")
	for _, day := range series {
		assert.Equal(t, 0, day.Count)
	}
}

func TestAnalyticsService_DailyMessagesCarriesCounts(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	svc := NewAnalyticsService(repo)
	ctx := context.Background()
	clientID := uuid.New()

	today := time.Now().UTC().Format("2006-01-02")
	repo.On("DailyMessages", ctx, clientID, mock.AnythingOfType("time.Time")).
		Return(map[string]int{today: 5}, nil)

	series, err := svc.DailyMessages(ctx, clientID, 7)
	assert.NoError(t, err)
	last := series[len(series)-1]
	assert.Equal(t, today, last.Date)
	assert.Equal(t, 5, last.Count)
}

func TestAnalyticsService_Snapshot(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	svc := NewAnalyticsService(repo)
	ctx := context.Background()
	clientID := uuid.New()

	repo.On("CountSessions", ctx, clientID, mock.AnythingOfType("time.Time")).Return(2, nil)
	repo.On("CountMessages", ctx, clientID, mock.AnythingOfType("time.Time")).Return(6, nil)

	var saved *domain.AnalyticsSnapshot
	repo.On("SaveSnapshot", ctx, mock.AnythingOfType("*domain.AnalyticsSnapshot")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.AnalyticsSnapshot)
		}).Return(nil)

	snapshot, err := svc.Snapshot(ctx, clientID)
	assert.NoError(t, err)
	assert.Equal(t, 2, snapshot.TotalSessions)
	assert.Equal(t, 6, snapshot.TotalMessages)
	assert.Equal(t, 3.0, snapshot.AvgMessagesPerSession)
	assert.Equal(t, saved, snapshot)
}
