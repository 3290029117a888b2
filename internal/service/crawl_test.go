package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ozeirr/ai-chatbot-platform/internal/chunker"
	"github.com/Ozeirr/ai-chatbot-platform/internal/config"
	"github.com/Ozeirr/ai-chatbot-platform/internal/crawler"
	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func crawlFixture(t *testing.T) (*CrawlService, *MockCrawlJobRepository, *MockClientRepository, *MockVectorStore) {
	jobRepo := new(MockCrawlJobRepository)
	clientRepo := new(MockClientRepository)
	store := new(MockVectorStore)

	cr := crawler.New(config.CrawlerConfig{
		MaxPages:   10,
		Timeout:    5 * time.Second,
		UserAgent:  "test-crawler/1.0",
		MinContent: 10,
	})

	svc := NewCrawlService(jobRepo, clientRepo, cr, chunker.New(1000, 200), store, testQueue(t))
	return svc, jobRepo, clientRepo, store
}

func TestCrawlService_StartUsesClientWebsiteURL(t *testing.T) {
	svc, jobRepo, clientRepo, _ := crawlFixture(t)
	ctx := context.Background()
	client := testClient()
	client.WebsiteURL = "https://acme.example"

	clientRepo.On("Get", ctx, client.ID).Return(client, nil)
	jobRepo.On("Create", ctx, mock.AnythingOfType("*domain.CrawlJob")).Return(nil)

	job, err := svc.Start(ctx, client.ID, "")
	assert.NoError(t, err)
	assert.Equal(t, "https://acme.example", job.URL)
	assert.Equal(t, domain.CrawlPending, job.Status)
}

func TestCrawlService_StartWithoutAnyURL(t *testing.T) {
	svc, _, clientRepo, _ := crawlFixture(t)
	ctx := context.Background()
	client := testClient()
	client.WebsiteURL = ""

	clientRepo.On("Get", ctx, client.ID).Return(client, nil)

	_, err := svc.Start(ctx, client.ID, "")
	assert.ErrorIs(t, err, ErrNoCrawlURL)
}

func TestCrawlService_GetJobEnforcesOwnership(t *testing.T) {
	svc, jobRepo, _, _ := crawlFixture(t)
	ctx := context.Background()
	jobID := uuid.New()

	job := &domain.CrawlJob{ID: jobID, ClientID: uuid.New()}
	jobRepo.On("Get", ctx, jobID).Return(job, nil)

	_, err := svc.GetJob(ctx, uuid.New(), jobID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCrawlService_RunCrawlCompletesJob(t *testing.T) {
	svc, jobRepo, _, _ := crawlFixture(t)
	ctx := context.Background()
	clientID := uuid.New()
	jobID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Home</title></head><body>
			<p>Enough content on this page to clear the minimum threshold.</p>
		</body></html>`)
	}))
	defer srv.Close()

	job := &domain.CrawlJob{ID: jobID, ClientID: clientID, URL: srv.URL, Status: domain.CrawlPending}
	jobRepo.On("Get", ctx, jobID).Return(job, nil)
	jobRepo.On("MarkRunning", ctx, jobID).Return(nil)

	var result *domain.CrawlResult
	jobRepo.On("MarkCompleted", ctx, jobID, mock.AnythingOfType("*domain.CrawlResult"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			result = args.Get(2).(*domain.CrawlResult)
		}).Return(nil)

	err := svc.runCrawl(ctx, CrawlTask{JobID: jobID, ClientID: clientID})
	assert.NoError(t, err)

	if assert.NotNil(t, result) && assert.Len(t, result.Pages, 1) {
		assert.Equal(t, "Home", result.Pages[0].Title)
	}

	// Completion schedules ingestion
	pending, _ := svc.tasks.Len(ctx)
	assert.Equal(t, int64(1), pending)
}

func TestCrawlService_RunCrawlMarksFailure(t *testing.T) {
	svc, jobRepo, _, _ := crawlFixture(t)
	ctx := context.Background()
	clientID := uuid.New()
	jobID := uuid.New()

	job := &domain.CrawlJob{ID: jobID, ClientID: clientID, URL: "not a url", Status: domain.CrawlPending}
	jobRepo.On("Get", ctx, jobID).Return(job, nil)
	jobRepo.On("MarkRunning", ctx, jobID).Return(nil)
	jobRepo.On("MarkFailed", ctx, jobID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	err := svc.runCrawl(ctx, CrawlTask{JobID: jobID, ClientID: clientID})
	assert.NoError(t, err)

	jobRepo.AssertCalled(t, "MarkFailed", ctx, jobID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time"))

	// Failed jobs never schedule ingestion
	pending, _ := svc.tasks.Len(ctx)
	assert.Equal(t, int64(0), pending)
}

func TestCrawlService_IngestCrawl(t *testing.T) {
	svc, jobRepo, _, store := crawlFixture(t)
	ctx := context.Background()
	clientID := uuid.New()
	jobID := uuid.New()

	job := &domain.CrawlJob{
		ID:       jobID,
		ClientID: clientID,
		Status:   domain.CrawlCompleted,
		Result: &domain.CrawlResult{
			Pages: []domain.Page{
				{URL: "https://acme.example/", Title: "Home", Content: "Welcome to Acme."},
			},
		},
	}
	jobRepo.On("Get", ctx, jobID).Return(job, nil)

	var indexed []chunker.Chunk
	store.On("Upsert", ctx, clientID, mock.AnythingOfType("[]chunker.Chunk")).
		Run(func(args mock.Arguments) {
			indexed = args.Get(2).([]chunker.Chunk)
		}).Return(nil)

	err := svc.ingestCrawl(ctx, CrawlTask{JobID: jobID, ClientID: clientID})
	assert.NoError(t, err)

	if assert.Len(t, indexed, 1) {
		assert.Equal(t, "https://acme.example/", indexed[0].Metadata["source"])
		assert.Equal(t, clientID.String(), indexed[0].Metadata["client_id"])
	}
}

func TestCrawlService_RedeliveredTerminalJobIsNotRerun(t *testing.T) {
	svc, jobRepo, _, _ := crawlFixture(t)
	ctx := context.Background()
	clientID := uuid.New()
	jobID := uuid.New()

	// The job already ran to completion; the pending-only transition guard
	// rejects a second MarkRunning
	job := &domain.CrawlJob{ID: jobID, ClientID: clientID, URL: "https://acme.example", Status: domain.CrawlCompleted}
	jobRepo.On("Get", ctx, jobID).Return(job, nil)
	jobRepo.On("MarkRunning", ctx, jobID).Return(domain.ErrNotFound)

	err := svc.runCrawl(ctx, CrawlTask{JobID: jobID, ClientID: clientID})
	assert.Error(t, err)

	// The terminal result is left untouched and no ingestion is scheduled
	jobRepo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	jobRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	pending, _ := svc.tasks.Len(ctx)
	assert.Equal(t, int64(0), pending)
}

func TestCrawlService_IngestIncompleteJobFails(t *testing.T) {
	svc, jobRepo, _, _ := crawlFixture(t)
	ctx := context.Background()
	clientID := uuid.New()
	jobID := uuid.New()

	job := &domain.CrawlJob{ID: jobID, ClientID: clientID, Status: domain.CrawlRunning}
	jobRepo.On("Get", ctx, jobID).Return(job, nil)

	err := svc.ingestCrawl(ctx, CrawlTask{JobID: jobID, ClientID: clientID})
	assert.Error(t, err)
}
