package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Ozeirr/ai-chatbot-platform/internal/chunker"
	"github.com/Ozeirr/ai-chatbot-platform/internal/crawler"
	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/Ozeirr/ai-chatbot-platform/internal/queue"
	"github.com/Ozeirr/ai-chatbot-platform/internal/vector"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// TaskRunCrawl executes a pending crawl job.
	TaskRunCrawl = "run_crawl"
	// TaskIngestCrawl indexes the pages of a completed crawl job.
	TaskIngestCrawl = "ingest_crawl"
)

// ErrNoCrawlURL is returned when neither the request nor the client profile
// provides a URL to crawl.
var ErrNoCrawlURL = errors.New("no URL provided and client has no website URL")

// CrawlTask is the payload for TaskRunCrawl and TaskIngestCrawl
type CrawlTask struct {
	JobID    uuid.UUID `json:"job_id"`
	ClientID uuid.UUID `json:"client_id"`
}

// CrawlService manages crawl jobs and indexes their results
type CrawlService struct {
	jobRepo    domain.CrawlJobRepository
	clientRepo domain.ClientRepository
	crawler    *crawler.Crawler
	chunker    *chunker.Chunker
	store      vector.Store
	tasks      *queue.Queue
}

// NewCrawlService creates a new crawl service
func NewCrawlService(
	jobRepo domain.CrawlJobRepository,
	clientRepo domain.ClientRepository,
	cr *crawler.Crawler,
	ch *chunker.Chunker,
	store vector.Store,
	tasks *queue.Queue,
) *CrawlService {
	return &CrawlService{
		jobRepo:    jobRepo,
		clientRepo: clientRepo,
		crawler:    cr,
		chunker:    ch,
		store:      store,
		tasks:      tasks,
	}
}

// RegisterHandlers binds this service's task types to the queue
func (s *CrawlService) RegisterHandlers(q *queue.Queue) {
	q.RegisterHandler(TaskRunCrawl, func(ctx context.Context, payload json.RawMessage) error {
		var task CrawlTask
		if err := json.Unmarshal(payload, &task); err != nil {
			return fmt.Errorf("failed to decode crawl task: %w", err)
		}
		return s.runCrawl(ctx, task)
	})
	q.RegisterHandler(TaskIngestCrawl, func(ctx context.Context, payload json.RawMessage) error {
		var task CrawlTask
		if err := json.Unmarshal(payload, &task); err != nil {
			return fmt.Errorf("failed to decode crawl ingest task: %w", err)
		}
		return s.ingestCrawl(ctx, task)
	})
}

// Start records a pending crawl job and schedules it. When url is empty the
// client's website URL is crawled.
func (s *CrawlService) Start(ctx context.Context, clientID uuid.UUID, url string) (*domain.CrawlJob, error) {
	client, err := s.clientRepo.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}

	crawlURL := url
	if crawlURL == "" {
		crawlURL = client.WebsiteURL
	}
	if crawlURL == "" {
		return nil, ErrNoCrawlURL
	}

	job := &domain.CrawlJob{
		ID:        uuid.New(),
		ClientID:  clientID,
		URL:       crawlURL,
		Status:    domain.CrawlPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	task := CrawlTask{JobID: job.ID, ClientID: clientID}
	if err := s.tasks.Enqueue(ctx, TaskRunCrawl, task); err != nil {
		log.Error().Str("job_id", job.ID.String()).Err(err).Msg("failed to schedule crawl job")
	}

	return job, nil
}

// GetJob returns a crawl job owned by the client
func (s *CrawlService) GetJob(ctx context.Context, clientID, jobID uuid.UUID) (*domain.CrawlJob, error) {
	job, err := s.jobRepo.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != clientID {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

// ListJobs returns the client's crawl jobs, newest first
func (s *CrawlService) ListJobs(ctx context.Context, clientID uuid.UUID) ([]domain.CrawlJob, error) {
	if _, err := s.clientRepo.Get(ctx, clientID); err != nil {
		return nil, err
	}
	return s.jobRepo.ListByClient(ctx, clientID)
}

// runCrawl executes one crawl job end to end. Crawl failure marks the job
// failed with the error text; success stores the pages and schedules
// ingestion.
func (s *CrawlService) runCrawl(ctx context.Context, task CrawlTask) error {
	job, err := s.GetJob(ctx, task.ClientID, task.JobID)
	if err != nil {
		return fmt.Errorf("failed to load crawl job: %w", err)
	}

	if err := s.jobRepo.MarkRunning(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to mark crawl job running: %w", err)
	}

	pages, err := s.crawler.Crawl(ctx, job.URL)
	if err != nil {
		log.Error().Str("job_id", job.ID.String()).Str("url", job.URL).Err(err).Msg("crawl failed")
		if markErr := s.jobRepo.MarkFailed(ctx, job.ID, err.Error(), time.Now().UTC()); markErr != nil {
			return fmt.Errorf("failed to mark crawl job failed: %w", markErr)
		}
		return nil
	}

	result := &domain.CrawlResult{Pages: pages}
	if err := s.jobRepo.MarkCompleted(ctx, job.ID, result, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark crawl job completed: %w", err)
	}

	log.Info().
		Str("job_id", job.ID.String()).
		Str("url", job.URL).
		Int("pages", len(pages)).
		Msg("crawl completed")

	if err := s.tasks.Enqueue(ctx, TaskIngestCrawl, task); err != nil {
		log.Error().Str("job_id", job.ID.String()).Err(err).Msg("failed to schedule crawl ingestion")
	}

	return nil
}

// ingestCrawl chunks and indexes the pages of a completed job. Page chunk
// IDs derive from page URLs, so re-crawling a site updates its chunks in
// place.
func (s *CrawlService) ingestCrawl(ctx context.Context, task CrawlTask) error {
	job, err := s.GetJob(ctx, task.ClientID, task.JobID)
	if err != nil {
		return fmt.Errorf("failed to load crawl job: %w", err)
	}
	if job.Status != domain.CrawlCompleted || job.Result == nil {
		return fmt.Errorf("crawl job %s is not completed", job.ID)
	}

	chunks := s.chunker.ProcessPages(task.ClientID, job.Result.Pages)
	if err := s.store.Upsert(ctx, task.ClientID, chunks); err != nil {
		return fmt.Errorf("failed to index crawl job %s: %w", job.ID, err)
	}

	log.Info().
		Str("job_id", job.ID.String()).
		Int("pages", len(job.Result.Pages)).
		Int("chunks", len(chunks)).
		Msg("crawl pages ingested")

	return nil
}
