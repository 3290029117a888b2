package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CrawlStatus enumerates the crawl job lifecycle. Transitions are monotonic:
// pending → running → completed|failed. Terminal rows are never mutated again.
type CrawlStatus string

const (
	CrawlPending   CrawlStatus = "pending"
	CrawlRunning   CrawlStatus = "running"
	CrawlCompleted CrawlStatus = "completed"
	CrawlFailed    CrawlStatus = "failed"
)

// Page is one crawled page record, in visit order.
type Page struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CrawlResult is the terminal payload of a crawl job: pages on success,
// the error text on failure.
type CrawlResult struct {
	Pages []Page `json:"pages,omitempty"`
	Error string `json:"error,omitempty"`
}

// CrawlJob tracks one crawl invocation
type CrawlJob struct {
	ID          uuid.UUID    `json:"id"`
	ClientID    uuid.UUID    `json:"client_id"`
	URL         string       `json:"url"`
	Status      CrawlStatus  `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Result      *CrawlResult `json:"result,omitempty"`
}

// CrawlJobRepository defines the interface for crawl job storage
type CrawlJobRepository interface {
	Create(ctx context.Context, job *CrawlJob) error
	Get(ctx context.Context, id uuid.UUID) (*CrawlJob, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]CrawlJob, error)
	MarkRunning(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, result *CrawlResult, completedAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, errText string, completedAt time.Time) error
}
