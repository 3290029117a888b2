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

// CrawlJobRepository implements domain.CrawlJobRepository using PostgreSQL
type CrawlJobRepository struct {
	db *DB
}

// NewCrawlJobRepository creates a new crawl job repository
func NewCrawlJobRepository(db *DB) *CrawlJobRepository {
	return &CrawlJobRepository{db: db}
}

func (r *CrawlJobRepository) Create(ctx context.Context, job *domain.CrawlJob) error {
	query := `
		INSERT INTO crawl_jobs (id, client_id, url, status, created_at, completed_at, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		job.ID, job.ClientID, job.URL, job.Status,
		job.CreatedAt, job.CompletedAt, job.Result,
	)
	if err != nil {
		return fmt.Errorf("failed to create crawl job: %w", err)
	}

	return nil
}

func (r *CrawlJobRepository) Get(ctx context.Context, id uuid.UUID) (*domain.CrawlJob, error) {
	query := `
		SELECT id, client_id, url, status, created_at, completed_at, result
		FROM crawl_jobs
		WHERE id = $1
	`

	job, err := scanCrawlJob(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get crawl job: %w", err)
	}

	return job, nil
}

func (r *CrawlJobRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.CrawlJob, error) {
	query := `
		SELECT id, client_id, url, status, created_at, completed_at, result
		FROM crawl_jobs
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list crawl jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.CrawlJob, 0)
	for rows.Next() {
		job, err := scanCrawlJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crawl job: %w", err)
		}
		jobs = append(jobs, *job)
	}

	return jobs, rows.Err()
}

// MarkRunning transitions a pending job to running. Jobs in any other
// state are left untouched.
func (r *CrawlJobRepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE crawl_jobs SET status = $2 WHERE id = $1 AND status = $3`,
		id, domain.CrawlRunning, domain.CrawlPending)
	if err != nil {
		return fmt.Errorf("failed to mark crawl job running: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// MarkCompleted transitions a running job to completed. Terminal jobs are
// immutable, so a redelivered task cannot rewrite them.
func (r *CrawlJobRepository) MarkCompleted(ctx context.Context, id uuid.UUID, result *domain.CrawlResult, completedAt time.Time) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE crawl_jobs SET status = $2, result = $3, completed_at = $4 WHERE id = $1 AND status = $5`,
		id, domain.CrawlCompleted, result, completedAt, domain.CrawlRunning)
	if err != nil {
		return fmt.Errorf("failed to mark crawl job completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// MarkFailed transitions a running job to failed, capturing the error text
// in the result payload. Terminal jobs are immutable.
func (r *CrawlJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, errText string, completedAt time.Time) error {
	result := &domain.CrawlResult{Error: errText}

	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE crawl_jobs SET status = $2, result = $3, completed_at = $4 WHERE id = $1 AND status = $5`,
		id, domain.CrawlFailed, result, completedAt, domain.CrawlRunning)
	if err != nil {
		return fmt.Errorf("failed to mark crawl job failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func scanCrawlJob(row pgx.Row) (*domain.CrawlJob, error) {
	var j domain.CrawlJob
	err := row.Scan(&j.ID, &j.ClientID, &j.URL, &j.Status,
		&j.CreatedAt, &j.CompletedAt, &j.Result)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
