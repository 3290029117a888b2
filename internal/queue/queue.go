package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Ozeirr/ai-chatbot-platform/internal/repository/redis"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Task is one unit of background work on the Redis list. Payload stays raw
// until the registered handler decodes it.
type Task struct {
	ID       uuid.UUID       `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one task payload. A returned error marks the attempt
// failed; the task is re-enqueued while retries remain.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Queue is a Redis-list backed task queue with a worker pool. Producers
// LPUSH tasks; workers block on BRPOP, so tasks survive process restarts
// and are delivered to exactly one worker.
type Queue struct {
	client     *redis.Client
	key        string
	workers    int
	maxRetries int

	mu       sync.RWMutex
	handlers map[string]Handler
}

// New creates a queue on the given Redis list key
func New(client *redis.Client, key string, workers, maxRetries int) *Queue {
	if workers <= 0 {
		workers = 1
	}
	return &Queue{
		client:     client,
		key:        key,
		workers:    workers,
		maxRetries: maxRetries,
		handlers:   make(map[string]Handler),
	}
}

// RegisterHandler binds a task type to its handler. Must be called before
// Start; tasks with no handler are dropped with an error log.
func (q *Queue) RegisterHandler(taskType string, handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[taskType] = handler
}

// Enqueue serializes a task and pushes it onto the list
func (q *Queue) Enqueue(ctx context.Context, taskType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := Task{
		ID:      uuid.New(),
		Type:    taskType,
		Payload: raw,
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := q.client.Client().LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Debug().
		Str("task_id", task.ID.String()).
		Str("type", taskType).
		Msg("enqueued background task")

	return nil
}

// Start launches the worker pool and returns immediately. Workers run until
// the context is cancelled; call Wait to block on their shutdown.
func (q *Queue) Start(ctx context.Context) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			q.workLoop(ctx, workerID)
		}(i)
	}

	log.Info().Int("workers", q.workers).Str("queue", q.key).Msg("started task workers")
	return &wg
}

func (q *Queue) workLoop(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// A finite timeout keeps the loop responsive to shutdown
		result, err := q.client.Client().BRPop(ctx, 2*time.Second, q.key).Result()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		if len(result) < 2 {
			continue
		}

		var task Task
		if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
			log.Error().Int("worker", workerID).Err(err).Msg("discarding malformed task")
			continue
		}

		q.process(ctx, workerID, task)
	}
}

func (q *Queue) process(ctx context.Context, workerID int, task Task) {
	q.mu.RLock()
	handler, ok := q.handlers[task.Type]
	q.mu.RUnlock()

	if !ok {
		log.Error().
			Int("worker", workerID).
			Str("task_id", task.ID.String()).
			Str("type", task.Type).
			Msg("no handler registered for task type")
		return
	}

	logger := log.With().
		Int("worker", workerID).
		Str("task_id", task.ID.String()).
		Str("type", task.Type).
		Logger()

	start := time.Now()
	if err := handler(ctx, task.Payload); err != nil {
		logger.Error().Err(err).Int("attempts", task.Attempts).Msg("task failed")
		q.retry(ctx, task)
		return
	}

	logger.Info().Dur("duration", time.Since(start)).Msg("task completed")
}

func (q *Queue) retry(ctx context.Context, task Task) {
	if task.Attempts >= q.maxRetries {
		return
	}
	task.Attempts++

	data, err := json.Marshal(task)
	if err != nil {
		return
	}
	if err := q.client.Client().LPush(ctx, q.key, data).Err(); err != nil {
		log.Error().Str("task_id", task.ID.String()).Err(err).Msg("failed to re-enqueue task")
	}
}

// Len reports the number of pending tasks
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.Client().LLen(ctx, q.key).Result()
}
