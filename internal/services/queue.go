package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/config"
	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/pkg/logger"
)

const TaskTypeActivity = "activity:record"

// ActivityEvent is the queue payload for one recorded mutation.
type ActivityEvent struct {
	EntityType string  `json:"entity_type"`
	EntityID   string  `json:"entity_id"`
	Action     string  `json:"action"`
	ActorID    string  `json:"actor_id"`
	ActorName  string  `json:"actor_name"`
	CompanyID  *string `json:"company_id,omitempty"`
	Summary    string  `json:"summary"`
}

// ActivityQueue decouples activity recording from the mutation path. The
// async implementation goes through Redis; without Redis events are written
// inline.
type ActivityQueue interface {
	Enqueue(ctx context.Context, event *ActivityEvent) error
}

// NewActivityQueue picks the queue implementation for the configuration:
// asynq when Redis is enabled, an inline writer otherwise.
func NewActivityQueue(cfg *config.RedisConfig, db *gorm.DB) ActivityQueue {
	if cfg.Enabled {
		return NewAsyncQueue(cfg)
	}
	return NewSyncQueue(db)
}

// SyncQueue writes activity rows inline, in the caller's request.
type SyncQueue struct {
	db *gorm.DB
}

func NewSyncQueue(db *gorm.DB) *SyncQueue {
	return &SyncQueue{db: db}
}

func (q *SyncQueue) Enqueue(ctx context.Context, event *ActivityEvent) error {
	return q.db.WithContext(ctx).Create(eventToRow(event)).Error
}

// AsyncQueue publishes activity events to Redis for the worker to persist.
type AsyncQueue struct {
	client *asynq.Client
}

func NewAsyncQueue(cfg *config.RedisConfig) *AsyncQueue {
	return &AsyncQueue{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (q *AsyncQueue) Enqueue(ctx context.Context, event *ActivityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, asynq.NewTask(TaskTypeActivity, payload))
	return err
}

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// ActivityWorker consumes queued activity events and persists them.
type ActivityWorker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	db      *gorm.DB
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

// NewActivityWorker creates the queue consumer. Returns nil when Redis is
// disabled; the sync queue needs no worker.
func NewActivityWorker(cfg *config.RedisConfig, db *gorm.DB) *ActivityWorker {
	if !cfg.Enabled {
		return nil
	}

	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Infof("[Worker] Error processing task %s: %v", task.Type(), err)
			}),
		},
	)

	return &ActivityWorker{
		server: server,
		mux:    asynq.NewServeMux(),
		db:     db,
	}
}

// Start begins consuming queued events.
func (w *ActivityWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.mux.HandleFunc(TaskTypeActivity, w.handleActivityEvent)

	w.running = true
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		logger.Infof("[Worker] Starting activity worker...")
		if err := w.server.Run(w.mux); err != nil {
			logger.Infof("[Worker] Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts the worker down.
func (w *ActivityWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	logger.Infof("[Worker] Shutting down...")
	w.server.Shutdown()
	w.running = false
	w.wg.Wait()
	logger.Infof("[Worker] Shutdown complete")
}

func (w *ActivityWorker) handleActivityEvent(ctx context.Context, t *asynq.Task) error {
	var event ActivityEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		logger.Infof("[Worker] Failed to unmarshal event: %v", err)
		return err
	}

	return w.db.WithContext(ctx).Create(eventToRow(&event)).Error
}

func eventToRow(event *ActivityEvent) *models.ActivityLog {
	return &models.ActivityLog{
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		Action:     event.Action,
		ActorID:    event.ActorID,
		ActorName:  event.ActorName,
		CompanyID:  event.CompanyID,
		Summary:    event.Summary,
	}
}
