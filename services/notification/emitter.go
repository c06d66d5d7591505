package notification

import (
	"context"
	"sync"
	"time"

	"marche/models"
	"marche/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the subset of *asynq.Client the emitter needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueEmitter hands intents to the asynq worker (see cron.InitNotificationWorker).
type QueueEmitter struct {
	Client Enqueuer
	Logger *zap.Logger
}

func NewQueueEmitter(client Enqueuer, logger *zap.Logger) *QueueEmitter {
	return &QueueEmitter{Client: client, Logger: logger}
}

func (e *QueueEmitter) Emit(ctx context.Context, intents ...models.NotificationIntent) {
	for _, intent := range intents {
		task, opts, err := tasks.NewDeliverTask(intent)
		if err == nil {
			_, err = e.Client.EnqueueContext(ctx, task, opts...)
		}
		if err != nil {
			e.Logger.Error("failed to enqueue notification",
				zap.String("recipient", intent.RecipientID), zap.String("kind", string(intent.Kind)), zap.Error(err))
		}
	}
}

func (e *QueueEmitter) EmitAt(ctx context.Context, at time.Time, intent models.NotificationIntent) {
	task, opts, err := tasks.NewReminderTask(intent, at)
	if err == nil {
		_, err = e.Client.EnqueueContext(ctx, task, opts...)
	}
	if err != nil {
		e.Logger.Error("failed to schedule notification",
			zap.String("recipient", intent.RecipientID), zap.Time("at", at), zap.Error(err))
	}
}

// SyncEmitter delivers inline. Used when no queue is configured.
type SyncEmitter struct {
	Dispatcher *Dispatcher
	Logger     *zap.Logger
}

func (e *SyncEmitter) Emit(ctx context.Context, intents ...models.NotificationIntent) {
	for _, intent := range intents {
		if err := e.Dispatcher.Deliver(ctx, intent); err != nil {
			e.Logger.Warn("notification delivery failed",
				zap.String("recipient", intent.RecipientID), zap.String("kind", string(intent.Kind)), zap.Error(err))
		}
	}
}

func (e *SyncEmitter) EmitAt(_ context.Context, at time.Time, intent models.NotificationIntent) {
	e.Logger.Info("scheduled notification dropped, no queue configured",
		zap.String("recipient", intent.RecipientID), zap.String("kind", string(intent.Kind)), zap.Time("at", at))
}

// Recorder keeps every intent in memory. Tests assert on it.
type Recorder struct {
	mu        sync.Mutex
	Intents   []models.NotificationIntent
	Scheduled []models.NotificationIntent
}

func (r *Recorder) Emit(_ context.Context, intents ...models.NotificationIntent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Intents = append(r.Intents, intents...)
}

func (r *Recorder) EmitAt(_ context.Context, _ time.Time, intent models.NotificationIntent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Scheduled = append(r.Scheduled, intent)
}

// Kinds returns the kinds emitted so far, in order.
func (r *Recorder) Kinds() []models.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.NotificationKind, len(r.Intents))
	for i, in := range r.Intents {
		out[i] = in.Kind
	}
	return out
}

// Reset drops everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Intents = nil
	r.Scheduled = nil
}
