package cron

import (
	"context"
	"errors"
	"time"

	"marche/models"
	"marche/services/tasks"
	"marche/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Deliverer is what the worker hands decoded intents to (notification.Dispatcher).
type Deliverer interface {
	Deliver(ctx context.Context, intent models.NotificationIntent) error
}

// BookingLookup resolves the booking a reminder was scheduled for.
type BookingLookup interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

// NewNotificationMux routes queue tasks to the dispatcher.
func NewNotificationMux(d Deliverer, bookings BookingLookup, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotificationDeliver, handleIntentTask(d, logger))
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(d, bookings, logger))
	return mux
}

// InitNotificationWorker runs the async worker in background and returns the
// server so the caller can shut it down.
func InitNotificationWorker(redisOpts asynq.RedisClientOpt, d Deliverer, bookings BookingLookup, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueNotifications: 6,
				"default":                1,
			},
			Logger: logger.Sugar(),
		},
	)
	mux := NewNotificationMux(d, bookings, logger)

	go func() {
		logger.Info("starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("notification worker failed to start",
				zap.Int("attempt", attempts), zap.Int("max", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("notification worker gave up; intents stay queued until restart")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleIntentTask(d Deliverer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		intent, err := tasks.DecodeIntent(task)
		if err != nil {
			logger.Error("dropping malformed notification task", zap.String("type", task.Type()), zap.Error(err))
			return asynq.SkipRetry
		}
		return deliver(ctx, d, intent, logger)
	}
}

// handleReminderTask delivers a reminder only while its booking still exists.
// Cancelling deletes the booking, so a cancelled or rebooked slot stays quiet.
func handleReminderTask(d Deliverer, bookings BookingLookup, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		intent, err := tasks.DecodeIntent(task)
		if err != nil {
			logger.Error("dropping malformed reminder task", zap.Error(err))
			return asynq.SkipRetry
		}
		if intent.BookingID != "" {
			_, err := bookings.GetByID(ctx, intent.BookingID)
			if errors.Is(err, utils.ErrNotFound) {
				logger.Info("reminder dropped, booking cancelled", zap.String("bookingId", intent.BookingID))
				return nil
			}
			if err != nil {
				return err
			}
		}
		return deliver(ctx, d, intent, logger)
	}
}

func deliver(ctx context.Context, d Deliverer, intent models.NotificationIntent, logger *zap.Logger) error {
	if err := d.Deliver(ctx, intent); err != nil {
		logger.Warn("notification delivery failed, will retry",
			zap.String("recipient", intent.RecipientID), zap.String("kind", string(intent.Kind)), zap.Error(err))
		return err
	}
	return nil
}
