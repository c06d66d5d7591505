package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"marche/models"

	"github.com/hibiken/asynq"
)

const (
	// TypeNotificationDeliver fans one intent out to the user's channels.
	TypeNotificationDeliver = "notification:deliver"
	// TypeSendReminder delivers a booking reminder at a scheduled time.
	TypeSendReminder = "reminder:send"

	QueueNotifications = "notifications"
)

// NewDeliverTask wraps an intent for immediate delivery.
func NewDeliverTask(intent models.NotificationIntent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(intent)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal intent: %w", err)
	}
	task := asynq.NewTask(TypeNotificationDeliver, b)
	opts := []asynq.Option{asynq.Queue(QueueNotifications), asynq.MaxRetry(5)}
	return task, opts, nil
}

// NewReminderTask schedules intent to be delivered at fireAt.
func NewReminderTask(intent models.NotificationIntent, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(intent)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal reminder: %w", err)
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.Queue(QueueNotifications), asynq.ProcessAt(fireAt), asynq.MaxRetry(3)}
	return task, opts, nil
}

// DecodeIntent reads the payload of either task type.
func DecodeIntent(task *asynq.Task) (models.NotificationIntent, error) {
	var intent models.NotificationIntent
	if err := json.Unmarshal(task.Payload(), &intent); err != nil {
		return intent, fmt.Errorf("invalid %s payload: %w", task.Type(), err)
	}
	return intent, nil
}
