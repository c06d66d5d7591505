package notification

import (
	"context"
	"errors"
	"fmt"

	"marche/models"

	"go.uber.org/zap"
)

// UserLookup resolves the recipient of an intent.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Dispatcher fans an intent out to every configured channel.
type Dispatcher struct {
	Users    UserLookup
	Channels []Channel
	Logger   *zap.Logger
}

func NewDispatcher(users UserLookup, logger *zap.Logger, channels ...Channel) (*Dispatcher, error) {
	if users == nil || logger == nil {
		return nil, fmt.Errorf("dispatcher initialization error: users or logger is nil")
	}
	return &Dispatcher{Users: users, Channels: channels, Logger: logger}, nil
}

// Deliver sends intent over every channel that applies to the recipient. It
// fails only when every attempted channel failed, so the queue can retry.
func (d *Dispatcher) Deliver(ctx context.Context, intent models.NotificationIntent) error {
	user, err := d.Users.GetByID(ctx, intent.RecipientID)
	if err != nil {
		// Unknown recipients are dropped: a retry cannot fix them.
		d.Logger.Warn("notification recipient not found",
			zap.String("recipient", intent.RecipientID), zap.String("kind", string(intent.Kind)), zap.Error(err))
		return nil
	}

	attempted := 0
	var errs []error
	for _, ch := range d.Channels {
		err := ch.Send(ctx, user, intent)
		switch {
		case err == nil:
			attempted++
			d.Logger.Debug("notification delivered",
				zap.String("channel", ch.Name()), zap.String("recipient", user.ID), zap.String("kind", string(intent.Kind)))
		case errors.Is(err, ErrSkipped):
		default:
			attempted++
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			d.Logger.Warn("notification channel failed",
				zap.String("channel", ch.Name()), zap.String("recipient", user.ID), zap.Error(err))
		}
	}

	if attempted > 0 && len(errs) == attempted {
		return errors.Join(errs...)
	}
	if attempted == 0 {
		d.Logger.Info("notification had no applicable channel",
			zap.String("recipient", user.ID), zap.String("kind", string(intent.Kind)), zap.String("summary", intent.Summary))
	}
	return nil
}
