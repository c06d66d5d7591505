package notification

import (
	"context"
	"errors"
	"time"

	"marche/models"
)

// Emitter is the outbox boundary of the ledgers. Emit is called after the
// owning write committed; it never fails the caller, delivery problems are logged.
type Emitter interface {
	Emit(ctx context.Context, intents ...models.NotificationIntent)
	// EmitAt schedules an intent for later delivery.
	EmitAt(ctx context.Context, at time.Time, intent models.NotificationIntent)
}

// Channel delivers an intent to one user over one transport.
type Channel interface {
	Name() string
	Send(ctx context.Context, user *models.User, intent models.NotificationIntent) error
}

// ErrSkipped is returned by a channel that does not apply to the user
// (not linked, opted out, no token). Skips do not count as failures.
var ErrSkipped = errors.New("channel not applicable")

// NewIntent stamps an intent with the current time.
func NewIntent(recipientID string, kind models.NotificationKind, summary, link string) models.NotificationIntent {
	return models.NotificationIntent{
		RecipientID: recipientID,
		Kind:        kind,
		Summary:     summary,
		Link:        link,
		CreatedAt:   time.Now().UTC(),
	}
}
