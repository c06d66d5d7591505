package reservationRepo

import (
	"context"
	"time"

	"marche/models"
)

// ReservationRepository stores event attendance reservations, unique per (user, event).
type ReservationRepository interface {
	// Create yields utils.ErrDuplicate when the user already reserved the event.
	Create(ctx context.Context, res *models.EventReservation) error
	Get(ctx context.Context, userID, eventID string) (*models.EventReservation, error)
	// Delete yields utils.ErrNotFound when there is nothing to cancel.
	Delete(ctx context.Context, userID, eventID string) error
	ListByUser(ctx context.Context, userID string) ([]models.EventReservation, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
	// MarkCheckedIn sets checkedIn and its time; utils.ErrNotFound if the ticket is unknown.
	MarkCheckedIn(ctx context.Context, userID, eventID string, at time.Time) (*models.EventReservation, error)
}
