package event

import (
	"context"

	"marche/models"
)

// EventService owns the event catalog and attendee reservations.
type EventService interface {
	Create(ctx context.Context, actor models.Actor, event models.Event) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Reserve(ctx context.Context, actor models.Actor, eventID string) (*models.EventReservation, error)
	CancelReservation(ctx context.Context, actor models.Actor, eventID string) error
	ListReservations(ctx context.Context, actor models.Actor) ([]models.EventReservation, error)
	// CheckIn validates a ticket at the door. Only the event's organizer may do it.
	CheckIn(ctx context.Context, actor models.Actor, eventID, ticketID string) (*models.EventReservation, error)
}
