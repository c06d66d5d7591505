package booking

import (
	"context"

	"marche/models"
)

// BookingService claims and releases provider time slots for members.
type BookingService interface {
	Book(ctx context.Context, actor models.Actor, req models.BookingRequest) (*models.Booking, error)
	Cancel(ctx context.Context, actor models.Actor, bookingID string) error
	ListForUser(ctx context.Context, actor models.Actor) ([]models.Booking, error)
	// ListForProvider returns the caller's bookings at one event.
	ListForProvider(ctx context.Context, actor models.Actor, eventID string) ([]models.Booking, error)
	SlotAvailability(ctx context.Context, eventID, providerID string) ([]models.SlotAvailability, error)
}
