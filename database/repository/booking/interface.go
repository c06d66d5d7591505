package bookingRepo

import (
	"context"

	"marche/models"
)

// BookingRepository is the slot claim ledger. At most one booking exists per time slot.
type BookingRepository interface {
	// Create claims booking.TimeSlotID atomically; a taken slot yields utils.ErrDuplicate.
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Delete removes the booking, freeing its slot.
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListByEventAndProvider(ctx context.Context, eventID, providerID string) ([]models.Booking, error)
	// BookedSlotIDs returns the subset of slotIDs that currently have a booking.
	BookedSlotIDs(ctx context.Context, slotIDs []string) (map[string]bool, error)
}
