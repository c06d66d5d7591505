package paymentRepo

import (
	"context"

	"marche/models"
)

// PaymentRepository is the SQL ledger of paid claims (tickets, exhibitor fees, services).
// A payment intent id can back at most one reservation.
type PaymentRepository interface {
	Create(ctx context.Context, res *models.PaymentReservation) error
	GetByID(ctx context.Context, id string) (*models.PaymentReservation, error)
	ListByUser(ctx context.Context, userID string) ([]models.PaymentReservation, error)
	// UpdateStatus moves a reservation from one status to another. It returns
	// ErrNotFound when no reservation with that id is in status from.
	UpdateStatus(ctx context.Context, id string, from, to models.PaymentStatus) error
}
