package registrationRepo

import (
	"context"

	"marche/models"
)

// RegistrationRepository stores provider registrations. (eventId, providerId) is unique.
type RegistrationRepository interface {
	// Create inserts reg; a second registration for the same pair yields utils.ErrDuplicate.
	Create(ctx context.Context, reg *models.Registration) error
	// Update replaces the editable fields of an existing registration, guarded by its
	// current status so a concurrent approval is not overwritten.
	Update(ctx context.Context, reg *models.Registration, expected models.RegistrationStatus) error
	GetByID(ctx context.Context, id string) (*models.Registration, error)
	GetByEventAndProvider(ctx context.Context, eventID, providerID string) (*models.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Registration, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Registration, error)
	// UpdateStatus moves id from one status to another; utils.ErrNotFound when id is
	// not currently in `from`.
	UpdateStatus(ctx context.Context, id string, from, to models.RegistrationStatus) (*models.Registration, error)
	CountByEventAndStatus(ctx context.Context, eventID string, status models.RegistrationStatus) (int, error)
}
