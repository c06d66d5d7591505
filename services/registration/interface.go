package registration

import (
	"context"

	"marche/models"
)

// RegistrationService runs the provider registration lifecycle for events.
type RegistrationService interface {
	// Save creates or edits the caller's registration for eventID and applies
	// action (save_draft or submit).
	Save(ctx context.Context, actor models.Actor, eventID string, input models.RegistrationInput, action Action) (*models.Registration, error)
	// GenerateSlots replaces the registration's time slots with a generated run.
	GenerateSlots(ctx context.Context, actor models.Actor, eventID string, input models.SlotGenerationInput) (*models.Registration, error)
	Approve(ctx context.Context, actor models.Actor, registrationID string) (*models.ApprovalResult, error)
	Reject(ctx context.Context, actor models.Actor, registrationID string) (*models.Registration, error)
	// ListForEvent is the organizer view with pending and approved counts.
	ListForEvent(ctx context.Context, actor models.Actor, eventID string) (*models.EventRegistrations, error)
	// ListApproved is the public list of providers taking part in an event.
	ListApproved(ctx context.Context, eventID string) ([]models.Registration, error)
	ListMine(ctx context.Context, actor models.Actor) ([]models.Registration, error)
}
