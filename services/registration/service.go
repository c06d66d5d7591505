package registration

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "marche/database/repository/booking"
	eventRepo "marche/database/repository/event"
	registrationRepo "marche/database/repository/registration"
	"marche/models"
	"marche/services/notification"
	"marche/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRegistrationService is the production implementation.
type DefaultRegistrationService struct {
	Events        eventRepo.EventRepository
	Registrations registrationRepo.RegistrationRepository
	Bookings      bookingRepo.BookingRepository
	Notifier      notification.Emitter
	Logger        *zap.Logger
	// VendorCapacityEnforced turns the vendor limit from a warning into a Conflict.
	VendorCapacityEnforced bool
}

func NewDefaultRegistrationService(
	events eventRepo.EventRepository,
	regs registrationRepo.RegistrationRepository,
	bookings bookingRepo.BookingRepository,
	notifier notification.Emitter,
	logger *zap.Logger,
	enforceVendorCapacity bool,
) (*DefaultRegistrationService, error) {
	if events == nil || regs == nil || bookings == nil || notifier == nil || logger == nil {
		return nil, fmt.Errorf("registration service initialization error: missing dependency")
	}
	return &DefaultRegistrationService{
		Events:                 events,
		Registrations:          regs,
		Bookings:               bookings,
		Notifier:               notifier,
		Logger:                 logger,
		VendorCapacityEnforced: enforceVendorCapacity,
	}, nil
}

func (s *DefaultRegistrationService) loadEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.Events.GetByID(ctx, eventID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("event_not_found", "event not found")
	}
	return event, err
}

func (s *DefaultRegistrationService) Save(ctx context.Context, actor models.Actor, eventID string, input models.RegistrationInput, action Action) (*models.Registration, error) {
	if !actor.IsProvider() {
		return nil, utils.NewForbiddenError("provider_only", "only providers can register for events")
	}
	if action != ActionSaveDraft && action != ActionSubmit {
		return nil, utils.NewValidationError("invalid_action", "action must be save_draft or submit")
	}
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	existing, err := s.Registrations.GetByEventAndProvider(ctx, eventID, actor.UserID)
	switch {
	case errors.Is(err, utils.ErrNotFound):
		existing = nil
	case err != nil:
		return nil, err
	}
	if err := normalizeInput(&input, action, ownedSlotIDs(existing)); err != nil {
		return nil, err
	}

	if existing == nil {
		reg, created, err := s.create(ctx, actor, event, input, action)
		if err != nil || created {
			return reg, err
		}
		// Lost a race with a concurrent first save: edit what the winner stored.
		existing = reg
	}

	return s.update(ctx, event, existing, input, action)
}

func ownedSlotIDs(reg *models.Registration) map[string]bool {
	if reg == nil {
		return nil
	}
	ids := make(map[string]bool, len(reg.TimeSlots))
	for _, slot := range reg.TimeSlots {
		ids[slot.ID] = true
	}
	return ids
}

func (s *DefaultRegistrationService) create(ctx context.Context, actor models.Actor, event *models.Event, input models.RegistrationInput, action Action) (*models.Registration, bool, error) {
	status, err := NextStatus("", action, event.ApprovalRequired)
	if err != nil {
		return nil, false, err
	}

	reg := &models.Registration{
		ID:                   uuid.New().String(),
		EventID:              event.ID,
		ProviderID:           actor.UserID,
		Status:               status,
		OfferingKind:         input.OfferingKind,
		Products:             input.Products,
		TimeSlots:            input.TimeSlots,
		OnlineBookingEnabled: input.OnlineBookingEnabled,
		Notes:                input.Notes,
	}
	err = s.Registrations.Create(ctx, reg)
	if errors.Is(err, utils.ErrDuplicate) {
		winner, getErr := s.Registrations.GetByEventAndProvider(ctx, event.ID, actor.UserID)
		if getErr != nil {
			return nil, false, getErr
		}
		return winner, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.Logger.Info("registration created",
		zap.String("registrationId", reg.ID), zap.String("eventId", event.ID), zap.String("status", string(status)))
	s.notifyAutoApproval(ctx, event, reg)
	return reg, true, nil
}

func (s *DefaultRegistrationService) update(ctx context.Context, event *models.Event, existing *models.Registration, input models.RegistrationInput, action Action) (*models.Registration, error) {
	status, err := NextStatus(existing.Status, action, event.ApprovalRequired)
	if err != nil {
		return nil, err
	}
	if err := s.checkBookedSlotsKept(ctx, existing, input.TimeSlots); err != nil {
		return nil, err
	}

	reg := *existing
	reg.Status = status
	reg.OfferingKind = input.OfferingKind
	reg.Products = input.Products
	reg.TimeSlots = input.TimeSlots
	reg.OnlineBookingEnabled = input.OnlineBookingEnabled
	reg.Notes = input.Notes

	if err := s.Registrations.Update(ctx, &reg, existing.Status); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.NewConflictError("registration_changed", "registration changed concurrently, reload and retry")
		}
		return nil, err
	}

	if existing.Status != status {
		s.Logger.Info("registration status changed",
			zap.String("registrationId", reg.ID), zap.String("from", string(existing.Status)), zap.String("to", string(status)))
		s.notifyAutoApproval(ctx, event, &reg)
	}
	return &reg, nil
}

// checkBookedSlotsKept rejects edits that drop or move a slot somebody booked.
func (s *DefaultRegistrationService) checkBookedSlotsKept(ctx context.Context, existing *models.Registration, next []models.TimeSlot) error {
	if len(existing.TimeSlots) == 0 {
		return nil
	}
	ids := make([]string, len(existing.TimeSlots))
	for i, slot := range existing.TimeSlots {
		ids[i] = slot.ID
	}
	booked, err := s.Bookings.BookedSlotIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(booked) == 0 {
		return nil
	}

	kept := make(map[string]models.TimeSlot, len(next))
	for _, slot := range next {
		kept[slot.ID] = slot
	}
	for _, slot := range existing.TimeSlots {
		if !booked[slot.ID] {
			continue
		}
		if now, ok := kept[slot.ID]; !ok || now.StartTime != slot.StartTime || now.EndTime != slot.EndTime {
			return utils.NewConflictError("slot_booked", fmt.Sprintf("time slot %s-%s is booked and cannot change", slot.StartTime, slot.EndTime))
		}
	}
	return nil
}

func (s *DefaultRegistrationService) notifyAutoApproval(ctx context.Context, event *models.Event, reg *models.Registration) {
	if reg.Status != models.StatusApproved {
		return
	}
	s.Notifier.Emit(ctx, notification.NewIntent(reg.ProviderID, models.NotifyRegistrationApproved,
		fmt.Sprintf("Your registration for %s was approved", event.Name), registrationLink(event.ID)))
}

func (s *DefaultRegistrationService) GenerateSlots(ctx context.Context, actor models.Actor, eventID string, input models.SlotGenerationInput) (*models.Registration, error) {
	if !actor.IsProvider() {
		return nil, utils.NewForbiddenError("provider_only", "only providers manage time slots")
	}
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	existing, err := s.Registrations.GetByEventAndProvider(ctx, eventID, actor.UserID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("registration_not_found", "save a registration before generating slots")
	}
	if err != nil {
		return nil, err
	}
	if existing.Status == models.StatusRejected {
		return nil, utils.NewConflictError("registration_locked", "registration was rejected")
	}

	start, end := input.StartTime, input.EndTime
	if start == "" {
		start = event.StartTime
	}
	if end == "" {
		end = event.EndTime
	}
	duration, interval := DefaultSlotDuration, DefaultSlotInterval
	if input.DurationMin != nil {
		duration = *input.DurationMin
	}
	if input.IntervalMin != nil {
		interval = *input.IntervalMin
	}
	slots, err := GenerateTimeSlots(start, end, duration, interval)
	if err != nil {
		return nil, utils.NewValidationError("invalid_time", err.Error())
	}

	// Generation replaces every slot, so any booking blocks it.
	if err := s.checkBookedSlotsKept(ctx, existing, nil); err != nil {
		return nil, err
	}

	reg := *existing
	reg.OfferingKind = models.OfferingService
	reg.Products = nil
	reg.TimeSlots = slots
	reg.OnlineBookingEnabled = input.OnlineBookingEnabled
	if err := s.Registrations.Update(ctx, &reg, existing.Status); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.NewConflictError("registration_changed", "registration changed concurrently, reload and retry")
		}
		return nil, err
	}
	s.Logger.Info("time slots generated",
		zap.String("registrationId", reg.ID), zap.Int("count", len(slots)), zap.String("window", start+"-"+end))
	return &reg, nil
}

func (s *DefaultRegistrationService) decide(ctx context.Context, actor models.Actor, registrationID string, action Action) (*models.Registration, *models.Event, error) {
	reg, err := s.Registrations.GetByID(ctx, registrationID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, nil, utils.NewNotFoundError("registration_not_found", "registration not found")
	}
	if err != nil {
		return nil, nil, err
	}
	event, err := s.loadEvent(ctx, reg.EventID)
	if err != nil {
		return nil, nil, err
	}
	if event.OrganizerID != actor.UserID {
		return nil, nil, utils.NewForbiddenError("organizer_only", "only the event organizer can decide on registrations")
	}
	next, err := NextStatus(reg.Status, action, event.ApprovalRequired)
	if err != nil {
		return nil, nil, err
	}
	reg.Status = next
	return reg, event, nil
}

func (s *DefaultRegistrationService) commitDecision(ctx context.Context, event *models.Event, reg *models.Registration) (*models.Registration, error) {
	updated, err := s.Registrations.UpdateStatus(ctx, reg.ID, models.StatusSubmitted, reg.Status)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewConflictError("invalid_transition", "registration is no longer submitted")
	}
	if err != nil {
		return nil, err
	}

	kind, verb := models.NotifyRegistrationApproved, "approved"
	if updated.Status == models.StatusRejected {
		kind, verb = models.NotifyRegistrationRejected, "rejected"
	}
	s.Logger.Info("registration decided", zap.String("registrationId", updated.ID), zap.String("status", verb))
	s.Notifier.Emit(ctx, notification.NewIntent(updated.ProviderID, kind,
		fmt.Sprintf("Your registration for %s was %s", event.Name, verb), registrationLink(event.ID)))
	return updated, nil
}

func (s *DefaultRegistrationService) Approve(ctx context.Context, actor models.Actor, registrationID string) (*models.ApprovalResult, error) {
	reg, event, err := s.decide(ctx, actor, registrationID, ActionApprove)
	if err != nil {
		return nil, err
	}

	approved, err := s.Registrations.CountByEventAndStatus(ctx, event.ID, models.StatusApproved)
	if err != nil {
		return nil, err
	}
	over := event.VendorLimit > 0 && approved+1 > event.VendorLimit
	if over {
		if s.VendorCapacityEnforced {
			return nil, utils.NewConflictError("vendor_capacity_reached",
				fmt.Sprintf("event already has %d of %d vendors approved", approved, event.VendorLimit))
		}
		s.Logger.Warn("approval exceeds vendor limit",
			zap.String("eventId", event.ID), zap.Int("approved", approved+1), zap.Int("limit", event.VendorLimit))
	}

	updated, err := s.commitDecision(ctx, event, reg)
	if err != nil {
		return nil, err
	}
	return &models.ApprovalResult{
		Registration:  updated,
		ApprovedCount: approved + 1,
		VendorLimit:   event.VendorLimit,
		OverCapacity:  over,
	}, nil
}

func (s *DefaultRegistrationService) Reject(ctx context.Context, actor models.Actor, registrationID string) (*models.Registration, error) {
	reg, event, err := s.decide(ctx, actor, registrationID, ActionReject)
	if err != nil {
		return nil, err
	}
	return s.commitDecision(ctx, event, reg)
}

func (s *DefaultRegistrationService) ListForEvent(ctx context.Context, actor models.Actor, eventID string) (*models.EventRegistrations, error) {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != actor.UserID {
		return nil, utils.NewForbiddenError("organizer_only", "only the event organizer can list registrations")
	}
	regs, err := s.Registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	out := &models.EventRegistrations{Registrations: regs}
	for _, r := range regs {
		switch r.Status {
		case models.StatusSubmitted:
			out.PendingCount++
		case models.StatusApproved:
			out.ApprovedCount++
		}
	}
	return out, nil
}

func (s *DefaultRegistrationService) ListApproved(ctx context.Context, eventID string) ([]models.Registration, error) {
	if _, err := s.loadEvent(ctx, eventID); err != nil {
		return nil, err
	}
	regs, err := s.Registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := []models.Registration{}
	for _, r := range regs {
		if r.Status == models.StatusApproved {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *DefaultRegistrationService) ListMine(ctx context.Context, actor models.Actor) ([]models.Registration, error) {
	if !actor.IsProvider() {
		return nil, utils.NewForbiddenError("provider_only", "only providers have registrations")
	}
	return s.Registrations.ListByProvider(ctx, actor.UserID)
}

func registrationLink(eventID string) string {
	return "/events/" + eventID + "/registration"
}
