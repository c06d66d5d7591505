package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "marche/database/repository/booking"
	eventRepo "marche/database/repository/event"
	registrationRepo "marche/database/repository/registration"
	"marche/models"
	"marche/services/notification"
	"marche/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReminderLead is how long before a slot starts the reminder fires.
const ReminderLead = time.Hour

type DefaultBookingService struct {
	Events        eventRepo.EventRepository
	Registrations registrationRepo.RegistrationRepository
	Bookings      bookingRepo.BookingRepository
	Notifier      notification.Emitter
	Logger        *zap.Logger
	// Now and Location are overridable in tests.
	Now      func() time.Time
	Location *time.Location
}

func NewDefaultBookingService(
	events eventRepo.EventRepository,
	regs registrationRepo.RegistrationRepository,
	bookings bookingRepo.BookingRepository,
	notifier notification.Emitter,
	logger *zap.Logger,
) (*DefaultBookingService, error) {
	if events == nil || regs == nil || bookings == nil || notifier == nil || logger == nil {
		return nil, fmt.Errorf("booking service initialization error: missing dependency")
	}
	return &DefaultBookingService{
		Events:        events,
		Registrations: regs,
		Bookings:      bookings,
		Notifier:      notifier,
		Logger:        logger,
		Now:           time.Now,
		Location:      time.Local,
	}, nil
}

func (s *DefaultBookingService) Book(ctx context.Context, actor models.Actor, req models.BookingRequest) (*models.Booking, error) {
	if !actor.IsMember() {
		return nil, utils.NewForbiddenError("member_only", "only members can book time slots")
	}
	if req.EventID == "" || req.ProviderID == "" || req.TimeSlotID == "" {
		return nil, utils.NewValidationError("missing_fields", "eventId, providerId and timeSlotId are required")
	}
	mode := req.Mode
	if mode == "" {
		mode = models.ModeInPerson
	}
	if mode != models.ModeOnline && mode != models.ModeInPerson {
		return nil, utils.NewValidationError("invalid_mode", "mode must be online or in_person")
	}

	event, err := s.Events.GetByID(ctx, req.EventID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("event_not_found", "event not found")
	}
	if err != nil {
		return nil, err
	}
	reg, err := s.Registrations.GetByEventAndProvider(ctx, req.EventID, req.ProviderID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("registration_not_found", "provider is not registered for this event")
	}
	if err != nil {
		return nil, err
	}
	if reg.Status != models.StatusApproved {
		return nil, utils.NewConflictError("registration_not_approved", "provider is not approved for this event")
	}
	slot, ok := reg.HasSlot(req.TimeSlotID)
	if !ok {
		return nil, utils.NewNotFoundError("slot_not_found", "time slot not found")
	}
	if mode == models.ModeOnline && !reg.OnlineBookingEnabled {
		return nil, utils.NewValidationError("online_booking_disabled", "provider does not accept online bookings")
	}

	booking := &models.Booking{
		ID:         uuid.New().String(),
		UserID:     actor.UserID,
		EventID:    event.ID,
		ProviderID: reg.ProviderID,
		TimeSlotID: slot.ID,
		Mode:       mode,
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
		CreatedAt:  s.Now().UTC(),
	}
	if err := s.Bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.NewConflictError("slot_unavailable", "time slot is already booked")
		}
		return nil, err
	}

	s.Logger.Info("time slot booked",
		zap.String("bookingId", booking.ID), zap.String("slotId", slot.ID), zap.String("userId", actor.UserID))
	link := "/bookings/" + booking.ID
	s.Notifier.Emit(ctx, notification.NewIntent(actor.UserID, models.NotifyBookingCreated,
		fmt.Sprintf("Booked %s %s-%s at %s", event.Date, slot.StartTime, slot.EndTime, event.Name), link))
	s.scheduleReminder(ctx, event, booking)
	return booking, nil
}

func (s *DefaultBookingService) scheduleReminder(ctx context.Context, event *models.Event, booking *models.Booking) {
	start, err := time.ParseInLocation("2006-01-02 15:04", event.Date+" "+booking.StartTime, s.Location)
	if err != nil {
		s.Logger.Warn("reminder not scheduled, bad slot time", zap.String("bookingId", booking.ID), zap.Error(err))
		return
	}
	fireAt := start.Add(-ReminderLead)
	if !fireAt.After(s.Now()) {
		return
	}
	reminder := notification.NewIntent(booking.UserID, models.NotifyBookingReminder,
		fmt.Sprintf("Your booking at %s starts at %s", event.Name, booking.StartTime), "/bookings/"+booking.ID)
	reminder.BookingID = booking.ID
	s.Notifier.EmitAt(ctx, fireAt, reminder)
}

func (s *DefaultBookingService) Cancel(ctx context.Context, actor models.Actor, bookingID string) error {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if errors.Is(err, utils.ErrNotFound) {
		return utils.NewNotFoundError("booking_not_found", "booking not found")
	}
	if err != nil {
		return err
	}
	if booking.UserID != actor.UserID {
		return utils.NewForbiddenError("not_owner", "only the member who booked can cancel")
	}
	if err := s.Bookings.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.NewNotFoundError("booking_not_found", "booking not found")
		}
		return err
	}

	s.Logger.Info("booking cancelled", zap.String("bookingId", bookingID), zap.String("slotId", booking.TimeSlotID))
	s.Notifier.Emit(ctx, notification.NewIntent(actor.UserID, models.NotifyBookingCancelled,
		fmt.Sprintf("Booking %s-%s was cancelled", booking.StartTime, booking.EndTime), "/bookings"))
	return nil
}

func (s *DefaultBookingService) ListForUser(ctx context.Context, actor models.Actor) ([]models.Booking, error) {
	return s.Bookings.ListByUser(ctx, actor.UserID)
}

func (s *DefaultBookingService) ListForProvider(ctx context.Context, actor models.Actor, eventID string) ([]models.Booking, error) {
	if !actor.IsProvider() {
		return nil, utils.NewForbiddenError("provider_only", "only providers can list their bookings")
	}
	return s.Bookings.ListByEventAndProvider(ctx, eventID, actor.UserID)
}

func (s *DefaultBookingService) SlotAvailability(ctx context.Context, eventID, providerID string) ([]models.SlotAvailability, error) {
	reg, err := s.Registrations.GetByEventAndProvider(ctx, eventID, providerID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("registration_not_found", "provider is not registered for this event")
	}
	if err != nil {
		return nil, err
	}
	if reg.Status != models.StatusApproved {
		return []models.SlotAvailability{}, nil
	}

	ids := make([]string, len(reg.TimeSlots))
	for i, slot := range reg.TimeSlots {
		ids[i] = slot.ID
	}
	booked, err := s.Bookings.BookedSlotIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.SlotAvailability, len(reg.TimeSlots))
	for i, slot := range reg.TimeSlots {
		out[i] = models.SlotAvailability{TimeSlot: slot, Booked: booked[slot.ID]}
	}
	return out, nil
}
