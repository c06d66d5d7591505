package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	eventRepo "marche/database/repository/event"
	reservationRepo "marche/database/repository/reservation"
	"marche/models"
	"marche/services/notification"
	"marche/services/registration"
	"marche/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	eventsCacheKey = "events:all"
	eventsCacheTTL = 5 * time.Minute
)

type DefaultEventService struct {
	Events       eventRepo.EventRepository
	Reservations reservationRepo.ReservationRepository
	Notifier     notification.Emitter
	Cache        utils.JSONCache
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewDefaultEventService(
	events eventRepo.EventRepository,
	reservations reservationRepo.ReservationRepository,
	notifier notification.Emitter,
	cache utils.JSONCache,
	logger *zap.Logger,
) (*DefaultEventService, error) {
	if events == nil || reservations == nil || notifier == nil || logger == nil {
		return nil, fmt.Errorf("event service initialization error: missing dependency")
	}
	if cache == nil {
		cache = utils.NopCache{}
	}
	return &DefaultEventService{
		Events:       events,
		Reservations: reservations,
		Notifier:     notifier,
		Cache:        cache,
		Logger:       logger,
		Now:          time.Now,
	}, nil
}

// TicketID is the identifier printed on a member's ticket.
func TicketID(eventID, userID string) string {
	return "ticket-" + eventID + "-" + userID
}

func validateEvent(e *models.Event) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return utils.NewValidationError("name_required", "event name is required")
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return utils.NewValidationError("invalid_date", "date must be YYYY-MM-DD")
	}
	start, err := registration.ParseClock(e.StartTime)
	if err != nil {
		return utils.NewValidationError("invalid_time", err.Error())
	}
	end, err := registration.ParseClock(e.EndTime)
	if err != nil {
		return utils.NewValidationError("invalid_time", err.Error())
	}
	if end <= start {
		return utils.NewValidationError("invalid_time", "event must end after it starts")
	}

	if e.Format == "" {
		e.Format = models.FormatOffline
	}
	switch e.Format {
	case models.FormatOffline, models.FormatOnline, models.FormatOnDemand:
	default:
		return utils.NewValidationError("invalid_format", "format must be offline, online or ondemand")
	}
	if e.Kind == "" {
		e.Kind = models.KindMarche
	}
	if e.Kind != models.KindMarche && e.Kind != models.KindSeminar {
		return utils.NewValidationError("invalid_kind", "kind must be marche or seminar")
	}
	if e.VendorLimit < 0 || e.AttendeeLimit < 0 || e.TicketPrice < 0 || e.ExhibitorFee < 0 {
		return utils.NewValidationError("invalid_number", "limits and prices cannot be negative")
	}
	return nil
}

func (s *DefaultEventService) Create(ctx context.Context, actor models.Actor, event models.Event) (*models.Event, error) {
	if !actor.CanOrganize() {
		return nil, utils.NewForbiddenError("organizer_only", "only organizers can create events")
	}
	if err := validateEvent(&event); err != nil {
		return nil, err
	}
	event.ID = uuid.New().String()
	event.OrganizerID = actor.UserID
	event.CreatedAt = s.Now().UTC()

	if err := s.Events.Create(ctx, &event); err != nil {
		return nil, err
	}
	if err := s.Cache.Invalidate(ctx, eventsCacheKey); err != nil {
		s.Logger.Warn("event cache invalidation failed", zap.Error(err))
	}
	s.Logger.Info("event created", zap.String("eventId", event.ID), zap.String("organizerId", actor.UserID))
	return &event, nil
}

func (s *DefaultEventService) allEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	hit, err := s.Cache.GetJSON(ctx, eventsCacheKey, &events)
	if err != nil {
		s.Logger.Warn("event cache read failed", zap.Error(err))
	}
	if hit {
		return events, nil
	}

	events, err = s.Events.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.SetJSON(ctx, eventsCacheKey, events, eventsCacheTTL); err != nil {
		s.Logger.Warn("event cache write failed", zap.Error(err))
	}
	return events, nil
}

func (s *DefaultEventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	events, err := s.allEvents(ctx)
	if err != nil {
		return nil, err
	}
	return filterEvents(events, filter, s.Now().Format("2006-01-02")), nil
}

func (s *DefaultEventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.Events.GetByID(ctx, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("event_not_found", "event not found")
	}
	return event, err
}

// Reserve records the member's attendance. The attendee limit is checked
// before the insert, so two racing reservations for the last seat can both
// succeed; the unique (user, event) index still holds.
func (s *DefaultEventService) Reserve(ctx context.Context, actor models.Actor, eventID string) (*models.EventReservation, error) {
	if !actor.IsMember() {
		return nil, utils.NewForbiddenError("member_only", "only members can reserve events")
	}
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.AttendeeLimit > 0 {
		count, err := s.Reservations.CountByEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if count >= event.AttendeeLimit {
			return nil, utils.NewConflictError("event_full", "event has reached its attendee limit")
		}
	}

	res := &models.EventReservation{
		ID:        uuid.New().String(),
		UserID:    actor.UserID,
		EventID:   eventID,
		TicketID:  TicketID(eventID, actor.UserID),
		CreatedAt: s.Now().UTC(),
	}
	if err := s.Reservations.Create(ctx, res); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.NewConflictError("already_reserved", "event already reserved")
		}
		return nil, err
	}

	s.Logger.Info("event reserved", zap.String("eventId", eventID), zap.String("userId", actor.UserID))
	s.Notifier.Emit(ctx, notification.NewIntent(actor.UserID, models.NotifyReservationCreated,
		fmt.Sprintf("You reserved %s on %s", event.Name, event.Date), "/events/"+eventID))
	return res, nil
}

func (s *DefaultEventService) CancelReservation(ctx context.Context, actor models.Actor, eventID string) error {
	if err := s.Reservations.Delete(ctx, actor.UserID, eventID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.NewNotFoundError("reservation_not_found", "no reservation for this event")
		}
		return err
	}

	summary := "Your reservation was cancelled"
	if event, err := s.Events.GetByID(ctx, eventID); err == nil {
		summary = fmt.Sprintf("Your reservation for %s was cancelled", event.Name)
	}
	s.Logger.Info("event reservation cancelled", zap.String("eventId", eventID), zap.String("userId", actor.UserID))
	s.Notifier.Emit(ctx, notification.NewIntent(actor.UserID, models.NotifyReservationCancelled, summary, "/events/"+eventID))
	return nil
}

func (s *DefaultEventService) ListReservations(ctx context.Context, actor models.Actor) ([]models.EventReservation, error) {
	return s.Reservations.ListByUser(ctx, actor.UserID)
}

func (s *DefaultEventService) CheckIn(ctx context.Context, actor models.Actor, eventID, ticketID string) (*models.EventReservation, error) {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != actor.UserID {
		return nil, utils.NewForbiddenError("organizer_only", "only the event organizer can check tickets")
	}
	prefix := TicketID(eventID, "")
	userID := strings.TrimPrefix(ticketID, prefix)
	if userID == ticketID || userID == "" {
		return nil, utils.NewValidationError("invalid_ticket", "ticket does not belong to this event")
	}

	res, err := s.Reservations.MarkCheckedIn(ctx, userID, eventID, s.Now().UTC())
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("ticket_not_found", "no reservation for this ticket")
	}
	if err != nil {
		return nil, err
	}
	s.Logger.Info("ticket checked in", zap.String("eventId", eventID), zap.String("ticketId", ticketID))
	return res, nil
}
