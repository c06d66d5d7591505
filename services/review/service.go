package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	orderRepo "marche/database/repository/order"
	registrationRepo "marche/database/repository/registration"
	reservationRepo "marche/database/repository/reservation"
	reviewRepo "marche/database/repository/review"
	"marche/models"
	"marche/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	// AddEventReview reviews a provider the author met at an event they reserved.
	AddEventReview(ctx context.Context, actor models.Actor, in models.ReviewInput) (*models.Review, error)
	// AddServiceReview reviews a listing the author completed an order for.
	AddServiceReview(ctx context.Context, actor models.Actor, in models.ReviewInput) (*models.Review, error)
	EventProviderSummary(ctx context.Context, eventID, providerID string) (*models.ReviewSummary, error)
	ServiceSummary(ctx context.Context, serviceID string) (*models.ReviewSummary, error)
}

type DefaultReviewService struct {
	Reviews       reviewRepo.ReviewRepository
	Reservations  reservationRepo.ReservationRepository
	Registrations registrationRepo.RegistrationRepository
	Orders        orderRepo.OrderRepository
	Logger        *zap.Logger
}

func NewDefaultReviewService(
	reviews reviewRepo.ReviewRepository,
	reservations reservationRepo.ReservationRepository,
	regs registrationRepo.RegistrationRepository,
	orders orderRepo.OrderRepository,
	logger *zap.Logger,
) (*DefaultReviewService, error) {
	if reviews == nil || reservations == nil || regs == nil || orders == nil || logger == nil {
		return nil, fmt.Errorf("review service initialization error: missing dependency")
	}
	return &DefaultReviewService{
		Reviews:       reviews,
		Reservations:  reservations,
		Registrations: regs,
		Orders:        orders,
		Logger:        logger,
	}, nil
}

func checkRating(rating int) error {
	if rating < 1 || rating > 5 {
		return utils.NewValidationError("invalid_rating", "rating must be between 1 and 5")
	}
	return nil
}

func (s *DefaultReviewService) AddEventReview(ctx context.Context, actor models.Actor, in models.ReviewInput) (*models.Review, error) {
	if in.EventID == "" || in.ProviderID == "" {
		return nil, utils.NewValidationError("missing_fields", "eventId and providerId are required")
	}
	if err := checkRating(in.Rating); err != nil {
		return nil, err
	}

	if _, err := s.Reservations.Get(ctx, actor.UserID, in.EventID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.NewForbiddenError("not_attended", "only attendees can review providers at this event")
		}
		return nil, err
	}
	reg, err := s.Registrations.GetByEventAndProvider(ctx, in.EventID, in.ProviderID)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, err
	}
	if err != nil || reg.Status != models.StatusApproved {
		return nil, utils.NewNotFoundError("provider_not_at_event", "provider did not take part in this event")
	}

	review := &models.Review{
		TargetType: models.TargetEventProvider,
		TargetKey:  models.EventProviderTargetKey(in.EventID, in.ProviderID),
		EventID:    in.EventID,
		ProviderID: in.ProviderID,
	}
	return s.save(ctx, actor, review, in)
}

func (s *DefaultReviewService) AddServiceReview(ctx context.Context, actor models.Actor, in models.ReviewInput) (*models.Review, error) {
	if in.ServiceID == "" {
		return nil, utils.NewValidationError("missing_fields", "serviceId is required")
	}
	if err := checkRating(in.Rating); err != nil {
		return nil, err
	}
	done, err := s.Orders.HasCompleted(ctx, in.ServiceID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, utils.NewForbiddenError("order_not_completed", "only buyers with a completed order can review this service")
	}

	review := &models.Review{
		TargetType: models.TargetService,
		TargetKey:  models.ServiceTargetKey(in.ServiceID),
		ServiceID:  in.ServiceID,
	}
	return s.save(ctx, actor, review, in)
}

func (s *DefaultReviewService) save(ctx context.Context, actor models.Actor, review *models.Review, in models.ReviewInput) (*models.Review, error) {
	review.ID = uuid.New().String()
	review.AuthorID = actor.UserID
	review.Rating = in.Rating
	review.Comment = strings.TrimSpace(in.Comment)
	review.CreatedAt = time.Now().UTC()

	if err := s.Reviews.Create(ctx, review); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.NewConflictError("already_reviewed", "you already reviewed this")
		}
		return nil, err
	}
	s.Logger.Info("review added", zap.String("target", review.TargetKey), zap.Int("rating", review.Rating))
	return review, nil
}

func (s *DefaultReviewService) summary(ctx context.Context, key string) (*models.ReviewSummary, error) {
	reviews, err := s.Reviews.ListByTarget(ctx, key)
	if err != nil {
		return nil, err
	}
	out := &models.ReviewSummary{Count: len(reviews), Reviews: reviews}
	if len(reviews) == 0 {
		return out, nil
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	out.Average = math.Round(float64(total)/float64(len(reviews))*10) / 10
	return out, nil
}

func (s *DefaultReviewService) EventProviderSummary(ctx context.Context, eventID, providerID string) (*models.ReviewSummary, error) {
	return s.summary(ctx, models.EventProviderTargetKey(eventID, providerID))
}

func (s *DefaultReviewService) ServiceSummary(ctx context.Context, serviceID string) (*models.ReviewSummary, error) {
	return s.summary(ctx, models.ServiceTargetKey(serviceID))
}
