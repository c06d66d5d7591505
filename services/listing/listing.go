package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	listingRepo "marche/database/repository/listing"
	"marche/models"
	"marche/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	listingsCacheKey = "listings:all"
	listingsCacheTTL = 5 * time.Minute
)

type DefaultListingService struct {
	Listings listingRepo.ListingRepository
	Cache    utils.JSONCache
	Logger   *zap.Logger
}

func NewDefaultListingService(listings listingRepo.ListingRepository, cache utils.JSONCache, logger *zap.Logger) (*DefaultListingService, error) {
	if listings == nil || logger == nil {
		return nil, fmt.Errorf("listing service initialization error: missing dependency")
	}
	if cache == nil {
		cache = utils.NopCache{}
	}
	return &DefaultListingService{Listings: listings, Cache: cache, Logger: logger}, nil
}

func validateListing(l *models.ServiceListing) error {
	l.Title = strings.TrimSpace(l.Title)
	if l.Title == "" {
		return utils.NewValidationError("title_required", "service title is required")
	}
	if l.Price < 0 {
		return utils.NewValidationError("invalid_price", "price cannot be negative")
	}
	if l.DeliveryMethod == "" {
		l.DeliveryMethod = models.DeliveryOffline
	}
	switch l.DeliveryMethod {
	case models.DeliveryOnline, models.DeliveryOffline, models.DeliveryBoth:
	default:
		return utils.NewValidationError("invalid_delivery_method", "deliveryMethod must be online, offline or both")
	}
	if l.Status == "" {
		l.Status = models.ListingOpen
	}
	if l.Status != models.ListingOpen && l.Status != models.ListingClosed {
		return utils.NewValidationError("invalid_status", "status must be open or closed")
	}
	return nil
}

func (s *DefaultListingService) invalidate(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx, listingsCacheKey); err != nil {
		s.Logger.Warn("listing cache invalidation failed", zap.Error(err))
	}
}

func (s *DefaultListingService) Create(ctx context.Context, actor models.Actor, listing models.ServiceListing) (*models.ServiceListing, error) {
	if !actor.IsProvider() {
		return nil, utils.NewForbiddenError("provider_only", "only providers can list services")
	}
	if err := validateListing(&listing); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	listing.ID = uuid.New().String()
	listing.ProviderID = actor.UserID
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if err := s.Listings.Create(ctx, &listing); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.Logger.Info("service listed", zap.String("serviceId", listing.ID), zap.String("providerId", actor.UserID))
	return &listing, nil
}

func (s *DefaultListingService) Update(ctx context.Context, actor models.Actor, id string, listing models.ServiceListing) (*models.ServiceListing, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.ProviderID != actor.UserID {
		return nil, utils.NewForbiddenError("not_owner", "only the provider who listed the service can edit it")
	}
	if err := validateListing(&listing); err != nil {
		return nil, err
	}
	listing.ID = current.ID
	listing.ProviderID = current.ProviderID
	listing.CreatedAt = current.CreatedAt
	listing.UpdatedAt = time.Now().UTC()
	if err := s.Listings.Update(ctx, &listing); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &listing, nil
}

func (s *DefaultListingService) Get(ctx context.Context, id string) (*models.ServiceListing, error) {
	listing, err := s.Listings.GetByID(ctx, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("service_not_found", "service not found")
	}
	return listing, err
}

func (s *DefaultListingService) List(ctx context.Context, filter models.ServiceFilter) ([]models.ServiceListing, error) {
	var all []models.ServiceListing
	hit, err := s.Cache.GetJSON(ctx, listingsCacheKey, &all)
	if err != nil {
		s.Logger.Warn("listing cache read failed", zap.Error(err))
	}
	if !hit {
		if all, err = s.Listings.List(ctx); err != nil {
			return nil, err
		}
		if err := s.Cache.SetJSON(ctx, listingsCacheKey, all, listingsCacheTTL); err != nil {
			s.Logger.Warn("listing cache write failed", zap.Error(err))
		}
	}

	out := []models.ServiceListing{}
	for _, l := range all {
		if matchesListing(l, filter) {
			out = append(out, l)
		}
	}
	return out, nil
}

func matchesListing(l models.ServiceListing, f models.ServiceFilter) bool {
	if f.Category != "" && l.Category != f.Category {
		return false
	}
	if f.ProviderID != "" && l.ProviderID != f.ProviderID {
		return false
	}
	if f.DeliveryMethod != "" {
		// "both" listings satisfy either delivery filter.
		if string(l.DeliveryMethod) != f.DeliveryMethod && l.DeliveryMethod != models.DeliveryBoth {
			return false
		}
	}
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		if !strings.Contains(strings.ToLower(l.Title+" "+l.Description), kw) {
			return false
		}
	}
	return true
}
