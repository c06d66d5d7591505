package listing

import (
	"context"
	"errors"
	"fmt"

	listingRepo "marche/database/repository/listing"
	orderRepo "marche/database/repository/order"
	"marche/models"
	"marche/services/notification"
	"marche/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DefaultOrderService struct {
	Listings listingRepo.ListingRepository
	Orders   orderRepo.OrderRepository
	Notifier notification.Emitter
	Logger   *zap.Logger
}

func NewDefaultOrderService(listings listingRepo.ListingRepository, orders orderRepo.OrderRepository, notifier notification.Emitter, logger *zap.Logger) (*DefaultOrderService, error) {
	if listings == nil || orders == nil || notifier == nil || logger == nil {
		return nil, fmt.Errorf("order service initialization error: missing dependency")
	}
	return &DefaultOrderService{Listings: listings, Orders: orders, Notifier: notifier, Logger: logger}, nil
}

func orderLink(id string) string { return "/orders/" + id }

func (s *DefaultOrderService) Request(ctx context.Context, actor models.Actor, req models.OrderRequest) (*models.ServiceOrder, error) {
	if !actor.IsMember() {
		return nil, utils.NewForbiddenError("member_only", "only members can request services")
	}
	listing, err := s.Listings.GetByID(ctx, req.ServiceID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("service_not_found", "service not found")
	}
	if err != nil {
		return nil, err
	}
	if listing.ProviderID == actor.UserID {
		return nil, utils.NewValidationError("own_service", "you cannot order your own service")
	}
	if listing.Status != models.ListingOpen {
		return nil, utils.NewConflictError("service_closed", "service is not accepting orders")
	}

	order := &models.ServiceOrder{
		ID:         uuid.New().String(),
		ServiceID:  listing.ID,
		BuyerID:    actor.UserID,
		ProviderID: listing.ProviderID,
		Status:     models.OrderRequested,
		Note:       req.Note,
	}
	if err := s.Orders.Create(ctx, order); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.NewConflictError("order_exists", "you already have an open order for this service")
		}
		return nil, err
	}

	s.Logger.Info("service order requested", zap.String("orderId", order.ID), zap.String("serviceId", listing.ID))
	s.Notifier.Emit(ctx, notification.NewIntent(listing.ProviderID, models.NotifyOrderCreated,
		fmt.Sprintf("New order for %s", listing.Title), orderLink(order.ID)))
	return order, nil
}

// advance applies one order transition. allowed lists the statuses the order
// may currently be in and may decides whether the actor can perform it.
func (s *DefaultOrderService) advance(ctx context.Context, actor models.Actor, orderID string, to models.OrderStatus, allowed []models.OrderStatus, may func(*models.ServiceOrder) bool) (*models.ServiceOrder, error) {
	order, err := s.Orders.GetByID(ctx, orderID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("order_not_found", "order not found")
	}
	if err != nil {
		return nil, err
	}
	if !may(order) {
		return nil, utils.NewForbiddenError("not_participant", "you cannot change this order")
	}
	if order.Status.Terminal() {
		return nil, utils.NewConflictError("order_closed", "order is already "+string(order.Status))
	}
	ok := false
	for _, st := range allowed {
		if order.Status == st {
			ok = true
		}
	}
	if !ok {
		return nil, utils.NewConflictError("invalid_transition",
			fmt.Sprintf("cannot move order from %s to %s", order.Status, to))
	}

	updated, err := s.Orders.UpdateStatus(ctx, orderID, order.Status, to)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewConflictError("order_changed", "order changed concurrently, reload and retry")
	}
	if err != nil {
		return nil, err
	}

	recipient := updated.BuyerID
	if actor.UserID == updated.BuyerID {
		recipient = updated.ProviderID
	}
	s.Logger.Info("service order updated", zap.String("orderId", orderID), zap.String("status", string(to)))
	s.Notifier.Emit(ctx, notification.NewIntent(recipient, models.NotifyOrderStatusChanged,
		fmt.Sprintf("Order is now %s", to), orderLink(orderID)))
	return updated, nil
}

func (s *DefaultOrderService) Accept(ctx context.Context, actor models.Actor, orderID string) (*models.ServiceOrder, error) {
	return s.advance(ctx, actor, orderID, models.OrderAccepted,
		[]models.OrderStatus{models.OrderRequested},
		func(o *models.ServiceOrder) bool { return o.ProviderID == actor.UserID })
}

func (s *DefaultOrderService) Complete(ctx context.Context, actor models.Actor, orderID string) (*models.ServiceOrder, error) {
	return s.advance(ctx, actor, orderID, models.OrderCompleted,
		[]models.OrderStatus{models.OrderAccepted},
		func(o *models.ServiceOrder) bool { return o.ProviderID == actor.UserID })
}

func (s *DefaultOrderService) Cancel(ctx context.Context, actor models.Actor, orderID string) (*models.ServiceOrder, error) {
	return s.advance(ctx, actor, orderID, models.OrderCancelled,
		[]models.OrderStatus{models.OrderRequested, models.OrderAccepted},
		func(o *models.ServiceOrder) bool { return o.ProviderID == actor.UserID || o.BuyerID == actor.UserID })
}

func (s *DefaultOrderService) ListMine(ctx context.Context, actor models.Actor) ([]models.ServiceOrder, error) {
	if actor.IsProvider() {
		return s.Orders.ListByProvider(ctx, actor.UserID)
	}
	return s.Orders.ListByBuyer(ctx, actor.UserID)
}
