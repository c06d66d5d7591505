package orderRepo

import (
	"context"

	"marche/models"
)

// OrderRepository stores service orders. While an order is open its activeKey
// is unique, so a buyer cannot hold two open orders for the same service.
type OrderRepository interface {
	// Create yields utils.ErrDuplicate when an open order already exists.
	Create(ctx context.Context, order *models.ServiceOrder) error
	GetByID(ctx context.Context, id string) (*models.ServiceOrder, error)
	// UpdateStatus moves id from one status to another, clearing activeKey when `to`
	// is terminal. utils.ErrNotFound when id is not currently in `from`.
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.ServiceOrder, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]models.ServiceOrder, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.ServiceOrder, error)
	// HasCompleted reports whether buyerID has a completed order for serviceID.
	HasCompleted(ctx context.Context, serviceID, buyerID string) (bool, error)
}
