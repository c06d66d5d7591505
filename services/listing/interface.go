package listing

import (
	"context"

	"marche/models"
)

// ListingService manages standalone service listings.
type ListingService interface {
	Create(ctx context.Context, actor models.Actor, listing models.ServiceListing) (*models.ServiceListing, error)
	Update(ctx context.Context, actor models.Actor, id string, listing models.ServiceListing) (*models.ServiceListing, error)
	Get(ctx context.Context, id string) (*models.ServiceListing, error)
	List(ctx context.Context, filter models.ServiceFilter) ([]models.ServiceListing, error)
}

// OrderService moves service orders through requested, accepted, completed and cancelled.
type OrderService interface {
	Request(ctx context.Context, actor models.Actor, req models.OrderRequest) (*models.ServiceOrder, error)
	Accept(ctx context.Context, actor models.Actor, orderID string) (*models.ServiceOrder, error)
	Complete(ctx context.Context, actor models.Actor, orderID string) (*models.ServiceOrder, error)
	Cancel(ctx context.Context, actor models.Actor, orderID string) (*models.ServiceOrder, error)
	// ListMine returns orders the actor placed, or received when the actor is a provider.
	ListMine(ctx context.Context, actor models.Actor) ([]models.ServiceOrder, error)
}
