package listingRepo

import (
	"context"

	"marche/models"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *models.ServiceListing) error
	Update(ctx context.Context, listing *models.ServiceListing) error
	GetByID(ctx context.Context, id string) (*models.ServiceListing, error)
	List(ctx context.Context) ([]models.ServiceListing, error)
}
