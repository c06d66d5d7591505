package favoriteRepo

import (
	"context"

	"marche/models"
)

type FavoriteRepository interface {
	// Add yields utils.ErrDuplicate when the pair already exists.
	Add(ctx context.Context, fav *models.Favorite) error
	// Remove yields utils.ErrNotFound when the pair does not exist.
	Remove(ctx context.Context, userID, providerID string) error
	ListByUser(ctx context.Context, userID string) ([]models.Favorite, error)
}
