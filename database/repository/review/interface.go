package reviewRepo

import (
	"context"

	"marche/models"
)

type ReviewRepository interface {
	// Create yields utils.ErrDuplicate when the author already reviewed the target.
	Create(ctx context.Context, review *models.Review) error
	ListByTarget(ctx context.Context, targetKey string) ([]models.Review, error)
}
