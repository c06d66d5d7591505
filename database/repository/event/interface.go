package eventRepo

import (
	"context"

	"marche/models"
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	// List returns every event ordered by date then start time.
	List(ctx context.Context) ([]models.Event, error)
}
