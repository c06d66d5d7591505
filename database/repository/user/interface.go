package userRepo

import (
	"context"

	"marche/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user; a taken email yields utils.ErrDuplicate.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByIDs retrieves every user in ids that exists.
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)
	// Update replaces an existing user record.
	Update(ctx context.Context, user *models.User) error
	// List retrieves all users.
	List(ctx context.Context) ([]models.User, error)
}
