package user

import (
	"context"
	"time"

	favoriteRepo "marche/database/repository/favorite"
	userRepo "marche/database/repository/user"
	"marche/models"

	"go.uber.org/zap"
)

type UserService interface {
	// Auth
	DemoLogin(ctx context.Context, req models.DemoLoginRequest) (*AuthResponse, error)

	// User Management
	GetMe(ctx context.Context, actor models.Actor) (*models.User, error)
	Create(ctx context.Context, actor models.Actor, req models.CreateUserRequest) (*models.User, error)
	List(ctx context.Context, actor models.Actor) ([]models.User, error)

	// Notification preferences
	LinkLine(ctx context.Context, actor models.Actor, lineUserID string) (*models.User, error)
	UpdateNotificationSettings(ctx context.Context, actor models.Actor, settings models.LineNotificationSettings) (*models.User, error)
	UpdateFCMToken(ctx context.Context, actor models.Actor, token string) error

	// Favorites
	ToggleFavorite(ctx context.Context, actor models.Actor, providerID string) (*models.FavoriteState, error)
	ListFavorites(ctx context.Context, actor models.Actor) ([]models.Favorite, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo      userRepo.UserRepository
	Favorites favoriteRepo.FavoriteRepository
	Logger    *zap.Logger
	// TokenTTL is the lifetime of tokens issued by DemoLogin.
	TokenTTL time.Duration
}

// AuthResponse contains the user's ID, token, and additional details.
type AuthResponse struct {
	ID    string      `json:"id"`
	Token string      `json:"token"`
	Name  string      `json:"name,omitempty"`
	Email string      `json:"email,omitempty"`
	Role  models.Role `json:"role"`
}
