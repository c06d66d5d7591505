package user

import (
	"context"
	"errors"
	"time"

	"marche/models"
	"marche/utils"

	"go.uber.org/zap"
)

// ToggleFavorite removes the favorite if it exists and adds it otherwise.
func (s *DefaultUserService) ToggleFavorite(ctx context.Context, actor models.Actor, providerID string) (*models.FavoriteState, error) {
	if !actor.IsMember() {
		return nil, utils.NewForbiddenError("member_only", "only members can favorite providers")
	}
	provider, err := s.load(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider.Role != models.RoleProvider {
		return nil, utils.NewValidationError("not_a_provider", "only providers can be favorited")
	}

	err = s.Favorites.Remove(ctx, actor.UserID, providerID)
	if err == nil {
		s.Logger.Debug("favorite removed", zap.String("userId", actor.UserID), zap.String("providerId", providerID))
		return &models.FavoriteState{ProviderID: providerID, Favorited: false}, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, err
	}

	fav := &models.Favorite{UserID: actor.UserID, ProviderID: providerID, CreatedAt: time.Now().UTC()}
	// A concurrent toggle may have added it first; either way it is now favorited.
	if err := s.Favorites.Add(ctx, fav); err != nil && !errors.Is(err, utils.ErrDuplicate) {
		return nil, err
	}
	return &models.FavoriteState{ProviderID: providerID, Favorited: true}, nil
}

func (s *DefaultUserService) ListFavorites(ctx context.Context, actor models.Actor) ([]models.Favorite, error) {
	return s.Favorites.ListByUser(ctx, actor.UserID)
}
