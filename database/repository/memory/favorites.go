package memory

import (
	"context"
	"sync"

	"marche/models"
)

type FavoriteRepo struct {
	mu    sync.RWMutex
	items map[string]models.Favorite
}

func NewFavoriteRepo() *FavoriteRepo {
	return &FavoriteRepo{items: map[string]models.Favorite{}}
}

func (r *FavoriteRepo) Add(_ context.Context, fav *models.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(fav.UserID, fav.ProviderID)
	if _, ok := r.items[key]; ok {
		return duplicate("favorite %s", fav.ProviderID)
	}
	r.items[key] = *fav
	return nil
}

func (r *FavoriteRepo) Remove(_ context.Context, userID, providerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(userID, providerID)
	if _, ok := r.items[key]; !ok {
		return notFound("favorite %s", providerID)
	}
	delete(r.items, key)
	return nil
}

func (r *FavoriteRepo) filter(match func(models.Favorite) bool) []models.Favorite {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Favorite{}
	for _, f := range r.items {
		if match(f) {
			out = append(out, f)
		}
	}
	return out
}

func (r *FavoriteRepo) ListByUser(_ context.Context, userID string) ([]models.Favorite, error) {
	return r.filter(func(f models.Favorite) bool { return f.UserID == userID }), nil
}
