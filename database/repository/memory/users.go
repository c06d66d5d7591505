package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"marche/models"
)

type UserRepo struct {
	mu    sync.RWMutex
	byID  map[string]models.User
	email map[string]string
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byID: map[string]models.User{}, email: map[string]string{}}
}

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; ok {
		return duplicate("user %s", user.ID)
	}
	if _, ok := r.email[user.Email]; ok {
		return duplicate("user email %s", user.Email)
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = *user
	r.email[user.Email] = user.ID
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, notFound("user %s", id)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	id, ok := r.email[email]
	r.mu.RUnlock()
	if !ok {
		return nil, notFound("user email %s", email)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepo) GetByIDs(_ context.Context, ids []string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.User{}
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[user.ID]
	if !ok {
		return notFound("user %s", user.ID)
	}
	if prev.Email != user.Email {
		if _, taken := r.email[user.Email]; taken {
			return duplicate("user email %s", user.Email)
		}
		delete(r.email, prev.Email)
		r.email[user.Email] = user.ID
	}
	user.UpdatedAt = time.Now().UTC()
	r.byID[user.ID] = *user
	return nil
}

func (r *UserRepo) List(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) || (out[i].CreatedAt.Equal(out[j].CreatedAt) && out[i].ID < out[j].ID) })
	return out, nil
}
