package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"marche/models"
)

type ListingRepo struct {
	mu    sync.RWMutex
	items map[string]models.ServiceListing
}

func NewListingRepo() *ListingRepo {
	return &ListingRepo{items: map[string]models.ServiceListing{}}
}

func (r *ListingRepo) Create(_ context.Context, listing *models.ServiceListing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[listing.ID]; ok {
		return duplicate("service %s", listing.ID)
	}
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	r.items[listing.ID] = *listing
	return nil
}

func (r *ListingRepo) Update(_ context.Context, listing *models.ServiceListing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[listing.ID]; !ok {
		return notFound("service %s", listing.ID)
	}
	listing.UpdatedAt = time.Now().UTC()
	r.items[listing.ID] = *listing
	return nil
}

func (r *ListingRepo) GetByID(_ context.Context, id string) (*models.ServiceListing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[id]
	if !ok {
		return nil, notFound("service %s", id)
	}
	return &l, nil
}

func (r *ListingRepo) List(_ context.Context) ([]models.ServiceListing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ServiceListing, 0, len(r.items))
	for _, l := range r.items {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
