package memory

import (
	"context"
	"sort"
	"sync"

	"marche/models"
)

type ReviewRepo struct {
	mu       sync.RWMutex
	reviews  []models.Review
	authored map[string]bool
}

func NewReviewRepo() *ReviewRepo {
	return &ReviewRepo{authored: map[string]bool{}}
}

func (r *ReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(review.AuthorID, review.TargetKey)
	if r.authored[key] {
		return duplicate("review by %s for %s", review.AuthorID, review.TargetKey)
	}
	r.authored[key] = true
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *ReviewRepo) ListByTarget(_ context.Context, targetKey string) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Review{}
	for _, rv := range r.reviews {
		if rv.TargetKey == targetKey {
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
