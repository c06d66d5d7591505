package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"marche/models"
)

type ReservationRepo struct {
	mu    sync.RWMutex
	items map[string]models.EventReservation
}

func NewReservationRepo() *ReservationRepo {
	return &ReservationRepo{items: map[string]models.EventReservation{}}
}

func (r *ReservationRepo) Create(_ context.Context, res *models.EventReservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(res.UserID, res.EventID)
	if _, ok := r.items[key]; ok {
		return duplicate("reservation of %s for %s", res.UserID, res.EventID)
	}
	r.items[key] = *res
	return nil
}

func (r *ReservationRepo) Get(_ context.Context, userID, eventID string) (*models.EventReservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.items[pairKey(userID, eventID)]
	if !ok {
		return nil, notFound("reservation of %s for %s", userID, eventID)
	}
	return &res, nil
}

func (r *ReservationRepo) Delete(_ context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(userID, eventID)
	if _, ok := r.items[key]; !ok {
		return notFound("reservation of %s for %s", userID, eventID)
	}
	delete(r.items, key)
	return nil
}

func (r *ReservationRepo) ListByUser(_ context.Context, userID string) ([]models.EventReservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.EventReservation{}
	for _, res := range r.items {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ReservationRepo) CountByEvent(_ context.Context, eventID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, res := range r.items {
		if res.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (r *ReservationRepo) MarkCheckedIn(_ context.Context, userID, eventID string, at time.Time) (*models.EventReservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(userID, eventID)
	res, ok := r.items[key]
	if !ok {
		return nil, notFound("reservation of %s for %s", userID, eventID)
	}
	res.CheckedIn = true
	res.CheckedInAt = &at
	r.items[key] = res
	return &res, nil
}
