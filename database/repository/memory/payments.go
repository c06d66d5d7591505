package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"marche/models"
)

type PaymentRepo struct {
	mu    sync.RWMutex
	items map[string]models.PaymentReservation
}

func NewPaymentRepo() *PaymentRepo {
	return &PaymentRepo{items: map[string]models.PaymentReservation{}}
}

func (r *PaymentRepo) Create(_ context.Context, res *models.PaymentReservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[res.ID]; ok {
		return duplicate("reservation %s", res.ID)
	}
	if res.StripePaymentIntentID != "" {
		for _, cur := range r.items {
			if cur.StripePaymentIntentID == res.StripePaymentIntentID {
				return duplicate("payment intent %s", res.StripePaymentIntentID)
			}
		}
	}
	now := time.Now().UTC()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now
	r.items[res.ID] = *res
	return nil
}

func (r *PaymentRepo) GetByID(_ context.Context, id string) (*models.PaymentReservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.items[id]
	if !ok {
		return nil, notFound("reservation %s", id)
	}
	return &res, nil
}

func (r *PaymentRepo) ListByUser(_ context.Context, userID string) ([]models.PaymentReservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.PaymentReservation{}
	for _, res := range r.items {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *PaymentRepo) UpdateStatus(_ context.Context, id string, from, to models.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.items[id]
	if !ok || res.Status != from {
		return notFound("reservation %s in status %s", id, from)
	}
	res.Status = to
	res.UpdatedAt = time.Now().UTC()
	r.items[id] = res
	return nil
}
