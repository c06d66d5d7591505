package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"marche/models"
)

type RegistrationRepo struct {
	mu     sync.RWMutex
	byID   map[string]models.Registration
	byPair map[string]string
}

func NewRegistrationRepo() *RegistrationRepo {
	return &RegistrationRepo{byID: map[string]models.Registration{}, byPair: map[string]string{}}
}

func pairKey(a, b string) string { return a + "\x00" + b }

func cloneRegistration(reg models.Registration) models.Registration {
	reg.Products = append([]models.Product(nil), reg.Products...)
	reg.TimeSlots = append([]models.TimeSlot(nil), reg.TimeSlots...)
	return reg
}

func (r *RegistrationRepo) Create(_ context.Context, reg *models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(reg.EventID, reg.ProviderID)
	if _, ok := r.byPair[key]; ok {
		return duplicate("registration for event %s provider %s", reg.EventID, reg.ProviderID)
	}
	now := time.Now().UTC()
	reg.CreatedAt = now
	reg.UpdatedAt = now
	r.byID[reg.ID] = cloneRegistration(*reg)
	r.byPair[key] = reg.ID
	return nil
}

func (r *RegistrationRepo) Update(_ context.Context, reg *models.Registration, expected models.RegistrationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[reg.ID]
	if !ok || cur.Status != expected {
		return notFound("registration %s in status %s", reg.ID, expected)
	}
	reg.UpdatedAt = time.Now().UTC()
	cur.Status = reg.Status
	cur.OfferingKind = reg.OfferingKind
	cur.Products = reg.Products
	cur.TimeSlots = reg.TimeSlots
	cur.OnlineBookingEnabled = reg.OnlineBookingEnabled
	cur.Notes = reg.Notes
	cur.UpdatedAt = reg.UpdatedAt
	r.byID[reg.ID] = cloneRegistration(cur)
	return nil
}

func (r *RegistrationRepo) GetByID(_ context.Context, id string) (*models.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.byID[id]
	if !ok {
		return nil, notFound("registration %s", id)
	}
	out := cloneRegistration(reg)
	return &out, nil
}

func (r *RegistrationRepo) GetByEventAndProvider(ctx context.Context, eventID, providerID string) (*models.Registration, error) {
	r.mu.RLock()
	id, ok := r.byPair[pairKey(eventID, providerID)]
	r.mu.RUnlock()
	if !ok {
		return nil, notFound("registration for event %s provider %s", eventID, providerID)
	}
	return r.GetByID(ctx, id)
}

func (r *RegistrationRepo) list(match func(models.Registration) bool) []models.Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Registration{}
	for _, reg := range r.byID {
		if match(reg) {
			out = append(out, cloneRegistration(reg))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *RegistrationRepo) ListByEvent(_ context.Context, eventID string) ([]models.Registration, error) {
	return r.list(func(reg models.Registration) bool { return reg.EventID == eventID }), nil
}

func (r *RegistrationRepo) ListByProvider(_ context.Context, providerID string) ([]models.Registration, error) {
	return r.list(func(reg models.Registration) bool { return reg.ProviderID == providerID }), nil
}

func (r *RegistrationRepo) UpdateStatus(_ context.Context, id string, from, to models.RegistrationStatus) (*models.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.byID[id]
	if !ok || reg.Status != from {
		return nil, notFound("registration %s in status %s", id, from)
	}
	reg.Status = to
	reg.UpdatedAt = time.Now().UTC()
	r.byID[id] = reg
	out := cloneRegistration(reg)
	return &out, nil
}

func (r *RegistrationRepo) CountByEventAndStatus(_ context.Context, eventID string, status models.RegistrationStatus) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, reg := range r.byID {
		if reg.EventID == eventID && reg.Status == status {
			n++
		}
	}
	return n, nil
}
