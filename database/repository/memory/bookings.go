package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"marche/models"
)

// BookingRepo claims slots under a single mutex, so the check and the insert
// are one step just like the unique index in Mongo.
type BookingRepo struct {
	mu     sync.RWMutex
	byID   map[string]models.Booking
	bySlot map[string]string
}

func NewBookingRepo() *BookingRepo {
	return &BookingRepo{byID: map[string]models.Booking{}, bySlot: map[string]string{}}
}

func (r *BookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySlot[booking.TimeSlotID]; taken {
		return duplicate("slot %s", booking.TimeSlotID)
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	r.byID[booking.ID] = *booking
	r.bySlot[booking.TimeSlotID] = booking.ID
	return nil
}

func (r *BookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, notFound("booking %s", id)
	}
	return &b, nil
}

func (r *BookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return notFound("booking %s", id)
	}
	delete(r.byID, id)
	delete(r.bySlot, b.TimeSlotID)
	return nil
}

func (r *BookingRepo) list(match func(models.Booking) bool, less func(a, b models.Booking) bool) []models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Booking{}
	for _, b := range r.byID {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (r *BookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	return r.list(
		func(b models.Booking) bool { return b.UserID == userID },
		func(a, b models.Booking) bool { return a.CreatedAt.After(b.CreatedAt) },
	), nil
}

func (r *BookingRepo) ListByEventAndProvider(_ context.Context, eventID, providerID string) ([]models.Booking, error) {
	return r.list(
		func(b models.Booking) bool { return b.EventID == eventID && b.ProviderID == providerID },
		func(a, b models.Booking) bool { return a.StartTime < b.StartTime },
	), nil
}

func (r *BookingRepo) BookedSlotIDs(_ context.Context, slotIDs []string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booked := make(map[string]bool)
	for _, id := range slotIDs {
		if _, ok := r.bySlot[id]; ok {
			booked[id] = true
		}
	}
	return booked, nil
}
