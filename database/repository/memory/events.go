package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"marche/models"
)

type EventRepo struct {
	mu     sync.RWMutex
	events map[string]models.Event
}

func NewEventRepo() *EventRepo {
	return &EventRepo{events: map[string]models.Event{}}
}

func (r *EventRepo) Create(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[event.ID]; ok {
		return duplicate("event %s", event.ID)
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	r.events[event.ID] = *event
	return nil
}

func (r *EventRepo) GetByID(_ context.Context, id string) (*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok {
		return nil, notFound("event %s", id)
	}
	return &e, nil
}

func (r *EventRepo) List(_ context.Context) ([]models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
