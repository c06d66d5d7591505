package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"marche/models"
)

type OrderRepo struct {
	mu     sync.RWMutex
	byID   map[string]models.ServiceOrder
	active map[string]string
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{byID: map[string]models.ServiceOrder{}, active: map[string]string{}}
}

func (r *OrderRepo) Create(_ context.Context, order *models.ServiceOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := models.OrderActiveKey(order.ServiceID, order.BuyerID)
	if _, ok := r.active[key]; ok {
		return duplicate("open order for service %s", order.ServiceID)
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.ActiveKey = key
	r.byID[order.ID] = *order
	r.active[key] = order.ID
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*models.ServiceOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return nil, notFound("order %s", id)
	}
	return &o, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id string, from, to models.OrderStatus) (*models.ServiceOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byID[id]
	if !ok || o.Status != from {
		return nil, notFound("order %s in status %s", id, from)
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	if to.Terminal() && o.ActiveKey != "" {
		delete(r.active, o.ActiveKey)
		o.ActiveKey = ""
	}
	r.byID[id] = o
	return &o, nil
}

func (r *OrderRepo) list(match func(models.ServiceOrder) bool) []models.ServiceOrder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.ServiceOrder{}
	for _, o := range r.byID {
		if match(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *OrderRepo) ListByBuyer(_ context.Context, buyerID string) ([]models.ServiceOrder, error) {
	return r.list(func(o models.ServiceOrder) bool { return o.BuyerID == buyerID }), nil
}

func (r *OrderRepo) ListByProvider(_ context.Context, providerID string) ([]models.ServiceOrder, error) {
	return r.list(func(o models.ServiceOrder) bool { return o.ProviderID == providerID }), nil
}

func (r *OrderRepo) HasCompleted(_ context.Context, serviceID, buyerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.byID {
		if o.ServiceID == serviceID && o.BuyerID == buyerID && o.Status == models.OrderCompleted {
			return true, nil
		}
	}
	return false, nil
}
