package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is anything the health monitor can probe (Mongo, Redis, SQL).
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc struct {
	Label string
	Fn    func(ctx context.Context) error
}

func (p PingFunc) Name() string                   { return p.Label }
func (p PingFunc) Ping(ctx context.Context) error { return p.Fn(ctx) }

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Services  map[string]bool `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// Healthy reports whether every probed service answered.
func (h HealthStatus) Healthy() bool {
	for _, ok := range h.Services {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth probes every pinger once and stores the snapshot.
func CheckHealth(ctx context.Context, pingers []Pinger) HealthStatus {
	status := HealthStatus{Services: make(map[string]bool, len(pingers)), CheckedAt: time.Now()}
	for _, p := range pingers {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := p.Ping(pctx)
		cancel()
		if err != nil {
			GetLogger().Warn("health check failed", zap.String("service", p.Name()), zap.Error(err))
		}
		status.Services[p.Name()] = err == nil
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, pingers []Pinger, every time.Duration) {
	CheckHealth(ctx, pingers)
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, pingers)
			}
		}
	}()
}
