package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"marche/models"
	"marche/utils"
)

func TestBookingRepoConcurrentClaimsOneWinner(t *testing.T) {
	repo := NewBookingRepo()
	ctx := context.Background()

	const claimers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, conflicts := 0, 0
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(ctx, &models.Booking{ID: fmt.Sprintf("b%d", i), UserID: fmt.Sprintf("u%d", i), TimeSlotID: "slot-1"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, utils.ErrDuplicate):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 || conflicts != claimers-1 {
		t.Fatalf("expected exactly one winner, got wins=%d conflicts=%d", wins, conflicts)
	}
}

func TestBookingRepoDeleteFreesSlot(t *testing.T) {
	repo := NewBookingRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, &models.Booking{ID: "b1", TimeSlotID: "s1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	booked, _ := repo.BookedSlotIDs(ctx, []string{"s1", "s2"})
	if !booked["s1"] || booked["s2"] {
		t.Fatalf("unexpected booked map %v", booked)
	}
	if err := repo.Delete(ctx, "b1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Create(ctx, &models.Booking{ID: "b2", TimeSlotID: "s1"}); err != nil {
		t.Fatalf("expected freed slot to be reclaimable, got %v", err)
	}
	if err := repo.Delete(ctx, "b1"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestOrderRepoActiveKeyReleasedOnTerminalStatus(t *testing.T) {
	repo := NewOrderRepo()
	ctx := context.Background()

	first := &models.ServiceOrder{ID: "o1", ServiceID: "svc", BuyerID: "u1", Status: models.OrderRequested}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &models.ServiceOrder{ID: "o2", ServiceID: "svc", BuyerID: "u1", Status: models.OrderRequested}); !errors.Is(err, utils.ErrDuplicate) {
		t.Fatalf("expected duplicate open order, got %v", err)
	}
	if _, err := repo.UpdateStatus(ctx, "o1", models.OrderRequested, models.OrderCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := repo.Create(ctx, &models.ServiceOrder{ID: "o3", ServiceID: "svc", BuyerID: "u1", Status: models.OrderRequested}); err != nil {
		t.Fatalf("expected new order after cancel, got %v", err)
	}
}
