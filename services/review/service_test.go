package review

import (
	"context"
	"testing"

	"marche/database/repository/memory"
	"marche/models"
	"marche/utils"

	"go.uber.org/zap"
)

func newService(t *testing.T) (*DefaultReviewService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc, err := NewDefaultReviewService(store.Reviews, store.Reservations, store.Registrations, store.Orders, zap.NewNop())
	if err != nil {
		t.Fatalf("NewDefaultReviewService: %v", err)
	}
	return svc, store
}

func TestAddEventReview(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	author := models.Actor{UserID: "mem", Role: models.RoleMember}
	in := models.ReviewInput{EventID: "evt", ProviderID: "prov", Rating: 4, Comment: " lovely jam "}

	if _, err := svc.AddEventReview(ctx, author, in); utils.CodeOf(err) != "not_attended" {
		t.Fatalf("expected not_attended, got %v", err)
	}
	if err := store.Reservations.Create(ctx, &models.EventReservation{ID: "r", UserID: "mem", EventID: "evt"}); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := svc.AddEventReview(ctx, author, in); utils.KindOf(err) != utils.KindNotFound {
		t.Fatalf("expected provider_not_at_event, got %v", err)
	}
	if err := store.Registrations.Create(ctx, &models.Registration{ID: "reg", EventID: "evt", ProviderID: "prov", Status: models.StatusApproved}); err != nil {
		t.Fatalf("register: %v", err)
	}

	bad := in
	bad.Rating = 6
	if _, err := svc.AddEventReview(ctx, author, bad); utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("expected validation error for rating 6, got %v", err)
	}

	rv, err := svc.AddEventReview(ctx, author, in)
	if err != nil {
		t.Fatalf("add review: %v", err)
	}
	if rv.Comment != "lovely jam" || rv.TargetType != models.TargetEventProvider {
		t.Fatalf("unexpected review: %+v", rv)
	}
	if _, err := svc.AddEventReview(ctx, author, in); utils.KindOf(err) != utils.KindConflict {
		t.Fatalf("expected conflict on second review, got %v", err)
	}
}

func TestAddServiceReviewAndSummary(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	order := &models.ServiceOrder{ID: "o1", ServiceID: "svc", BuyerID: "a", ProviderID: "p", Status: models.OrderRequested}
	if err := store.Orders.Create(ctx, order); err != nil {
		t.Fatalf("order: %v", err)
	}
	a := models.Actor{UserID: "a", Role: models.RoleMember}
	if _, err := svc.AddServiceReview(ctx, a, models.ReviewInput{ServiceID: "svc", Rating: 5}); utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("open order should not allow review, got %v", err)
	}
	for _, step := range [][2]models.OrderStatus{{models.OrderRequested, models.OrderAccepted}, {models.OrderAccepted, models.OrderCompleted}} {
		if _, err := store.Orders.UpdateStatus(ctx, "o1", step[0], step[1]); err != nil {
			t.Fatalf("advance order: %v", err)
		}
	}
	if _, err := svc.AddServiceReview(ctx, a, models.ReviewInput{ServiceID: "svc", Rating: 5}); err != nil {
		t.Fatalf("review: %v", err)
	}

	b := &models.ServiceOrder{ID: "o2", ServiceID: "svc", BuyerID: "b", ProviderID: "p", Status: models.OrderRequested}
	if err := store.Orders.Create(ctx, b); err != nil {
		t.Fatalf("order b: %v", err)
	}
	store.Orders.UpdateStatus(ctx, "o2", models.OrderRequested, models.OrderAccepted)
	store.Orders.UpdateStatus(ctx, "o2", models.OrderAccepted, models.OrderCompleted)
	if _, err := svc.AddServiceReview(ctx, models.Actor{UserID: "b", Role: models.RoleMember}, models.ReviewInput{ServiceID: "svc", Rating: 2}); err != nil {
		t.Fatalf("review b: %v", err)
	}

	sum, err := svc.ServiceSummary(ctx, "svc")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Count != 2 || sum.Average != 3.5 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	empty, err := svc.EventProviderSummary(ctx, "evt", "nobody")
	if err != nil || empty.Count != 0 || empty.Average != 0 {
		t.Fatalf("unexpected empty summary: %+v %v", empty, err)
	}
}
