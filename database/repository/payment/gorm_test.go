package paymentRepo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"marche/models"
	"marche/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.PaymentReservation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestPaymentRepoCreateListUpdate(t *testing.T) {
	repo := NewGormPaymentRepo(setupTestDB(t))
	ctx := context.Background()

	older := &models.PaymentReservation{ID: "r1", UserID: "u1", Type: models.PaymentEventTicket, TargetID: "e1",
		Amount: 1500, Currency: "jpy", Status: models.PaymentPending, CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.PaymentReservation{ID: "r2", UserID: "u1", Type: models.PaymentService, TargetID: "s1",
		Amount: 3000, Currency: "jpy", Status: models.PaymentPaid, StripePaymentIntentID: "pi_1"}
	other := &models.PaymentReservation{ID: "r3", UserID: "u2", Type: models.PaymentExhibitorFee, TargetID: "e1",
		Amount: 5000, Currency: "jpy", Status: models.PaymentPending}
	for _, r := range []*models.PaymentReservation{older, newer, other} {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("create %s: %v", r.ID, err)
		}
	}

	list, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "r2" {
		t.Fatalf("expected newest first for u1, got %+v", list)
	}

	if err := repo.UpdateStatus(ctx, "r1", models.PaymentPending, models.PaymentCancelled); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.UpdateStatus(ctx, "r1", models.PaymentPending, models.PaymentPaid); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected ErrNotFound moving a cancelled reservation, got %v", err)
	}
	got, err := repo.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.PaymentCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
}

func TestPaymentRepoNotFound(t *testing.T) {
	repo := NewGormPaymentRepo(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateStatus(ctx, "missing", models.PaymentPending, models.PaymentPaid); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestPaymentRepoIntentIsUnique(t *testing.T) {
	repo := NewGormPaymentRepo(setupTestDB(t))
	ctx := context.Background()

	first := &models.PaymentReservation{ID: "r1", UserID: "u1", Type: models.PaymentService, TargetID: "s1",
		Amount: 100, Currency: "jpy", Status: models.PaymentPaid, StripePaymentIntentID: "pi_1"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	replay := &models.PaymentReservation{ID: "r2", UserID: "u2", Type: models.PaymentService, TargetID: "s2",
		Amount: 100000, Currency: "jpy", Status: models.PaymentPaid, StripePaymentIntentID: "pi_1"}
	if err := repo.Create(ctx, replay); !errors.Is(err, utils.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for a reused intent, got %v", err)
	}

	for _, id := range []string{"r3", "r4"} {
		noIntent := &models.PaymentReservation{ID: id, UserID: "u1", Type: models.PaymentEventTicket, TargetID: "e1",
			Amount: 500, Currency: "jpy", Status: models.PaymentPending}
		if err := repo.Create(ctx, noIntent); err != nil {
			t.Fatalf("reservations without an intent should not collide: %v", err)
		}
	}
}
