package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"marche/database/repository/memory"
	"marche/models"
	"marche/services/notification"
	"marche/utils"

	"go.uber.org/zap"
)

var (
	alice = models.Actor{UserID: "alice", Role: models.RoleMember}
	bob   = models.Actor{UserID: "bob", Role: models.RoleMember}
)

func setup(t *testing.T, status models.RegistrationStatus, online bool) (*DefaultBookingService, *memory.Store, *notification.Recorder) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	rec := &notification.Recorder{}

	if err := store.Events.Create(ctx, &models.Event{ID: "evt", OrganizerID: "org", Name: "Fair", Date: "2030-05-01", StartTime: "10:00", EndTime: "12:00"}); err != nil {
		t.Fatalf("create event: %v", err)
	}
	reg := &models.Registration{
		ID: "reg", EventID: "evt", ProviderID: "prov", Status: status,
		OfferingKind: models.OfferingService, OnlineBookingEnabled: online,
		TimeSlots: []models.TimeSlot{
			{ID: "s1", StartTime: "10:00", EndTime: "10:30"},
			{ID: "s2", StartTime: "10:40", EndTime: "11:10"},
		},
	}
	if err := store.Registrations.Create(ctx, reg); err != nil {
		t.Fatalf("create registration: %v", err)
	}

	svc, err := NewDefaultBookingService(store.Events, store.Registrations, store.Bookings, rec, zap.NewNop())
	if err != nil {
		t.Fatalf("NewDefaultBookingService: %v", err)
	}
	svc.Now = func() time.Time { return time.Date(2030, 4, 1, 9, 0, 0, 0, time.UTC) }
	svc.Location = time.UTC
	return svc, store, rec
}

func request(slot string, mode models.BookingMode) models.BookingRequest {
	return models.BookingRequest{EventID: "evt", ProviderID: "prov", TimeSlotID: slot, Mode: mode}
}

func TestBook_ClaimsSlotOnce(t *testing.T) {
	svc, _, rec := setup(t, models.StatusApproved, true)
	ctx := context.Background()

	b, err := svc.Book(ctx, alice, request("s1", models.ModeOnline))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if b.StartTime != "10:00" || b.ProviderID != "prov" {
		t.Fatalf("unexpected booking: %+v", b)
	}

	_, err = svc.Book(ctx, bob, request("s1", models.ModeInPerson))
	if utils.KindOf(err) != utils.KindConflict || utils.CodeOf(err) != "slot_unavailable" {
		t.Fatalf("expected slot_unavailable conflict, got %v", err)
	}

	kinds := rec.Kinds()
	if len(kinds) != 1 || kinds[0] != models.NotifyBookingCreated || rec.Intents[0].RecipientID != alice.UserID {
		t.Fatalf("expected one booking_created for alice, got %+v", rec.Intents)
	}
	if len(rec.Scheduled) != 1 || rec.Scheduled[0].Kind != models.NotifyBookingReminder || rec.Scheduled[0].BookingID != b.ID {
		t.Fatalf("expected one reminder for booking %s, got %+v", b.ID, rec.Scheduled)
	}
}

func TestBook_Preconditions(t *testing.T) {
	ctx := context.Background()

	svc, _, _ := setup(t, models.StatusSubmitted, true)
	_, err := svc.Book(ctx, alice, request("s1", models.ModeInPerson))
	if utils.CodeOf(err) != "registration_not_approved" {
		t.Fatalf("expected registration_not_approved, got %v", err)
	}

	svc, _, _ = setup(t, models.StatusApproved, false)
	_, err = svc.Book(ctx, alice, request("s1", models.ModeOnline))
	if utils.CodeOf(err) != "online_booking_disabled" {
		t.Fatalf("expected online_booking_disabled, got %v", err)
	}
	if _, err := svc.Book(ctx, alice, request("s1", "")); err != nil {
		t.Fatalf("in-person booking should work without online flag: %v", err)
	}

	_, err = svc.Book(ctx, alice, request("nope", models.ModeInPerson))
	if utils.KindOf(err) != utils.KindNotFound {
		t.Fatalf("expected not found for unknown slot, got %v", err)
	}

	provider := models.Actor{UserID: "prov", Role: models.RoleProvider}
	_, err = svc.Book(ctx, provider, request("s2", models.ModeInPerson))
	if utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("expected forbidden for provider, got %v", err)
	}
}

func TestBook_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	svc, store, _ := setup(t, models.StatusApproved, true)
	ctx := context.Background()

	const n = 40
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, conflicts := 0, 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := models.Actor{UserID: fmt.Sprintf("member-%d", i), Role: models.RoleMember}
			_, err := svc.Book(ctx, actor, request("s2", models.ModeInPerson))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case utils.CodeOf(err) == "slot_unavailable":
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 || conflicts != n-1 {
		t.Fatalf("expected 1 winner and %d conflicts, got %d and %d", n-1, wins, conflicts)
	}
	booked, err := store.Bookings.BookedSlotIDs(ctx, []string{"s2"})
	if err != nil || !booked["s2"] {
		t.Fatalf("slot should be booked: %v %v", booked, err)
	}
}

func TestCancel_FreesSlot(t *testing.T) {
	svc, _, rec := setup(t, models.StatusApproved, true)
	ctx := context.Background()

	b, err := svc.Book(ctx, alice, request("s1", models.ModeInPerson))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := svc.Cancel(ctx, bob, b.ID); utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
	rec.Reset()

	if err := svc.Cancel(ctx, alice, b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	kinds := rec.Kinds()
	if len(kinds) != 1 || kinds[0] != models.NotifyBookingCancelled {
		t.Fatalf("expected one booking_cancelled, got %v", kinds)
	}
	if err := svc.Cancel(ctx, alice, b.ID); utils.KindOf(err) != utils.KindNotFound {
		t.Fatalf("expected not found on second cancel, got %v", err)
	}

	if _, err := svc.Book(ctx, bob, request("s1", models.ModeInPerson)); err != nil {
		t.Fatalf("rebook freed slot: %v", err)
	}
}

func TestSlotAvailability(t *testing.T) {
	svc, _, _ := setup(t, models.StatusApproved, true)
	ctx := context.Background()

	if _, err := svc.Book(ctx, alice, request("s2", models.ModeInPerson)); err != nil {
		t.Fatalf("book: %v", err)
	}
	slots, err := svc.SlotAvailability(ctx, "evt", "prov")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(slots) != 2 || slots[0].Booked || !slots[1].Booked {
		t.Fatalf("unexpected availability: %+v", slots)
	}
}

func TestBook_NoReminderForPastSlot(t *testing.T) {
	svc, _, rec := setup(t, models.StatusApproved, true)
	svc.Now = func() time.Time { return time.Date(2030, 5, 1, 9, 30, 0, 0, time.UTC) }

	if _, err := svc.Book(context.Background(), alice, request("s1", models.ModeInPerson)); err != nil {
		t.Fatalf("book: %v", err)
	}
	if len(rec.Scheduled) != 0 {
		t.Fatalf("reminder inside the lead window should be skipped, got %+v", rec.Scheduled)
	}
}
