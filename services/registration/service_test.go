package registration

import (
	"context"
	"fmt"
	"testing"

	"marche/database/repository/memory"
	"marche/models"
	"marche/services/notification"
	"marche/utils"

	"go.uber.org/zap"
)

var (
	organizer = models.Actor{UserID: "org-1", Role: models.RoleOrganizer}
	provider  = models.Actor{UserID: "prov-1", Role: models.RoleProvider}
	member    = models.Actor{UserID: "mem-1", Role: models.RoleMember}
)

type fixture struct {
	store    *memory.Store
	recorder *notification.Recorder
	svc      *DefaultRegistrationService
	event    *models.Event
}

func newFixture(t *testing.T, approvalRequired bool, vendorLimit int, enforce bool) *fixture {
	t.Helper()
	store := memory.NewStore()
	rec := &notification.Recorder{}
	svc, err := NewDefaultRegistrationService(store.Events, store.Registrations, store.Bookings, rec, zap.NewNop(), enforce)
	if err != nil {
		t.Fatalf("NewDefaultRegistrationService: %v", err)
	}
	event := &models.Event{
		ID: "evt-1", OrganizerID: organizer.UserID, Name: "Spring marché",
		Date: "2030-04-01", StartTime: "10:00", EndTime: "12:00",
		ApprovalRequired: approvalRequired, VendorLimit: vendorLimit,
	}
	if err := store.Events.Create(context.Background(), event); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return &fixture{store: store, recorder: rec, svc: svc, event: event}
}

func goodsInput() models.RegistrationInput {
	return models.RegistrationInput{
		OfferingKind: models.OfferingGoods,
		Products:     []models.Product{{Name: "Jam", Price: 800}},
	}
}

func serviceInput(slots ...models.TimeSlot) models.RegistrationInput {
	return models.RegistrationInput{OfferingKind: models.OfferingService, TimeSlots: slots, OnlineBookingEnabled: true}
}

func assertKind(t *testing.T, err error, kind utils.ErrorKind, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error %q, got nil", kind, code)
	}
	if got := utils.KindOf(err); got != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, got, err)
	}
	if code != "" && utils.CodeOf(err) != code {
		t.Fatalf("expected code %q, got %q", code, utils.CodeOf(err))
	}
}

func TestSave_DraftThenSubmit(t *testing.T) {
	f := newFixture(t, true, 0, false)
	ctx := context.Background()

	reg, err := f.svc.Save(ctx, provider, f.event.ID, goodsInput(), ActionSaveDraft)
	if err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if reg.Status != models.StatusDraft {
		t.Fatalf("expected draft, got %s", reg.Status)
	}

	again, err := f.svc.Save(ctx, provider, f.event.ID, goodsInput(), ActionSubmit)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if again.ID != reg.ID {
		t.Fatalf("second save created a new registration: %s vs %s", again.ID, reg.ID)
	}
	if again.Status != models.StatusSubmitted {
		t.Fatalf("expected submitted, got %s", again.Status)
	}
	if len(f.recorder.Intents) != 0 {
		t.Fatalf("no notification expected before a decision, got %v", f.recorder.Kinds())
	}

	_, err = f.svc.Save(ctx, provider, f.event.ID, goodsInput(), ActionSubmit)
	assertKind(t, err, utils.KindConflict, "already_submitted")
}

func TestSave_AutoApproveWithoutApprovalPolicy(t *testing.T) {
	f := newFixture(t, false, 0, false)

	reg, err := f.svc.Save(context.Background(), provider, f.event.ID, goodsInput(), ActionSubmit)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reg.Status != models.StatusApproved {
		t.Fatalf("expected approved, got %s", reg.Status)
	}
	kinds := f.recorder.Kinds()
	if len(kinds) != 1 || kinds[0] != models.NotifyRegistrationApproved {
		t.Fatalf("expected one approval notification, got %v", kinds)
	}
	if f.recorder.Intents[0].RecipientID != provider.UserID {
		t.Fatalf("notification went to %s", f.recorder.Intents[0].RecipientID)
	}
}

func TestSave_Validation(t *testing.T) {
	f := newFixture(t, true, 0, false)
	ctx := context.Background()

	_, err := f.svc.Save(ctx, member, f.event.ID, goodsInput(), ActionSubmit)
	assertKind(t, err, utils.KindForbidden, "")

	_, err = f.svc.Save(ctx, provider, "missing", goodsInput(), ActionSubmit)
	assertKind(t, err, utils.KindNotFound, "")

	_, err = f.svc.Save(ctx, provider, f.event.ID, models.RegistrationInput{OfferingKind: models.OfferingGoods}, ActionSubmit)
	assertKind(t, err, utils.KindValidation, "products_required")

	_, err = f.svc.Save(ctx, provider, f.event.ID, serviceInput(), ActionSubmit)
	assertKind(t, err, utils.KindValidation, "time_slots_required")

	_, err = f.svc.Save(ctx, provider, f.event.ID, serviceInput(models.TimeSlot{StartTime: "11:00", EndTime: "10:30"}), ActionSaveDraft)
	assertKind(t, err, utils.KindValidation, "invalid_time")

	overlapping := serviceInput(
		models.TimeSlot{StartTime: "10:00", EndTime: "10:30"},
		models.TimeSlot{StartTime: "10:15", EndTime: "10:45"},
	)
	_, err = f.svc.Save(ctx, provider, f.event.ID, overlapping, ActionSaveDraft)
	assertKind(t, err, utils.KindValidation, "overlapping_slots")

	// Drafts may be empty.
	if _, err := f.svc.Save(ctx, provider, f.event.ID, models.RegistrationInput{OfferingKind: models.OfferingGoods}, ActionSaveDraft); err != nil {
		t.Fatalf("empty draft: %v", err)
	}
}

func TestSave_ServiceAssignsSlotIDs(t *testing.T) {
	f := newFixture(t, true, 0, false)

	in := serviceInput(models.TimeSlot{StartTime: "10:00", EndTime: "10:30"})
	in.Products = []models.Product{{Name: "ignored"}}
	reg, err := f.svc.Save(context.Background(), provider, f.event.ID, in, ActionSaveDraft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(reg.TimeSlots) != 1 || reg.TimeSlots[0].ID == "" {
		t.Fatalf("expected one slot with an id, got %+v", reg.TimeSlots)
	}
	if len(reg.Products) != 0 {
		t.Fatalf("service registration kept products: %+v", reg.Products)
	}
}

func TestSave_LockedAfterDecision(t *testing.T) {
	f := newFixture(t, true, 0, false)
	ctx := context.Background()

	reg, err := f.svc.Save(ctx, provider, f.event.ID, goodsInput(), ActionSubmit)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.Approve(ctx, organizer, reg.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	_, err = f.svc.Save(ctx, provider, f.event.ID, goodsInput(), ActionSaveDraft)
	assertKind(t, err, utils.KindConflict, "registration_locked")
}

func TestSave_BookedSlotIsImmutable(t *testing.T) {
	f := newFixture(t, true, 0, false)
	ctx := context.Background()

	reg, err := f.svc.Save(ctx, provider, f.event.ID, serviceInput(
		models.TimeSlot{StartTime: "10:00", EndTime: "10:30"},
		models.TimeSlot{StartTime: "10:40", EndTime: "11:10"},
	), ActionSaveDraft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	s1, s2 := reg.TimeSlots[0], reg.TimeSlots[1]
	if err := f.store.Bookings.Create(ctx, &models.Booking{ID: "b1", UserID: member.UserID, EventID: f.event.ID, ProviderID: provider.UserID, TimeSlotID: s1.ID}); err != nil {
		t.Fatalf("book: %v", err)
	}

	_, err = f.svc.Save(ctx, provider, f.event.ID, serviceInput(s2), ActionSaveDraft)
	assertKind(t, err, utils.KindConflict, "slot_booked")

	moved := s1
	moved.StartTime, moved.EndTime = "10:05", "10:35"
	_, err = f.svc.Save(ctx, provider, f.event.ID, serviceInput(moved), ActionSaveDraft)
	assertKind(t, err, utils.KindConflict, "slot_booked")

	// Dropping an unbooked slot is fine.
	updated, err := f.svc.Save(ctx, provider, f.event.ID, serviceInput(s1), ActionSaveDraft)
	if err != nil {
		t.Fatalf("drop unbooked slot: %v", err)
	}
	if len(updated.TimeSlots) != 1 || updated.ID != reg.ID || updated.TimeSlots[0].ID != s1.ID {
		t.Fatalf("unexpected registration after edit: %+v", updated)
	}

	_, err = f.svc.GenerateSlots(ctx, provider, f.event.ID, models.SlotGenerationInput{})
	assertKind(t, err, utils.KindConflict, "slot_booked")
}

func TestSave_SlotIDsAreServerAssigned(t *testing.T) {
	f := newFixture(t, true, 0, false)
	ctx := context.Background()

	mine, err := f.svc.Save(ctx, provider, f.event.ID, serviceInput(
		models.TimeSlot{StartTime: "10:00", EndTime: "10:30"},
	), ActionSaveDraft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	taken := mine.TimeSlots[0].ID

	other := models.Actor{UserID: "prov-2", Role: models.RoleProvider}
	theirs, err := f.svc.Save(ctx, other, f.event.ID, serviceInput(
		models.TimeSlot{ID: taken, StartTime: "11:00", EndTime: "11:30"},
		models.TimeSlot{ID: "chosen", StartTime: "11:30", EndTime: "12:00"},
	), ActionSaveDraft)
	if err != nil {
		t.Fatalf("save other: %v", err)
	}
	for _, slot := range theirs.TimeSlots {
		if slot.ID == taken || slot.ID == "chosen" {
			t.Fatalf("client supplied slot id %q was kept", slot.ID)
		}
	}

	// An edit may not adopt an id it does not own either.
	edited, err := f.svc.Save(ctx, other, f.event.ID, serviceInput(
		theirs.TimeSlots[0],
		models.TimeSlot{ID: taken, StartTime: "11:30", EndTime: "12:00"},
	), ActionSaveDraft)
	if err != nil {
		t.Fatalf("edit other: %v", err)
	}
	if edited.TimeSlots[0].ID != theirs.TimeSlots[0].ID {
		t.Fatalf("owned slot id changed: %s -> %s", theirs.TimeSlots[0].ID, edited.TimeSlots[0].ID)
	}
	if edited.TimeSlots[1].ID == taken {
		t.Fatalf("edit adopted another registration's slot id")
	}

	// Booking the other provider's slots leaves this one free.
	for i, slot := range edited.TimeSlots {
		b := &models.Booking{ID: fmt.Sprintf("b%d", i), UserID: member.UserID, EventID: f.event.ID, ProviderID: other.UserID, TimeSlotID: slot.ID}
		if err := f.store.Bookings.Create(ctx, b); err != nil {
			t.Fatalf("book other slot: %v", err)
		}
	}
	booked, err := f.store.Bookings.BookedSlotIDs(ctx, []string{taken})
	if err != nil {
		t.Fatal(err)
	}
	if booked[taken] {
		t.Fatalf("slot %s reported booked by another provider's booking", taken)
	}
}

func TestApproveReject_Authorization(t *testing.T) {
	f := newFixture(t, true, 0, false)
	ctx := context.Background()

	reg, err := f.svc.Save(ctx, provider, f.event.ID, goodsInput(), ActionSubmit)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	otherOrganizer := models.Actor{UserID: "org-2", Role: models.RoleOrganizer}
	_, err = f.svc.Approve(ctx, otherOrganizer, reg.ID)
	assertKind(t, err, utils.KindForbidden, "organizer_only")
	_, err = f.svc.Reject(ctx, provider, reg.ID)
	assertKind(t, err, utils.KindForbidden, "organizer_only")
	_, err = f.svc.Approve(ctx, organizer, "missing")
	assertKind(t, err, utils.KindNotFound, "")

	rejected, err := f.svc.Reject(ctx, organizer, reg.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != models.StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}
	kinds := f.recorder.Kinds()
	if len(kinds) != 1 || kinds[0] != models.NotifyRegistrationRejected {
		t.Fatalf("expected one rejection notification, got %v", kinds)
	}

	_, err = f.svc.Approve(ctx, organizer, reg.ID)
	assertKind(t, err, utils.KindConflict, "registration_locked")
	if len(f.recorder.Intents) != 1 {
		t.Fatalf("failed transition emitted a notification: %v", f.recorder.Kinds())
	}
}

func TestApprove_DraftIsNotDecidable(t *testing.T) {
	f := newFixture(t, true, 0, false)
	ctx := context.Background()

	reg, err := f.svc.Save(ctx, provider, f.event.ID, goodsInput(), ActionSaveDraft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	_, err = f.svc.Approve(ctx, organizer, reg.ID)
	assertKind(t, err, utils.KindConflict, "invalid_transition")
}

func submitFor(t *testing.T, f *fixture, providerID string) *models.Registration {
	t.Helper()
	actor := models.Actor{UserID: providerID, Role: models.RoleProvider}
	reg, err := f.svc.Save(context.Background(), actor, f.event.ID, goodsInput(), ActionSubmit)
	if err != nil {
		t.Fatalf("submit for %s: %v", providerID, err)
	}
	return reg
}

func TestApprove_VendorLimitAdvisory(t *testing.T) {
	f := newFixture(t, true, 1, false)
	ctx := context.Background()
	first := submitFor(t, f, "prov-a")
	second := submitFor(t, f, "prov-b")

	res, err := f.svc.Approve(ctx, organizer, first.ID)
	if err != nil {
		t.Fatalf("approve first: %v", err)
	}
	if res.OverCapacity || res.ApprovedCount != 1 {
		t.Fatalf("unexpected first result: %+v", res)
	}

	res, err = f.svc.Approve(ctx, organizer, second.ID)
	if err != nil {
		t.Fatalf("approve second: %v", err)
	}
	if !res.OverCapacity || res.ApprovedCount != 2 || res.VendorLimit != 1 {
		t.Fatalf("expected over-capacity result, got %+v", res)
	}
}

func TestApprove_VendorLimitEnforced(t *testing.T) {
	f := newFixture(t, true, 1, true)
	ctx := context.Background()
	first := submitFor(t, f, "prov-a")
	second := submitFor(t, f, "prov-b")

	if _, err := f.svc.Approve(ctx, organizer, first.ID); err != nil {
		t.Fatalf("approve first: %v", err)
	}
	_, err := f.svc.Approve(ctx, organizer, second.ID)
	assertKind(t, err, utils.KindConflict, "vendor_capacity_reached")

	still, err := f.store.Registrations.GetByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if still.Status != models.StatusSubmitted {
		t.Fatalf("refused approval changed status to %s", still.Status)
	}
}

func TestGenerateSlots(t *testing.T) {
	f := newFixture(t, true, 0, false)
	ctx := context.Background()

	_, err := f.svc.GenerateSlots(ctx, provider, f.event.ID, models.SlotGenerationInput{})
	assertKind(t, err, utils.KindNotFound, "registration_not_found")

	if _, err := f.svc.Save(ctx, provider, f.event.ID, goodsInput(), ActionSaveDraft); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Event hours 10:00-12:00 with 30 minute slots and 10 minute gaps.
	reg, err := f.svc.GenerateSlots(ctx, provider, f.event.ID, models.SlotGenerationInput{OnlineBookingEnabled: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []string{"10:00-10:30", "10:40-11:10", "11:20-11:50"}
	if len(reg.TimeSlots) != len(want) {
		t.Fatalf("expected %d slots, got %+v", len(want), reg.TimeSlots)
	}
	for i, slot := range reg.TimeSlots {
		if got := slot.StartTime + "-" + slot.EndTime; got != want[i] {
			t.Errorf("slot %d: want %s, got %s", i, want[i], got)
		}
	}
	if reg.OfferingKind != models.OfferingService || len(reg.Products) != 0 || !reg.OnlineBookingEnabled {
		t.Fatalf("registration not switched to service: %+v", reg)
	}

	zero := 0
	reg, err = f.svc.GenerateSlots(ctx, provider, f.event.ID, models.SlotGenerationInput{DurationMin: &zero})
	if err != nil {
		t.Fatalf("generate zero duration: %v", err)
	}
	if len(reg.TimeSlots) != 0 {
		t.Fatalf("zero duration should produce no slots, got %+v", reg.TimeSlots)
	}
}

func TestListForEvent(t *testing.T) {
	f := newFixture(t, true, 0, false)
	ctx := context.Background()
	a := submitFor(t, f, "prov-a")
	submitFor(t, f, "prov-b")
	if _, err := f.svc.Approve(ctx, organizer, a.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	view, err := f.svc.ListForEvent(ctx, organizer, f.event.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(view.Registrations) != 2 || view.PendingCount != 1 || view.ApprovedCount != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}

	_, err = f.svc.ListForEvent(ctx, provider, f.event.ID)
	assertKind(t, err, utils.KindForbidden, "")

	approved, err := f.svc.ListApproved(ctx, f.event.ID)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(approved) != 1 || approved[0].ProviderID != "prov-a" {
		t.Fatalf("unexpected approved list: %+v", approved)
	}
}
