package chat

import (
	"context"
	"strings"
	"testing"

	"marche/database/repository/memory"
	"marche/models"
	"marche/services/notification"
	"marche/utils"

	"go.uber.org/zap"
)

var (
	buyer    = models.Actor{UserID: "buyer", Role: models.RoleMember}
	provider = models.Actor{UserID: "prov", Role: models.RoleProvider}
	stranger = models.Actor{UserID: "stranger", Role: models.RoleMember}
)

func setup(t *testing.T) (*DefaultChatService, *notification.Recorder) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	if err := store.Orders.Create(ctx, &models.ServiceOrder{ID: "order-1", ServiceID: "svc", BuyerID: buyer.UserID, ProviderID: provider.UserID, Status: models.OrderRequested}); err != nil {
		t.Fatalf("order: %v", err)
	}
	if err := store.Bookings.Create(ctx, &models.Booking{ID: "booking-1", UserID: buyer.UserID, ProviderID: provider.UserID, TimeSlotID: "slot"}); err != nil {
		t.Fatalf("booking: %v", err)
	}
	rec := &notification.Recorder{}
	svc, err := NewDefaultChatService(store.Messages, store.Orders, store.Bookings, rec, zap.NewNop())
	if err != nil {
		t.Fatalf("NewDefaultChatService: %v", err)
	}
	return svc, rec
}

func TestSendDerivesReceiver(t *testing.T) {
	svc, rec := setup(t)
	ctx := context.Background()

	for _, session := range []string{"order-1", "booking-1"} {
		msg, err := svc.Send(ctx, buyer, models.SendMessageRequest{SessionID: session, Text: "hello"})
		if err != nil {
			t.Fatalf("send on %s: %v", session, err)
		}
		if msg.ReceiverID != provider.UserID || msg.IsRead {
			t.Fatalf("unexpected message: %+v", msg)
		}
	}
	if len(rec.Intents) != 2 || rec.Intents[0].Kind != models.NotifyChatMessage || rec.Intents[0].RecipientID != provider.UserID {
		t.Fatalf("unexpected notifications: %+v", rec.Intents)
	}

	if _, err := svc.Send(ctx, stranger, models.SendMessageRequest{SessionID: "order-1", Text: "hi"}); utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("stranger should be forbidden, got %v", err)
	}
	if _, err := svc.Send(ctx, buyer, models.SendMessageRequest{SessionID: "nope", Text: "hi"}); utils.KindOf(err) != utils.KindNotFound {
		t.Fatalf("unknown session should be not found, got %v", err)
	}
	if _, err := svc.Send(ctx, buyer, models.SendMessageRequest{SessionID: "order-1", Text: "  "}); utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("blank text should be invalid, got %v", err)
	}
	if _, err := svc.Send(ctx, buyer, models.SendMessageRequest{SessionID: "order-1", Text: strings.Repeat("a", maxMessageLength+1)}); utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("long text should be invalid, got %v", err)
	}
}

func TestListSessionMarksRead(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Send(ctx, buyer, models.SendMessageRequest{SessionID: "order-1", Text: "one"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Send(ctx, buyer, models.SendMessageRequest{SessionID: "order-1", Text: "two"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if n, _ := svc.UnreadCount(ctx, provider); n != 2 {
		t.Fatalf("expected 2 unread, got %d", n)
	}

	// The sender reading the thread must not mark their own messages.
	if _, err := svc.ListSession(ctx, buyer, "order-1"); err != nil {
		t.Fatalf("list as buyer: %v", err)
	}
	if n, _ := svc.UnreadCount(ctx, provider); n != 2 {
		t.Fatalf("sender view changed unread count to %d", n)
	}

	msgs, err := svc.ListSession(ctx, provider, "order-1")
	if err != nil {
		t.Fatalf("list as provider: %v", err)
	}
	if len(msgs) != 2 || !msgs[0].IsRead || !msgs[1].IsRead {
		t.Fatalf("messages should be read after viewing: %+v", msgs)
	}
	if n, _ := svc.UnreadCount(ctx, provider); n != 0 {
		t.Fatalf("expected 0 unread, got %d", n)
	}

	if _, err := svc.ListBetween(ctx, stranger, buyer.UserID, provider.UserID); utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("stranger should not read pair history, got %v", err)
	}
	pair, err := svc.ListBetween(ctx, provider, provider.UserID, buyer.UserID)
	if err != nil || len(pair) != 2 {
		t.Fatalf("pair history: %v %v", pair, err)
	}
}

func TestHistorySurvivesBookingCancellation(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Send(ctx, buyer, models.SendMessageRequest{SessionID: "booking-1", Text: "see you at ten"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := svc.Bookings.Delete(ctx, "booking-1"); err != nil {
		t.Fatalf("cancel booking: %v", err)
	}

	msgs, err := svc.ListSession(ctx, provider, "booking-1")
	if err != nil || len(msgs) != 1 {
		t.Fatalf("provider should still read the thread: %+v %v", msgs, err)
	}
	reply, err := svc.Send(ctx, provider, models.SendMessageRequest{SessionID: "booking-1", Text: "sorry to miss you"})
	if err != nil || reply.ReceiverID != buyer.UserID {
		t.Fatalf("reply after cancellation: %+v %v", reply, err)
	}
	if _, err := svc.ListSession(ctx, stranger, "booking-1"); utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("stranger should stay locked out, got %v", err)
	}
}
