package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marche/config"
	"marche/database/repository/memory"
	"marche/models"
	"marche/services/notification"
	"marche/services/payment"
	"marche/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// nopGateway reports every intent as a succeeded 1500 JPY payment.
type nopGateway struct{}

func (nopGateway) CreateAccount(context.Context, string) (string, error) { return "acct_demo", nil }
func (nopGateway) CreateAccountLink(_ context.Context, id, _, _ string) (string, error) {
	return "https://connect.example/" + id, nil
}
func (nopGateway) CreatePaymentIntent(context.Context, payment.IntentParams) (string, string, error) {
	return "pi_demo", "pi_demo_secret", nil
}
func (nopGateway) RetrievePaymentIntent(context.Context, string) (payment.IntentInfo, error) {
	return payment.IntentInfo{Status: "succeeded", Amount: 1500, Currency: "jpy"}, nil
}

type testApp struct {
	t        *testing.T
	router   *gin.Engine
	recorder *notification.Recorder
	tokens   map[string]string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	repos := memoryRepositories(memory.NewStore())
	if err := seedDemoUsers(context.Background(), repos.Users); err != nil {
		t.Fatal(err)
	}
	rec := &notification.Recorder{}
	router, err := buildRouter(config.Config{MaxRequestsPerMin: 10000, PlatformFeeRate: 0.1, AppBaseURL: "http://localhost"}, appDeps{
		Repos:    repos,
		Notifier: rec,
		Cache:    utils.NopCache{},
		Gateway:  nopGateway{},
		Logger:   zap.NewNop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return &testApp{t: t, router: router, recorder: rec, tokens: map[string]string{}}
}

// do sends body as JSON on behalf of userID ("" for anonymous) and decodes
// the response into out when out is non-nil.
func (a *testApp) do(method, path, userID string, body interface{}, out interface{}) int {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+a.login(userID))
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			a.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code
}

func (a *testApp) login(userID string) string {
	a.t.Helper()
	if tok, ok := a.tokens[userID]; ok {
		return tok
	}
	body, _ := json.Marshal(map[string]string{"userId": userID})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/demo-login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		a.t.Fatalf("demo login %s: %d %s", userID, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		a.t.Fatal(err)
	}
	a.tokens[userID] = resp.Token
	return resp.Token
}

const (
	organizer = "demo-organizer"
	provider  = "demo-provider"
	member    = "demo-member"
	admin     = "demo-admin"
)

func TestHealthAndAuth(t *testing.T) {
	app := newTestApp(t)

	if code := app.do(http.MethodGet, "/api/health", "", nil, nil); code != http.StatusOK {
		t.Fatalf("health: %d", code)
	}
	if code := app.do(http.MethodGet, "/api/users/me", "", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous me: %d", code)
	}

	var me models.User
	if code := app.do(http.MethodGet, "/api/users/me", member, nil, &me); code != http.StatusOK {
		t.Fatalf("me: %d", code)
	}
	if me.ID != member || me.Role != models.RoleMember {
		t.Fatalf("unexpected me %+v", me)
	}

	if code := app.do(http.MethodGet, "/api/users", member, nil, nil); code != http.StatusForbidden {
		t.Fatalf("member listing users: %d", code)
	}
	var users []models.User
	if code := app.do(http.MethodGet, "/api/users", admin, nil, &users); code != http.StatusOK {
		t.Fatalf("admin listing users: %d", code)
	}
	if len(users) != len(demoUsers) {
		t.Fatalf("want %d users, got %d", len(demoUsers), len(users))
	}
}

func TestRegistrationBookingReviewFlow(t *testing.T) {
	app := newTestApp(t)

	var ev models.Event
	code := app.do(http.MethodPost, "/api/events", organizer, models.Event{
		Name: "Harbour marche", Date: "2030-05-01", StartTime: "10:00", EndTime: "16:00", ApprovalRequired: true,
	}, &ev)
	if code != http.StatusCreated {
		t.Fatalf("create event: %d", code)
	}
	if code := app.do(http.MethodPost, "/api/events", member, models.Event{
		Name: "x", Date: "2030-05-01", StartTime: "10:00", EndTime: "11:00",
	}, nil); code != http.StatusForbidden {
		t.Fatalf("member creating event: %d", code)
	}

	var reg models.Registration
	code = app.do(http.MethodPut, "/api/events/"+ev.ID+"/registration", provider, map[string]interface{}{
		"offeringKind": "service",
		"timeSlots":    []models.TimeSlot{{StartTime: "10:00", EndTime: "10:30"}, {StartTime: "11:00", EndTime: "11:30"}},
		"action":       "submit",
	}, &reg)
	if code != http.StatusOK {
		t.Fatalf("submit registration: %d", code)
	}
	if reg.Status != models.StatusSubmitted || len(reg.TimeSlots) != 2 {
		t.Fatalf("unexpected registration %+v", reg)
	}
	slotID := reg.TimeSlots[0].ID

	booking := models.BookingRequest{EventID: ev.ID, ProviderID: provider, TimeSlotID: slotID}
	if code := app.do(http.MethodPost, "/api/bookings", member, booking, nil); code != http.StatusConflict {
		t.Fatalf("booking before approval: %d", code)
	}

	if code := app.do(http.MethodPost, "/api/registrations/"+reg.ID+"/approve", provider, nil, nil); code != http.StatusForbidden {
		t.Fatalf("provider approving own registration: %d", code)
	}
	var approval models.ApprovalResult
	if code := app.do(http.MethodPost, "/api/registrations/"+reg.ID+"/approve", organizer, nil, &approval); code != http.StatusOK {
		t.Fatalf("approve: %d", code)
	}
	if approval.Registration.Status != models.StatusApproved || approval.ApprovedCount != 1 {
		t.Fatalf("unexpected approval %+v", approval)
	}

	var approved []models.Registration
	app.do(http.MethodGet, "/api/events/"+ev.ID+"/providers", "", nil, &approved)
	if len(approved) != 1 || approved[0].ProviderID != provider {
		t.Fatalf("public provider list: %+v", approved)
	}

	var b models.Booking
	if code := app.do(http.MethodPost, "/api/bookings", member, booking, &b); code != http.StatusCreated {
		t.Fatalf("book: %d", code)
	}
	if code := app.do(http.MethodPost, "/api/bookings", member, booking, nil); code != http.StatusConflict {
		t.Fatalf("second claim on slot: %d", code)
	}

	var slots []models.SlotAvailability
	app.do(http.MethodGet, "/api/events/"+ev.ID+"/providers/"+provider+"/slots", member, nil, &slots)
	if len(slots) != 2 || !slots[0].Booked || slots[1].Booked {
		t.Fatalf("availability: %+v", slots)
	}

	// Approved registrations no longer accept edits.
	code = app.do(http.MethodPut, "/api/events/"+ev.ID+"/registration", provider, map[string]interface{}{
		"offeringKind": "service",
		"timeSlots":    []models.TimeSlot{reg.TimeSlots[1]},
		"action":       "save_draft",
	}, nil)
	if code != http.StatusConflict {
		t.Fatalf("editing an approved registration: %d", code)
	}

	var res models.EventReservation
	if code := app.do(http.MethodPost, "/api/events/"+ev.ID+"/reserve", member, nil, &res); code != http.StatusCreated {
		t.Fatalf("reserve: %d", code)
	}
	if code := app.do(http.MethodPost, "/api/events/checkin", organizer, map[string]string{
		"eventId": ev.ID, "ticketId": res.TicketID,
	}, nil); code != http.StatusOK {
		t.Fatalf("check in: %d", code)
	}

	review := models.ReviewInput{EventID: ev.ID, ProviderID: provider, Rating: 4, Comment: "lovely"}
	if code := app.do(http.MethodPost, "/api/reviews", member, review, nil); code != http.StatusCreated {
		t.Fatalf("review: %d", code)
	}
	if code := app.do(http.MethodPost, "/api/reviews", member, review, nil); code != http.StatusConflict {
		t.Fatalf("second review: %d", code)
	}
	var summary models.ReviewSummary
	app.do(http.MethodGet, "/api/reviews/event/"+ev.ID+"/provider/"+provider, "", nil, &summary)
	if summary.Count != 1 || summary.Average != 4 {
		t.Fatalf("summary %+v", summary)
	}

	if code := app.do(http.MethodDelete, "/api/bookings/"+b.ID, member, nil, nil); code != http.StatusNoContent {
		t.Fatalf("cancel booking: %d", code)
	}

	kinds := map[models.NotificationKind]bool{}
	for _, k := range app.recorder.Kinds() {
		kinds[k] = true
	}
	for _, want := range []models.NotificationKind{
		models.NotifyRegistrationApproved, models.NotifyBookingCreated,
		models.NotifyBookingCancelled, models.NotifyReservationCreated,
	} {
		if !kinds[want] {
			t.Errorf("missing %s notification, got %v", want, app.recorder.Kinds())
		}
	}
}

func TestPaymentReservationLifecycle(t *testing.T) {
	app := newTestApp(t)

	ticket := models.RecordPaymentRequest{Type: models.PaymentEventTicket, TargetID: "evt-1", Amount: 1500, PaymentIntentID: "pi_demo"}
	var paid models.PaymentReservation
	if code := app.do(http.MethodPost, "/api/reservations", member, ticket, &paid); code != http.StatusCreated {
		t.Fatalf("record: %d", code)
	}
	if paid.Status != models.PaymentPaid {
		t.Fatalf("expected paid, got %s", paid.Status)
	}
	if code := app.do(http.MethodPost, "/api/reservations", member, ticket, nil); code != http.StatusConflict {
		t.Fatalf("recording the same payment twice: %d", code)
	}
	short := ticket
	short.PaymentIntentID, short.Amount = "pi_other", 90000
	if code := app.do(http.MethodPost, "/api/reservations", member, short, nil); code != http.StatusBadRequest {
		t.Fatalf("amount above the payment: %d", code)
	}

	var pending models.PaymentReservation
	if code := app.do(http.MethodPost, "/api/reservations", member, models.RecordPaymentRequest{
		Type: models.PaymentService, TargetID: "svc-1", Amount: 800,
	}, &pending); code != http.StatusCreated || pending.Status != models.PaymentPending {
		t.Fatalf("record pending: %d %+v", code, pending)
	}
	if code := app.do(http.MethodPost, "/api/reservations/"+pending.ID+"/cancel", provider, nil, nil); code != http.StatusForbidden {
		t.Fatalf("cancelling someone else's reservation: %d", code)
	}
	var cancelled models.PaymentReservation
	if code := app.do(http.MethodPost, "/api/reservations/"+pending.ID+"/cancel", member, nil, &cancelled); code != http.StatusOK {
		t.Fatalf("cancel: %d", code)
	}
	if cancelled.Status != models.PaymentCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if code := app.do(http.MethodPost, "/api/reservations/"+pending.ID+"/confirm", member, nil, nil); code != http.StatusConflict {
		t.Fatalf("confirming a cancelled reservation: %d", code)
	}
}
