package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	paymentRepo "marche/database/repository/payment"
	userRepo "marche/database/repository/user"
	"marche/models"
	"marche/services/notification"
	"marche/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultCurrency   = "jpy"
	defaultMethodType = "card"
	intentSucceeded   = "succeeded"
)

type PaymentService interface {
	CreateConnectAccount(ctx context.Context, actor models.Actor) (string, error)
	CreateAccountLink(ctx context.Context, actor models.Actor, req models.AccountLinkRequest) (string, error)
	CreatePaymentIntent(ctx context.Context, actor models.Actor, req models.PaymentIntentRequest) (*models.PaymentIntentResult, error)
	// RecordReservation stores a paid claim. It is paid only when the processor
	// confirms the payment intent succeeded.
	RecordReservation(ctx context.Context, actor models.Actor, req models.RecordPaymentRequest) (*models.PaymentReservation, error)
	// ConfirmReservation re-checks a pending reservation's payment intent and
	// marks it paid once the processor reports success.
	ConfirmReservation(ctx context.Context, actor models.Actor, id string) (*models.PaymentReservation, error)
	CancelReservation(ctx context.Context, actor models.Actor, id string) (*models.PaymentReservation, error)
	ListReservations(ctx context.Context, actor models.Actor, userID string) ([]models.PaymentReservation, error)
}

type DefaultPaymentService struct {
	Gateway  Gateway
	Users    userRepo.UserRepository
	Ledger   paymentRepo.PaymentRepository
	Notifier notification.Emitter
	Logger   *zap.Logger
	// FeeRate is the platform's share of connected payments, e.g. 0.1.
	FeeRate float64
	// BaseURL is used for onboarding links the client did not supply.
	BaseURL string
}

func NewDefaultPaymentService(gateway Gateway, users userRepo.UserRepository, ledger paymentRepo.PaymentRepository, notifier notification.Emitter, logger *zap.Logger, feeRate float64, baseURL string) (*DefaultPaymentService, error) {
	if gateway == nil || users == nil || ledger == nil || notifier == nil || logger == nil {
		return nil, fmt.Errorf("payment service initialization error: missing dependency")
	}
	if feeRate < 0 || feeRate >= 1 {
		return nil, fmt.Errorf("payment service initialization error: fee rate %v out of range", feeRate)
	}
	return &DefaultPaymentService{
		Gateway:  gateway,
		Users:    users,
		Ledger:   ledger,
		Notifier: notifier,
		Logger:   logger,
		FeeRate:  feeRate,
		BaseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// ApplicationFee is the platform fee for amount, rounded down.
func ApplicationFee(amount int64, rate float64) int64 {
	return int64(math.Floor(float64(amount) * rate))
}

func (s *DefaultPaymentService) loadUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("user_not_found", "user not found")
	}
	return u, err
}

func (s *DefaultPaymentService) CreateConnectAccount(ctx context.Context, actor models.Actor) (string, error) {
	if !actor.IsProvider() && !actor.CanOrganize() {
		return "", utils.NewForbiddenError("payee_only", "only providers and organizers receive payouts")
	}
	u, err := s.loadUser(ctx, actor.UserID)
	if err != nil {
		return "", err
	}
	if u.StripeAccountID != "" {
		return u.StripeAccountID, nil
	}

	accountID, err := s.Gateway.CreateAccount(ctx, u.Email)
	if err != nil {
		s.Logger.Error("connect account creation failed", zap.String("userId", u.ID), zap.Error(err))
		return "", utils.NewIntegrationError("stripe_error", "could not create payout account", err)
	}
	u.StripeAccountID = accountID
	u.UpdatedAt = time.Now().UTC()
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	s.Logger.Info("connect account created", zap.String("userId", u.ID), zap.String("accountId", accountID))
	return accountID, nil
}

func (s *DefaultPaymentService) CreateAccountLink(ctx context.Context, actor models.Actor, req models.AccountLinkRequest) (string, error) {
	u, err := s.loadUser(ctx, actor.UserID)
	if err != nil {
		return "", err
	}
	if u.StripeAccountID == "" {
		return "", utils.NewValidationError("no_connect_account", "create a payout account first")
	}
	if req.RefreshURL == "" {
		req.RefreshURL = s.BaseURL + "/payouts/refresh"
	}
	if req.ReturnURL == "" {
		req.ReturnURL = s.BaseURL + "/payouts/done"
	}
	url, err := s.Gateway.CreateAccountLink(ctx, u.StripeAccountID, req.RefreshURL, req.ReturnURL)
	if err != nil {
		s.Logger.Error("account link creation failed", zap.String("userId", u.ID), zap.Error(err))
		return "", utils.NewIntegrationError("stripe_error", "could not create onboarding link", err)
	}
	return url, nil
}

func (s *DefaultPaymentService) CreatePaymentIntent(ctx context.Context, actor models.Actor, req models.PaymentIntentRequest) (*models.PaymentIntentResult, error) {
	if req.Amount <= 0 {
		return nil, utils.NewValidationError("invalid_amount", "amount must be positive")
	}
	params := IntentParams{
		Amount:            req.Amount,
		Currency:          strings.ToLower(req.Currency),
		PaymentMethodType: req.PaymentMethodType,
	}
	if params.Currency == "" {
		params.Currency = defaultCurrency
	}
	if params.PaymentMethodType == "" {
		params.PaymentMethodType = defaultMethodType
	}
	if req.ProviderID != "" {
		payee, err := s.loadUser(ctx, req.ProviderID)
		if err != nil {
			return nil, err
		}
		if payee.StripeAccountID != "" {
			params.Destination = payee.StripeAccountID
			params.ApplicationFee = ApplicationFee(req.Amount, s.FeeRate)
		}
	}

	id, secret, err := s.Gateway.CreatePaymentIntent(ctx, params)
	if err != nil {
		s.Logger.Error("payment intent creation failed", zap.String("userId", actor.UserID), zap.Int64("amount", req.Amount), zap.Error(err))
		return nil, utils.NewIntegrationError("stripe_error", "could not start the payment", err)
	}
	s.Logger.Info("payment intent created",
		zap.String("paymentIntentId", id), zap.Int64("amount", req.Amount), zap.Int64("fee", params.ApplicationFee))
	return &models.PaymentIntentResult{
		ClientSecret:    secret,
		PaymentIntentID: id,
		Amount:          req.Amount,
		ApplicationFee:  params.ApplicationFee,
	}, nil
}

func (s *DefaultPaymentService) RecordReservation(ctx context.Context, actor models.Actor, req models.RecordPaymentRequest) (*models.PaymentReservation, error) {
	switch req.Type {
	case models.PaymentEventTicket, models.PaymentExhibitorFee, models.PaymentService:
	default:
		return nil, utils.NewValidationError("invalid_type", "type must be event_ticket, exhibitor_fee or service")
	}
	if req.TargetID == "" {
		return nil, utils.NewValidationError("missing_fields", "targetId is required")
	}
	if req.Amount < 0 {
		return nil, utils.NewValidationError("invalid_amount", "amount cannot be negative")
	}

	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = defaultCurrency
	}
	status := models.PaymentPending
	if req.PaymentIntentID != "" {
		paid, err := s.verifyIntent(ctx, req.PaymentIntentID, req.Amount, currency)
		if err != nil {
			return nil, err
		}
		if paid {
			status = models.PaymentPaid
		}
	}

	res := &models.PaymentReservation{
		ID:                    uuid.New().String(),
		UserID:                actor.UserID,
		Type:                  req.Type,
		TargetID:              req.TargetID,
		Amount:                req.Amount,
		Currency:              currency,
		Status:                status,
		StripePaymentIntentID: req.PaymentIntentID,
	}
	if err := s.Ledger.Create(ctx, res); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.NewConflictError("payment_already_recorded", "this payment is already recorded")
		}
		return nil, err
	}

	s.Logger.Info("payment reservation recorded",
		zap.String("reservationId", res.ID), zap.String("type", string(res.Type)), zap.String("status", string(status)))
	if status == models.PaymentPaid {
		s.notifyPaid(ctx, res)
	}
	return res, nil
}

// verifyIntent reports whether the intent succeeded. The intent must be for
// exactly the amount and currency being recorded.
func (s *DefaultPaymentService) verifyIntent(ctx context.Context, intentID string, amount int64, currency string) (bool, error) {
	info, err := s.Gateway.RetrievePaymentIntent(ctx, intentID)
	if err != nil {
		s.Logger.Error("payment intent lookup failed", zap.String("paymentIntentId", intentID), zap.Error(err))
		return false, utils.NewIntegrationError("stripe_error", "could not verify the payment", err)
	}
	if info.Amount != amount || !strings.EqualFold(info.Currency, currency) {
		s.Logger.Warn("payment intent does not match reservation",
			zap.String("paymentIntentId", intentID),
			zap.Int64("intentAmount", info.Amount), zap.String("intentCurrency", info.Currency),
			zap.Int64("amount", amount), zap.String("currency", currency))
		return false, utils.NewValidationError("payment_mismatch", "amount or currency does not match the payment")
	}
	return info.Status == intentSucceeded, nil
}

func (s *DefaultPaymentService) notifyPaid(ctx context.Context, res *models.PaymentReservation) {
	s.Notifier.Emit(ctx, notification.NewIntent(res.UserID, models.NotifyPaymentCompleted,
		fmt.Sprintf("Payment of %d %s received", res.Amount, strings.ToUpper(res.Currency)), "/reservations"))
}

// pendingOwned loads a reservation the actor owns that is still pending.
func (s *DefaultPaymentService) pendingOwned(ctx context.Context, actor models.Actor, id string) (*models.PaymentReservation, error) {
	res, err := s.Ledger.GetByID(ctx, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("reservation_not_found", "reservation not found")
	}
	if err != nil {
		return nil, err
	}
	if res.UserID != actor.UserID {
		return nil, utils.NewForbiddenError("not_owner", "you can only change your own reservations")
	}
	if res.Status != models.PaymentPending {
		return nil, utils.NewConflictError("reservation_not_pending", fmt.Sprintf("reservation is already %s", res.Status))
	}
	return res, nil
}

// moveFrom applies a pending transition, reporting a lost race as a conflict.
func (s *DefaultPaymentService) moveFrom(ctx context.Context, res *models.PaymentReservation, to models.PaymentStatus) error {
	err := s.Ledger.UpdateStatus(ctx, res.ID, models.PaymentPending, to)
	if errors.Is(err, utils.ErrNotFound) {
		return utils.NewConflictError("reservation_not_pending", "reservation is no longer pending")
	}
	if err != nil {
		return err
	}
	res.Status = to
	res.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *DefaultPaymentService) ConfirmReservation(ctx context.Context, actor models.Actor, id string) (*models.PaymentReservation, error) {
	res, err := s.pendingOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if res.StripePaymentIntentID == "" {
		return nil, utils.NewValidationError("no_payment_intent", "reservation has no payment to confirm")
	}
	paid, err := s.verifyIntent(ctx, res.StripePaymentIntentID, res.Amount, res.Currency)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, utils.NewConflictError("payment_incomplete", "the payment has not succeeded yet")
	}
	if err := s.moveFrom(ctx, res, models.PaymentPaid); err != nil {
		return nil, err
	}

	s.Logger.Info("payment reservation confirmed", zap.String("reservationId", res.ID))
	s.notifyPaid(ctx, res)
	return res, nil
}

// CancelReservation withdraws a pending reservation. Paid reservations stay paid.
func (s *DefaultPaymentService) CancelReservation(ctx context.Context, actor models.Actor, id string) (*models.PaymentReservation, error) {
	res, err := s.pendingOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.moveFrom(ctx, res, models.PaymentCancelled); err != nil {
		return nil, err
	}
	s.Logger.Info("payment reservation cancelled", zap.String("reservationId", res.ID))
	return res, nil
}

func (s *DefaultPaymentService) ListReservations(ctx context.Context, actor models.Actor, userID string) ([]models.PaymentReservation, error) {
	if actor.UserID != userID && !actor.IsAdmin() {
		return nil, utils.NewForbiddenError("not_owner", "you can only list your own reservations")
	}
	return s.Ledger.ListByUser(ctx, userID)
}
