package models

import "time"

type PaymentType string

const (
	PaymentEventTicket  PaymentType = "event_ticket"
	PaymentExhibitorFee PaymentType = "exhibitor_fee"
	PaymentService      PaymentType = "service"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

// PaymentReservation is a paid claim recorded in the SQL reservations table.
type PaymentReservation struct {
	ID                    string        `json:"id" gorm:"primaryKey;size:64"`
	UserID                string        `json:"userId" gorm:"index;size:64;not null"`
	Type                  PaymentType   `json:"type" gorm:"size:32;not null"`
	TargetID              string        `json:"targetId" gorm:"size:64;not null"`
	Amount                int64         `json:"amount" gorm:"not null"`
	Currency              string        `json:"currency" gorm:"size:8;not null"`
	Status                PaymentStatus `json:"status" gorm:"size:16;not null"`
	StripePaymentIntentID string        `json:"stripePaymentIntentId,omitempty" gorm:"size:128;uniqueIndex:idx_reservations_intent,where:stripe_payment_intent_id <> ''"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}

func (PaymentReservation) TableName() string { return "reservations" }

type PaymentIntentResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Amount          int64  `json:"amount"`
	ApplicationFee  int64  `json:"applicationFee"`
}

type AccountLinkRequest struct {
	RefreshURL string `json:"refreshUrl"`
	ReturnURL  string `json:"returnUrl"`
}

// PaymentIntentRequest asks for a card payment. When ProviderID names a user
// with a connected Stripe account the funds go there minus the platform fee.
type PaymentIntentRequest struct {
	Amount            int64  `json:"amount"`
	Currency          string `json:"currency"`
	ProviderID        string `json:"providerId"`
	PaymentMethodType string `json:"paymentMethodType"`
}

type RecordPaymentRequest struct {
	Type            PaymentType `json:"type"`
	TargetID        string      `json:"targetId"`
	Amount          int64       `json:"amount"`
	Currency        string      `json:"currency"`
	PaymentIntentID string      `json:"paymentIntentId"`
}
