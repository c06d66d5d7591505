package models

import "time"

type NotificationKind string

const (
	NotifyReservationCreated   NotificationKind = "event_reservation_created"
	NotifyReservationCancelled NotificationKind = "event_reservation_cancelled"
	NotifyBookingCreated       NotificationKind = "booking_created"
	NotifyBookingCancelled     NotificationKind = "booking_cancelled"
	NotifyRegistrationApproved NotificationKind = "registration_approved"
	NotifyRegistrationRejected NotificationKind = "registration_rejected"
	NotifyChatMessage          NotificationKind = "chat_message"
	NotifyOrderCreated         NotificationKind = "service_order_created"
	NotifyOrderStatusChanged   NotificationKind = "service_order_status_changed"
	NotifyPaymentCompleted     NotificationKind = "payment_completed"
	NotifyBookingReminder      NotificationKind = "booking_reminder"
)

// NotificationIntent is the fact a ledger operation hands to the notifier.
type NotificationIntent struct {
	RecipientID string           `json:"recipientId"`
	Kind        NotificationKind `json:"kind"`
	Summary     string           `json:"summary"`
	Link        string           `json:"link"`
	// BookingID ties a reminder to its booking. The worker drops the reminder
	// once that booking is gone.
	BookingID string    `json:"bookingId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
