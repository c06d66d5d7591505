package notification

import (
	"context"
	"fmt"

	"marche/models"

	"firebase.google.com/go/v4/messaging"
)

// FCMSender is satisfied by *messaging.Client.
type FCMSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMChannel sends a push to the user's registered device.
type FCMChannel struct {
	Client FCMSender
}

func (c *FCMChannel) Name() string { return "fcm" }

func (c *FCMChannel) Send(ctx context.Context, user *models.User, intent models.NotificationIntent) error {
	if user.FCMToken == "" {
		return ErrSkipped
	}

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: titleFor(intent.Kind),
			Body:  intent.Summary,
		},
		Data: map[string]string{
			"kind": string(intent.Kind),
			"link": intent.Link,
			"role": string(user.Role),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	if _, err := c.Client.Send(ctx, msg); err != nil {
		return fmt.Errorf("fcm send to %s: %w", user.ID, err)
	}
	return nil
}

func titleFor(kind models.NotificationKind) string {
	switch kind {
	case models.NotifyReservationCreated:
		return "Reservation confirmed"
	case models.NotifyReservationCancelled:
		return "Reservation cancelled"
	case models.NotifyBookingCreated:
		return "Booking confirmed"
	case models.NotifyBookingCancelled:
		return "Booking cancelled"
	case models.NotifyBookingReminder:
		return "Your booking starts soon"
	case models.NotifyRegistrationApproved:
		return "Registration approved"
	case models.NotifyRegistrationRejected:
		return "Registration rejected"
	case models.NotifyChatMessage:
		return "New message"
	case models.NotifyOrderCreated:
		return "New service request"
	case models.NotifyOrderStatusChanged:
		return "Order updated"
	case models.NotifyPaymentCompleted:
		return "Payment completed"
	default:
		return "marché"
	}
}
