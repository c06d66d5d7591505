package notification

import (
	"context"
	"fmt"

	"marche/models"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// LinePusher is the part of the LINE messaging API client used here.
type LinePusher interface {
	PushMessage(req *messaging_api.PushMessageRequest, xLineRetryKey string) (*messaging_api.PushMessageResponse, error)
}

// LineChannel pushes a text message to users who linked their LINE account.
type LineChannel struct {
	Client LinePusher
}

func NewLineChannel(channelAccessToken string) (*LineChannel, error) {
	bot, err := messaging_api.NewMessagingApiAPI(channelAccessToken)
	if err != nil {
		return nil, fmt.Errorf("line: failed to create messaging client: %w", err)
	}
	return &LineChannel{Client: bot}, nil
}

func (c *LineChannel) Name() string { return "line" }

func (c *LineChannel) Send(_ context.Context, user *models.User, intent models.NotificationIntent) error {
	if !user.IsLineLinked || user.LineUserID == "" {
		return ErrSkipped
	}
	if !lineCategoryEnabled(user.LineNotificationSettings, intent.Kind) {
		return ErrSkipped
	}

	text := intent.Summary
	if intent.Link != "" {
		text += "\n" + intent.Link
	}
	_, err := c.Client.PushMessage(&messaging_api.PushMessageRequest{
		To:       user.LineUserID,
		Messages: []messaging_api.MessageInterface{messaging_api.TextMessage{Text: text}},
	}, "")
	if err != nil {
		return fmt.Errorf("line push to %s: %w", user.ID, err)
	}
	return nil
}

// lineCategoryEnabled maps intent kinds onto the user's LINE categories.
// Registration decisions are always delivered. FavoriteProviderUpdates has no
// producer yet; it is stored so the client can render the toggle.
func lineCategoryEnabled(s models.LineNotificationSettings, kind models.NotificationKind) bool {
	switch kind {
	case models.NotifyReservationCreated, models.NotifyReservationCancelled, models.NotifyPaymentCompleted:
		return s.EventReservations
	case models.NotifyBookingCreated, models.NotifyBookingCancelled, models.NotifyBookingReminder,
		models.NotifyOrderCreated, models.NotifyOrderStatusChanged, models.NotifyChatMessage:
		return s.ServiceBookings
	default:
		return true
	}
}
