package messageRepo

import (
	"context"

	"marche/models"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	ListBySession(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	// MarkRead flips isRead for unread messages of the session addressed to receiverID.
	MarkRead(ctx context.Context, sessionID, receiverID string) (int64, error)
	CountUnread(ctx context.Context, receiverID string) (int64, error)
	// ListBetween returns the messages exchanged by two users in either direction.
	ListBetween(ctx context.Context, userID, otherUserID string) ([]models.ChatMessage, error)
}
