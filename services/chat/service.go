package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	bookingRepo "marche/database/repository/booking"
	messageRepo "marche/database/repository/message"
	orderRepo "marche/database/repository/order"
	"marche/models"
	"marche/services/notification"
	"marche/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxMessageLength = 2000

// ChatService carries messages between the two parties of an order or booking.
type ChatService interface {
	Send(ctx context.Context, actor models.Actor, req models.SendMessageRequest) (*models.ChatMessage, error)
	// ListSession returns the session's messages and marks those addressed to the actor as read.
	ListSession(ctx context.Context, actor models.Actor, sessionID string) ([]models.ChatMessage, error)
	UnreadCount(ctx context.Context, actor models.Actor) (int64, error)
	ListBetween(ctx context.Context, actor models.Actor, userID, otherUserID string) ([]models.ChatMessage, error)
}

type DefaultChatService struct {
	Messages messageRepo.MessageRepository
	Orders   orderRepo.OrderRepository
	Bookings bookingRepo.BookingRepository
	Notifier notification.Emitter
	Logger   *zap.Logger
}

func NewDefaultChatService(messages messageRepo.MessageRepository, orders orderRepo.OrderRepository, bookings bookingRepo.BookingRepository, notifier notification.Emitter, logger *zap.Logger) (*DefaultChatService, error) {
	if messages == nil || orders == nil || bookings == nil || notifier == nil || logger == nil {
		return nil, fmt.Errorf("chat service initialization error: missing dependency")
	}
	return &DefaultChatService{Messages: messages, Orders: orders, Bookings: bookings, Notifier: notifier, Logger: logger}, nil
}

// participants resolves a session id to its two parties. A booking is deleted
// when cancelled, so a session whose order and booking are both gone falls back
// to the parties of its first message.
func (s *DefaultChatService) participants(ctx context.Context, sessionID string) (string, string, error) {
	order, err := s.Orders.GetByID(ctx, sessionID)
	if err == nil {
		return order.BuyerID, order.ProviderID, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return "", "", err
	}
	booking, err := s.Bookings.GetByID(ctx, sessionID)
	if err == nil {
		return booking.UserID, booking.ProviderID, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return "", "", err
	}
	history, err := s.Messages.ListBySession(ctx, sessionID)
	if err != nil {
		return "", "", err
	}
	if len(history) == 0 {
		return "", "", utils.NewNotFoundError("session_not_found", "chat session not found")
	}
	return history[0].SenderID, history[0].ReceiverID, nil
}

func (s *DefaultChatService) counterpart(ctx context.Context, actor models.Actor, sessionID string) (string, error) {
	a, b, err := s.participants(ctx, sessionID)
	if err != nil {
		return "", err
	}
	switch actor.UserID {
	case a:
		return b, nil
	case b:
		return a, nil
	}
	return "", utils.NewForbiddenError("not_participant", "you are not part of this conversation")
}

func (s *DefaultChatService) Send(ctx context.Context, actor models.Actor, req models.SendMessageRequest) (*models.ChatMessage, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, utils.NewValidationError("empty_message", "message text is required")
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return nil, utils.NewValidationError("message_too_long", fmt.Sprintf("messages are limited to %d characters", maxMessageLength))
	}
	receiver, err := s.counterpart(ctx, actor, req.SessionID)
	if err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		ID:         uuid.New().String(),
		SessionID:  req.SessionID,
		SenderID:   actor.UserID,
		ReceiverID: receiver,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	preview := text
	if utf8.RuneCountInString(preview) > 40 {
		preview = string([]rune(preview)[:40]) + "…"
	}
	s.Notifier.Emit(ctx, notification.NewIntent(receiver, models.NotifyChatMessage, preview, "/messages/"+req.SessionID))
	return msg, nil
}

func (s *DefaultChatService) ListSession(ctx context.Context, actor models.Actor, sessionID string) ([]models.ChatMessage, error) {
	if _, err := s.counterpart(ctx, actor, sessionID); err != nil {
		return nil, err
	}
	if n, err := s.Messages.MarkRead(ctx, sessionID, actor.UserID); err != nil {
		s.Logger.Warn("mark read failed", zap.String("sessionId", sessionID), zap.Error(err))
	} else if n > 0 {
		s.Logger.Debug("messages marked read", zap.String("sessionId", sessionID), zap.Int64("count", n))
	}
	return s.Messages.ListBySession(ctx, sessionID)
}

func (s *DefaultChatService) UnreadCount(ctx context.Context, actor models.Actor) (int64, error) {
	return s.Messages.CountUnread(ctx, actor.UserID)
}

func (s *DefaultChatService) ListBetween(ctx context.Context, actor models.Actor, userID, otherUserID string) ([]models.ChatMessage, error) {
	if actor.UserID != userID && actor.UserID != otherUserID && !actor.IsAdmin() {
		return nil, utils.NewForbiddenError("not_participant", "you are not part of this conversation")
	}
	return s.Messages.ListBetween(ctx, userID, otherUserID)
}
