package memory

import (
	"context"
	"sync"

	"marche/models"
)

// MessageRepo keeps messages in insertion order, which is also createdAt order.
type MessageRepo struct {
	mu   sync.RWMutex
	msgs []models.ChatMessage
}

func NewMessageRepo() *MessageRepo {
	return &MessageRepo{}
}

func (r *MessageRepo) Create(_ context.Context, msg *models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.msgs = append(r.msgs, *msg)
	return nil
}

func (r *MessageRepo) filter(match func(models.ChatMessage) bool) []models.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.ChatMessage{}
	for _, m := range r.msgs {
		if match(m) {
			out = append(out, m)
		}
	}
	return out
}

func (r *MessageRepo) ListBySession(_ context.Context, sessionID string) ([]models.ChatMessage, error) {
	return r.filter(func(m models.ChatMessage) bool { return m.SessionID == sessionID }), nil
}

func (r *MessageRepo) MarkRead(_ context.Context, sessionID, receiverID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for i := range r.msgs {
		m := &r.msgs[i]
		if m.SessionID == sessionID && m.ReceiverID == receiverID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *MessageRepo) CountUnread(_ context.Context, receiverID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, m := range r.msgs {
		if m.ReceiverID == receiverID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *MessageRepo) ListBetween(_ context.Context, userID, otherUserID string) ([]models.ChatMessage, error) {
	return r.filter(func(m models.ChatMessage) bool {
		return (m.SenderID == userID && m.ReceiverID == otherUserID) ||
			(m.SenderID == otherUserID && m.ReceiverID == userID)
	}), nil
}
