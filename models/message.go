package models

import "time"

// ChatMessage belongs to a session (an order or booking id). IsRead only ever goes false to true.
type ChatMessage struct {
	ID         string    `json:"id" bson:"id"`
	SessionID  string    `json:"sessionId" bson:"sessionId"`
	SenderID   string    `json:"senderId" bson:"senderId"`
	ReceiverID string    `json:"receiverId" bson:"receiverId"`
	Text       string    `json:"text" bson:"text"`
	IsRead     bool      `json:"isRead" bson:"isRead"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

type SendMessageRequest struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}
