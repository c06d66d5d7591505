package models

import (
	"fmt"
	"time"
)

type ReviewTarget string

const (
	TargetEventProvider ReviewTarget = "event_provider"
	TargetService       ReviewTarget = "service"
)

// Review covers both provider-at-event reviews and standalone service reviews.
// TargetKey identifies the reviewed thing; (AuthorID, TargetKey) is unique.
type Review struct {
	ID         string       `json:"id" bson:"id"`
	TargetType ReviewTarget `json:"targetType" bson:"targetType"`
	TargetKey  string       `json:"-" bson:"targetKey"`
	EventID    string       `json:"eventId,omitempty" bson:"eventId,omitempty"`
	ProviderID string       `json:"providerId,omitempty" bson:"providerId,omitempty"`
	ServiceID  string       `json:"serviceId,omitempty" bson:"serviceId,omitempty"`
	AuthorID   string       `json:"authorId" bson:"authorId"`
	Rating     int          `json:"rating" bson:"rating"`
	Comment    string       `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt  time.Time    `json:"createdAt" bson:"createdAt"`
}

func EventProviderTargetKey(eventID, providerID string) string {
	return fmt.Sprintf("event:%s:provider:%s", eventID, providerID)
}

func ServiceTargetKey(serviceID string) string {
	return "service:" + serviceID
}

type ReviewSummary struct {
	Count   int      `json:"count"`
	Average float64  `json:"average"`
	Reviews []Review `json:"reviews"`
}

// ReviewInput is a review of a provider at an event, or of a service when ServiceID is set.
type ReviewInput struct {
	EventID    string `json:"eventId"`
	ProviderID string `json:"providerId"`
	ServiceID  string `json:"serviceId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}
