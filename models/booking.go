package models

import "time"

type BookingMode string

const (
	ModeOnline   BookingMode = "online"
	ModeInPerson BookingMode = "in_person"
)

// Booking is a member's claim on one time slot. At most one exists per TimeSlotID.
type Booking struct {
	ID         string      `json:"id" bson:"id"`
	UserID     string      `json:"userId" bson:"userId"`
	EventID    string      `json:"eventId" bson:"eventId"`
	ProviderID string      `json:"providerId" bson:"providerId"`
	TimeSlotID string      `json:"timeSlotId" bson:"timeSlotId"`
	Mode       BookingMode `json:"mode" bson:"mode"`
	StartTime  string      `json:"startTime" bson:"startTime"`
	EndTime    string      `json:"endTime" bson:"endTime"`
	CreatedAt  time.Time   `json:"createdAt" bson:"createdAt"`
}

type BookingRequest struct {
	EventID    string      `json:"eventId"`
	ProviderID string      `json:"providerId"`
	TimeSlotID string      `json:"timeSlotId"`
	Mode       BookingMode `json:"mode"`
}

// SlotAvailability is one slot of a provider with its booked flag.
type SlotAvailability struct {
	TimeSlot
	Booked bool `json:"booked"`
}
