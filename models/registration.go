package models

import "time"

type RegistrationStatus string

const (
	StatusDraft     RegistrationStatus = "draft"
	StatusSubmitted RegistrationStatus = "submitted"
	StatusApproved  RegistrationStatus = "approved"
	StatusRejected  RegistrationStatus = "rejected"
)

type OfferingKind string

const (
	OfferingGoods   OfferingKind = "goods"
	OfferingService OfferingKind = "service"
)

type Product struct {
	Name        string `json:"name" bson:"name"`
	Price       int64  `json:"price" bson:"price"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// TimeSlot is a bookable interval offered inside a registration. Times are HH:MM.
type TimeSlot struct {
	ID        string `json:"id" bson:"id"`
	StartTime string `json:"startTime" bson:"startTime"`
	EndTime   string `json:"endTime" bson:"endTime"`
}

// Registration is one provider's offer to take part in one event.
type Registration struct {
	ID                   string             `json:"id" bson:"id"`
	EventID              string             `json:"eventId" bson:"eventId"`
	ProviderID           string             `json:"providerId" bson:"providerId"`
	Status               RegistrationStatus `json:"status" bson:"status"`
	OfferingKind         OfferingKind       `json:"offeringKind" bson:"offeringKind"`
	Products             []Product          `json:"products,omitempty" bson:"products,omitempty"`
	TimeSlots            []TimeSlot         `json:"timeSlots,omitempty" bson:"timeSlots,omitempty"`
	OnlineBookingEnabled bool               `json:"onlineBookingEnabled" bson:"onlineBookingEnabled"`
	Notes                string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// HasSlot reports whether slotID belongs to the registration.
func (r *Registration) HasSlot(slotID string) (TimeSlot, bool) {
	for _, s := range r.TimeSlots {
		if s.ID == slotID {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// RegistrationInput is what a provider sends when saving or submitting.
type RegistrationInput struct {
	OfferingKind         OfferingKind `json:"offeringKind"`
	Products             []Product    `json:"products"`
	TimeSlots            []TimeSlot   `json:"timeSlots"`
	OnlineBookingEnabled bool         `json:"onlineBookingEnabled"`
	Notes                string       `json:"notes"`
}

// SlotGenerationInput asks for slots in [StartTime, EndTime). Blank times fall
// back to the event's hours and nil lengths to the 30/10 minute defaults.
type SlotGenerationInput struct {
	StartTime            string `json:"startTime"`
	EndTime              string `json:"endTime"`
	DurationMin          *int   `json:"duration"`
	IntervalMin          *int   `json:"interval"`
	OnlineBookingEnabled bool   `json:"onlineBookingEnabled"`
}

// ApprovalResult tells the organizer where the event stands against its vendor limit.
type ApprovalResult struct {
	Registration  *Registration `json:"registration"`
	ApprovedCount int           `json:"approvedCount"`
	VendorLimit   int           `json:"vendorLimit"`
	OverCapacity  bool          `json:"overCapacity"`
}

// EventRegistrations is the organizer's view of the registrations for one event.
type EventRegistrations struct {
	Registrations []Registration `json:"registrations"`
	PendingCount  int            `json:"pendingCount"`
	ApprovedCount int            `json:"approvedCount"`
}
