package models

import "time"

type EventFormat string

const (
	FormatOffline  EventFormat = "offline"
	FormatOnline   EventFormat = "online"
	FormatOnDemand EventFormat = "ondemand"
)

type EventKind string

const (
	KindMarche  EventKind = "marche"
	KindSeminar EventKind = "seminar"
)

// Event is a marché or seminar owned by an organizer. Date is YYYY-MM-DD and
// times are HH:MM in the event's local time.
type Event struct {
	ID               string      `json:"id" bson:"id"`
	OrganizerID      string      `json:"organizerId" bson:"organizerId"`
	Name             string      `json:"name" bson:"name"`
	Description      string      `json:"description,omitempty" bson:"description,omitempty"`
	Date             string      `json:"date" bson:"date"`
	StartTime        string      `json:"startTime" bson:"startTime"`
	EndTime          string      `json:"endTime" bson:"endTime"`
	Location         string      `json:"location,omitempty" bson:"location,omitempty"`
	Prefecture       string      `json:"prefecture,omitempty" bson:"prefecture,omitempty"`
	Format           EventFormat `json:"format" bson:"format"`
	Kind             EventKind   `json:"kind" bson:"kind"`
	ApprovalRequired bool        `json:"approvalRequired" bson:"approvalRequired"`
	VendorLimit      int         `json:"vendorLimit,omitempty" bson:"vendorLimit,omitempty"`
	AttendeeLimit    int         `json:"attendeeLimit,omitempty" bson:"attendeeLimit,omitempty"`
	TicketPrice      int64       `json:"ticketPrice,omitempty" bson:"ticketPrice,omitempty"`
	ExhibitorFee     int64       `json:"exhibitorFee,omitempty" bson:"exhibitorFee,omitempty"`
	CreatedAt        time.Time   `json:"createdAt" bson:"createdAt"`
}

// EventFilter narrows the public event listing. Zero values mean "no constraint".
type EventFilter struct {
	StartDate   string `form:"startDate"`
	EndDate     string `form:"endDate"`
	Prefecture  string `form:"prefecture"`
	Keyword     string `form:"keyword"`
	IncludePast bool   `form:"includePast"`
}

// EventReservation is a member's intent to attend an event.
type EventReservation struct {
	ID          string     `json:"id" bson:"id"`
	UserID      string     `json:"userId" bson:"userId"`
	EventID     string     `json:"eventId" bson:"eventId"`
	TicketID    string     `json:"ticketId" bson:"ticketId"`
	CheckedIn   bool       `json:"checkedIn" bson:"checkedIn"`
	CheckedInAt *time.Time `json:"checkedInAt,omitempty" bson:"checkedInAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
}

// Favorite marks a provider as followed by a member.
type Favorite struct {
	UserID     string    `json:"userId" bson:"userId"`
	ProviderID string    `json:"providerId" bson:"providerId"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}
