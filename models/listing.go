package models

import "time"

type DeliveryMethod string

const (
	DeliveryOnline  DeliveryMethod = "online"
	DeliveryOffline DeliveryMethod = "offline"
	DeliveryBoth    DeliveryMethod = "both"
)

type ListingStatus string

const (
	ListingOpen   ListingStatus = "open"
	ListingClosed ListingStatus = "closed"
)

// ServiceListing is a standalone service a provider sells outside events.
type ServiceListing struct {
	ID             string         `json:"id" bson:"id"`
	ProviderID     string         `json:"providerId" bson:"providerId"`
	Title          string         `json:"title" bson:"title"`
	Description    string         `json:"description,omitempty" bson:"description,omitempty"`
	Category       string         `json:"category" bson:"category"`
	Price          int64          `json:"price" bson:"price"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod" bson:"deliveryMethod"`
	Status         ListingStatus  `json:"status" bson:"status"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt" bson:"updatedAt"`
}

type ServiceFilter struct {
	Category       string `form:"category"`
	Keyword        string `form:"keyword"`
	DeliveryMethod string `form:"deliveryMethod"`
	ProviderID     string `form:"providerId"`
}

type OrderStatus string

const (
	OrderRequested OrderStatus = "requested"
	OrderAccepted  OrderStatus = "accepted"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// ServiceOrder is a member's request for a listing. ActiveKey is set only while
// the order is open so that one buyer holds at most one active order per service.
type ServiceOrder struct {
	ID         string      `json:"id" bson:"id"`
	ServiceID  string      `json:"serviceId" bson:"serviceId"`
	BuyerID    string      `json:"buyerId" bson:"buyerId"`
	ProviderID string      `json:"providerId" bson:"providerId"`
	Status     OrderStatus `json:"status" bson:"status"`
	Note       string      `json:"note,omitempty" bson:"note,omitempty"`
	ActiveKey  string      `json:"-" bson:"activeKey,omitempty"`
	CreatedAt  time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt" bson:"updatedAt"`
}

func OrderActiveKey(serviceID, buyerID string) string {
	return serviceID + ":" + buyerID
}

type OrderRequest struct {
	ServiceID string `json:"serviceId"`
	Note      string `json:"note"`
}
