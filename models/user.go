package models

import "time"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleProvider  Role = "provider"
	RoleMember    Role = "member"
)

// LineNotificationSettings gates LINE pushes per category.
type LineNotificationSettings struct {
	EventReservations       bool `json:"eventReservations" bson:"eventReservations"`
	FavoriteProviderUpdates bool `json:"favoriteProviderUpdates" bson:"favoriteProviderUpdates"`
	ServiceBookings         bool `json:"serviceBookings" bson:"serviceBookings"`
}

// DefaultLineNotificationSettings enables every category.
func DefaultLineNotificationSettings() LineNotificationSettings {
	return LineNotificationSettings{EventReservations: true, FavoriteProviderUpdates: true, ServiceBookings: true}
}

type User struct {
	ID                       string                   `json:"id" bson:"id"`
	Name                     string                   `json:"name" bson:"name"`
	Email                    string                   `json:"email" bson:"email"`
	Role                     Role                     `json:"role" bson:"role"`
	AvatarURL                string                   `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	Bio                      string                   `json:"bio,omitempty" bson:"bio,omitempty"`
	LineUserID               string                   `json:"lineUserId,omitempty" bson:"lineUserId,omitempty"`
	IsLineLinked             bool                     `json:"isLineLinked" bson:"isLineLinked"`
	LineNotificationSettings LineNotificationSettings `json:"lineNotificationSettings" bson:"lineNotificationSettings"`
	StripeAccountID          string                   `json:"stripeAccountId,omitempty" bson:"stripeAccountId,omitempty"`
	FCMToken                 string                   `json:"-" bson:"fcmToken,omitempty"`
	CreatedAt                time.Time                `json:"createdAt" bson:"createdAt"`
	UpdatedAt                time.Time                `json:"updatedAt" bson:"updatedAt"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID string
	Role   Role
}

// CanOrganize reports whether the actor may create and manage events.
func (a Actor) CanOrganize() bool {
	return a.Role == RoleOrganizer || a.Role == RoleAdmin
}

func (a Actor) IsMember() bool   { return a.Role == RoleMember }
func (a Actor) IsProvider() bool { return a.Role == RoleProvider }
func (a Actor) IsAdmin() bool    { return a.Role == RoleAdmin }

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// DemoLoginRequest picks an existing user by id or email.
type DemoLoginRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type LinkLineRequest struct {
	LineUserID string `json:"lineUserId"`
}

type FCMTokenRequest struct {
	Token string `json:"token"`
}

type FavoriteState struct {
	ProviderID string `json:"providerId"`
	Favorited  bool   `json:"favorited"`
}
