package handlers

import (
	userRepoPkg "marche/database/repository/user"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	Health       *HealthHandler
	User         *UserHandler
	Event        *EventHandler
	Registration *RegistrationHandler
	Booking      *BookingHandler
	Review       *ReviewHandler
	Listing      *ListingHandler
	Order        *OrderHandler
	Chat         *ChatHandler
	Payment      *PaymentHandler
}
