// Package memory provides process-local implementations of every repository.
// They back DATABASE_DRIVER=memory (demo mode) and the service tests, and
// enforce the same uniqueness rules as the Mongo indexes.
package memory

import (
	"fmt"

	bookingRepo "marche/database/repository/booking"
	eventRepo "marche/database/repository/event"
	favoriteRepo "marche/database/repository/favorite"
	listingRepo "marche/database/repository/listing"
	messageRepo "marche/database/repository/message"
	orderRepo "marche/database/repository/order"
	paymentRepo "marche/database/repository/payment"
	registrationRepo "marche/database/repository/registration"
	reservationRepo "marche/database/repository/reservation"
	reviewRepo "marche/database/repository/review"
	userRepo "marche/database/repository/user"
	"marche/utils"
)

var (
	_ userRepo.UserRepository                 = (*UserRepo)(nil)
	_ eventRepo.EventRepository               = (*EventRepo)(nil)
	_ registrationRepo.RegistrationRepository = (*RegistrationRepo)(nil)
	_ bookingRepo.BookingRepository           = (*BookingRepo)(nil)
	_ reservationRepo.ReservationRepository   = (*ReservationRepo)(nil)
	_ favoriteRepo.FavoriteRepository         = (*FavoriteRepo)(nil)
	_ reviewRepo.ReviewRepository             = (*ReviewRepo)(nil)
	_ listingRepo.ListingRepository           = (*ListingRepo)(nil)
	_ orderRepo.OrderRepository               = (*OrderRepo)(nil)
	_ messageRepo.MessageRepository           = (*MessageRepo)(nil)
	_ paymentRepo.PaymentRepository           = (*PaymentRepo)(nil)
)

// Store bundles one instance of each in-memory repository.
type Store struct {
	Users         *UserRepo
	Events        *EventRepo
	Registrations *RegistrationRepo
	Bookings      *BookingRepo
	Reservations  *ReservationRepo
	Favorites     *FavoriteRepo
	Reviews       *ReviewRepo
	Listings      *ListingRepo
	Orders        *OrderRepo
	Messages      *MessageRepo
	Payments      *PaymentRepo
}

func NewStore() *Store {
	return &Store{
		Users:         NewUserRepo(),
		Events:        NewEventRepo(),
		Registrations: NewRegistrationRepo(),
		Bookings:      NewBookingRepo(),
		Reservations:  NewReservationRepo(),
		Favorites:     NewFavoriteRepo(),
		Reviews:       NewReviewRepo(),
		Listings:      NewListingRepo(),
		Orders:        NewOrderRepo(),
		Messages:      NewMessageRepo(),
		Payments:      NewPaymentRepo(),
	}
}

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), utils.ErrNotFound)
}

func duplicate(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), utils.ErrDuplicate)
}
