package main

import (
	"context"
	"errors"
	"fmt"

	"marche/config"
	bookingRepo "marche/database/repository/booking"
	eventRepo "marche/database/repository/event"
	favoriteRepo "marche/database/repository/favorite"
	listingRepo "marche/database/repository/listing"
	"marche/database/repository/memory"
	messageRepo "marche/database/repository/message"
	orderRepo "marche/database/repository/order"
	paymentRepo "marche/database/repository/payment"
	registrationRepo "marche/database/repository/registration"
	reservationRepo "marche/database/repository/reservation"
	reviewRepo "marche/database/repository/review"
	userRepoPkg "marche/database/repository/user"
	"marche/handlers"
	"marche/middleware"
	"marche/models"
	"marche/routes"
	"marche/services/booking"
	"marche/services/chat"
	"marche/services/event"
	"marche/services/listing"
	"marche/services/notification"
	"marche/services/payment"
	"marche/services/registration"
	"marche/services/review"
	"marche/services/user"
	"marche/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type repositories struct {
	Users         userRepoPkg.UserRepository
	Events        eventRepo.EventRepository
	Registrations registrationRepo.RegistrationRepository
	Bookings      bookingRepo.BookingRepository
	Reservations  reservationRepo.ReservationRepository
	Favorites     favoriteRepo.FavoriteRepository
	Reviews       reviewRepo.ReviewRepository
	Listings      listingRepo.ListingRepository
	Orders        orderRepo.OrderRepository
	Messages      messageRepo.MessageRepository
	Payments      paymentRepo.PaymentRepository
}

func memoryRepositories(store *memory.Store) *repositories {
	return &repositories{
		Users:         store.Users,
		Events:        store.Events,
		Registrations: store.Registrations,
		Bookings:      store.Bookings,
		Reservations:  store.Reservations,
		Favorites:     store.Favorites,
		Reviews:       store.Reviews,
		Listings:      store.Listings,
		Orders:        store.Orders,
		Messages:      store.Messages,
		Payments:      store.Payments,
	}
}

// mongoRepositories backs everything with Mongo except the payment ledger,
// which lives in SQL.
func mongoRepositories(db *mongo.Database, sqlDB *gorm.DB) *repositories {
	return &repositories{
		Users:         userRepoPkg.NewMongoUserRepo(db),
		Events:        eventRepo.NewMongoEventRepo(db),
		Registrations: registrationRepo.NewMongoRegistrationRepo(db),
		Bookings:      bookingRepo.NewMongoBookingRepo(db),
		Reservations:  reservationRepo.NewMongoReservationRepo(db),
		Favorites:     favoriteRepo.NewMongoFavoriteRepo(db),
		Reviews:       reviewRepo.NewMongoReviewRepo(db),
		Listings:      listingRepo.NewMongoListingRepo(db),
		Orders:        orderRepo.NewMongoOrderRepo(db),
		Messages:      messageRepo.NewMongoMessageRepo(db),
		Payments:      paymentRepo.NewGormPaymentRepo(sqlDB),
	}
}

// appDeps are the collaborators that differ between production and tests.
type appDeps struct {
	Repos    *repositories
	Notifier notification.Emitter
	Cache    utils.JSONCache
	Gateway  payment.Gateway
	Pingers  []utils.Pinger
	Logger   *zap.Logger
}

// buildHandlers constructs every service and wraps it in its HTTP handler.
func buildHandlers(cfg config.Config, d appDeps) (*handlers.HandlerBundle, error) {
	r := d.Repos

	userSvc, err := user.NewDefaultUserService(r.Users, r.Favorites, d.Logger)
	if err != nil {
		return nil, err
	}
	eventSvc, err := event.NewDefaultEventService(r.Events, r.Reservations, d.Notifier, d.Cache, d.Logger)
	if err != nil {
		return nil, err
	}
	registrationSvc, err := registration.NewDefaultRegistrationService(r.Events, r.Registrations, r.Bookings, d.Notifier, d.Logger, cfg.VendorCapacityEnforced)
	if err != nil {
		return nil, err
	}
	bookingSvc, err := booking.NewDefaultBookingService(r.Events, r.Registrations, r.Bookings, d.Notifier, d.Logger)
	if err != nil {
		return nil, err
	}
	reviewSvc, err := review.NewDefaultReviewService(r.Reviews, r.Reservations, r.Registrations, r.Orders, d.Logger)
	if err != nil {
		return nil, err
	}
	listingSvc, err := listing.NewDefaultListingService(r.Listings, d.Cache, d.Logger)
	if err != nil {
		return nil, err
	}
	orderSvc, err := listing.NewDefaultOrderService(r.Listings, r.Orders, d.Notifier, d.Logger)
	if err != nil {
		return nil, err
	}
	chatSvc, err := chat.NewDefaultChatService(r.Messages, r.Orders, r.Bookings, d.Notifier, d.Logger)
	if err != nil {
		return nil, err
	}
	paymentSvc, err := payment.NewDefaultPaymentService(d.Gateway, r.Users, r.Payments, d.Notifier, d.Logger, cfg.PlatformFeeRate, cfg.AppBaseURL)
	if err != nil {
		return nil, err
	}

	return &handlers.HandlerBundle{
		UserRepo:     r.Users,
		Health:       handlers.NewHealthHandler(d.Pingers...),
		User:         handlers.NewUserHandler(userSvc),
		Event:        handlers.NewEventHandler(eventSvc),
		Registration: handlers.NewRegistrationHandler(registrationSvc),
		Booking:      handlers.NewBookingHandler(bookingSvc),
		Review:       handlers.NewReviewHandler(reviewSvc),
		Listing:      handlers.NewListingHandler(listingSvc),
		Order:        handlers.NewOrderHandler(orderSvc),
		Chat:         handlers.NewChatHandler(chatSvc),
		Payment:      handlers.NewPaymentHandler(paymentSvc),
	}, nil
}

// buildRouter assembles the gin engine with the global middleware chain.
func buildRouter(cfg config.Config, d appDeps) (*gin.Engine, error) {
	hb, err := buildHandlers(cfg, d)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestLogger(d.Logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, hb)
	return router, nil
}

// demoUsers are created when the in-memory store backs the API so that
// demo-login has someone to sign in as.
var demoUsers = []models.User{
	{ID: "demo-admin", Name: "Admin", Email: "admin@marche.example", Role: models.RoleAdmin},
	{ID: "demo-organizer", Name: "Organizer", Email: "organizer@marche.example", Role: models.RoleOrganizer},
	{ID: "demo-provider", Name: "Provider", Email: "provider@marche.example", Role: models.RoleProvider},
	{ID: "demo-member", Name: "Member", Email: "member@marche.example", Role: models.RoleMember},
}

func seedDemoUsers(ctx context.Context, users userRepoPkg.UserRepository) error {
	for _, u := range demoUsers {
		u := u
		if err := users.Create(ctx, &u); err != nil && !errors.Is(err, utils.ErrDuplicate) {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	return nil
}
