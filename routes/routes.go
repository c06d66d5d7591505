package routes

import (
	"time"

	"marche/handlers"
	"marche/middleware"
	"marche/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers endpoints that need no token.
func RegisterPublicRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/health", hb.Health.LivenessHandler)
	api.GET("/db-check", hb.Health.DBCheckHandler)
	api.POST("/auth/demo-login", hb.User.DemoLoginHandler)

	api.GET("/events", hb.Event.ListEventsHandler)
	api.GET("/events/:id", hb.Event.GetEventHandler)
	api.GET("/events/:id/providers", hb.Registration.ListApprovedProvidersHandler)

	api.GET("/services", hb.Listing.ListServicesHandler)
	api.GET("/services/:id", hb.Listing.GetServiceHandler)

	api.GET("/reviews/event/:eventId/provider/:providerId", hb.Review.EventProviderReviewsHandler)
	api.GET("/reviews/service/:serviceId", hb.Review.ServiceReviewsHandler)
}

// RegisterEventRoutes registers event, registration and booking endpoints.
func RegisterEventRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.POST("/events", hb.Event.CreateEventHandler)
	api.POST("/events/checkin", hb.Event.CheckInHandler)
	api.POST("/events/:id/reserve", hb.Event.ReserveEventHandler)
	api.DELETE("/events/:id/reserve", hb.Event.CancelReservationHandler)
	api.GET("/events/:id/registrations", hb.Registration.ListEventRegistrationsHandler)
	api.PUT("/events/:id/registration", hb.Registration.SaveRegistrationHandler)
	api.POST("/events/:id/registration/slots", hb.Registration.GenerateSlotsHandler)
	api.GET("/events/:id/bookings", hb.Booking.ListProviderBookingsHandler)
	api.GET("/events/:id/providers/:providerId/slots", hb.Booking.SlotAvailabilityHandler)
	api.GET("/event-reservations/me", hb.Event.ListMyReservationsHandler)

	api.GET("/registrations/me", hb.Registration.ListMyRegistrationsHandler)
	api.POST("/registrations/:id/approve", hb.Registration.ApproveHandler)
	api.POST("/registrations/:id/reject", hb.Registration.RejectHandler)

	api.POST("/bookings", hb.Booking.BookSlotHandler)
	api.GET("/bookings/me", hb.Booking.ListMyBookingsHandler)
	api.DELETE("/bookings/:id", hb.Booking.CancelBookingHandler)
}

// RegisterMarketRoutes registers reviews, favorites, services and orders.
func RegisterMarketRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.POST("/favorites/:providerId/toggle", hb.User.ToggleFavoriteHandler)
	api.GET("/favorites", hb.User.ListFavoritesHandler)

	api.POST("/reviews", hb.Review.AddEventReviewHandler)
	api.POST("/reviews/service", hb.Review.AddServiceReviewHandler)

	api.POST("/services", hb.Listing.CreateServiceHandler)
	api.PUT("/services/:id", hb.Listing.UpdateServiceHandler)

	api.POST("/orders", hb.Order.RequestOrderHandler)
	api.GET("/orders/me", hb.Order.ListMyOrdersHandler)
	api.POST("/orders/:id/accept", hb.Order.AcceptOrderHandler())
	api.POST("/orders/:id/complete", hb.Order.CompleteOrderHandler())
	api.POST("/orders/:id/cancel", hb.Order.CancelOrderHandler())
}

// RegisterAccountRoutes registers messaging, payments and user settings.
func RegisterAccountRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.POST("/messages", hb.Chat.SendMessageHandler)
	api.GET("/messages/unread", hb.Chat.UnreadCountHandler)
	api.GET("/messages/session/:sessionId", hb.Chat.SessionMessagesHandler)
	api.GET("/messages/:userId/:otherUserId", hb.Chat.ConversationHandler)

	api.POST("/reservations", hb.Payment.RecordReservationHandler)
	api.GET("/reservations/user/:userId", hb.Payment.ListUserReservationsHandler)
	api.POST("/reservations/:id/confirm", hb.Payment.ConfirmReservationHandler)
	api.POST("/reservations/:id/cancel", hb.Payment.CancelReservationHandler)
	api.POST("/payments/create-connect-account", hb.Payment.CreateConnectAccountHandler)
	api.POST("/payments/create-account-link", hb.Payment.CreateAccountLinkHandler)
	api.POST("/payments/create-payment-intent", hb.Payment.CreatePaymentIntentHandler)

	api.GET("/users/me", hb.User.GetMeHandler)
	api.PUT("/users/me/line", hb.User.LinkLineHandler)
	api.PUT("/users/me/notifications", hb.User.UpdateNotificationSettingsHandler)
	api.PUT("/users/me/fcm-token", hb.User.UpdateFCMTokenHandler)

	admin := api.Group("/users", middleware.RequireRoles(models.RoleAdmin))
	admin.POST("", hb.User.CreateUserHandler)
	admin.GET("", hb.User.ListUsersHandler)
}

// RegisterRoutes sets up all routes with the handler bundle.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	RegisterPublicRoutes(api, hb)

	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	RegisterEventRoutes(protected, hb)
	RegisterMarketRoutes(protected, hb)
	RegisterAccountRoutes(protected, hb)
}
