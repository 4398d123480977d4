package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-app/controllers"
	"github.com/alxtravel/travel-app/middlewares"
	"github.com/alxtravel/travel-app/services"
)

const (
	// Global per-IP budget; the credential endpoints carry a stricter one
	// on top of it.
	globalRateLimit           = 50
	globalRateIntervalSeconds = 1
)

func SetupRouter(db *gorm.DB, paymentService *services.PaymentService, notifier services.NotificationQueue) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.CORSMiddlewares())
	// Must be attached before any route is registered or gin never runs it.
	r.Use(middlewares.NewRateLimiter(globalRateLimit, globalRateIntervalSeconds).RateLimit())

	userCtrl := controllers.NewUserController(db)
	listingCtrl := controllers.NewListingController(db)
	bookingCtrl := controllers.NewBookingController(db, notifier)
	reviewCtrl := controllers.NewReviewController(db)
	paymentCtrl := controllers.NewPaymentController(db, paymentService)
	notificationCtrl := controllers.NewNotificationController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Credential endpoints get the strict limiter.
	credentials := r.Group("/")
	credentials.Use(middlewares.NewStrictRateLimiter())
	{
		credentials.POST("/register", userCtrl.Register)
		credentials.POST("/login", userCtrl.Login)
	}

	// Public routes
	public := r.Group("/")
	{
		public.GET("/listings", listingCtrl.GetAllListings)
		public.GET("/listings/:listing_id", listingCtrl.GetListingByID)
		public.GET("/listings/:listing_id/reviews", reviewCtrl.GetReviewsByListing)
	}

	// Payment endpoints: the gateway redirects the customer back to the
	// verify URL, so both are reachable without a session.
	r.POST("/payments/initiate/", paymentCtrl.InitiatePayment)
	r.GET("/payments/verify/", paymentCtrl.VerifyPayment)

	// Authenticated routes
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)

		auth.POST("/listings", listingCtrl.CreateListing)
		auth.PUT("/listings/:listing_id", listingCtrl.UpdateListing)
		auth.DELETE("/listings/:listing_id", listingCtrl.DeleteListing)

		auth.POST("/bookings", bookingCtrl.CreateBooking)
		auth.GET("/bookings", bookingCtrl.GetAllBookings)
		auth.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
		auth.POST("/bookings/:booking_id/confirm", bookingCtrl.ConfirmBooking)
		auth.POST("/bookings/:booking_id/cancel", bookingCtrl.CancelBooking)

		auth.POST("/listings/:listing_id/reviews", reviewCtrl.CreateReview)
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	{
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.GET("/payments", paymentCtrl.GetAllPayments)
		admin.GET("/payments/:payment_id", paymentCtrl.GetPaymentByID)
		admin.GET("/notifications", notificationCtrl.GetAllNotifications)
		admin.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
	}

	return r
}
