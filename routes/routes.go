package routes

import (
	"net/http"
	"time"

	"roomify/handlers"
	"roomify/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterListingRoutes registers the host catalog endpoints.
func RegisterListingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/listings")
	{
		// Public read endpoints.
		api.GET("/:id", hb.GetListingHandler)
		api.GET("/:id/tiers", hb.ListTiersHandler)
		api.GET("/:id/availability", hb.CheckAvailabilityHandler)
		api.GET("/:id/slots", hb.ListFreeSlotsHandler)

		// Catalog management requires authentication.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", hb.CreateListingHandler)
		protected.PATCH("/:id", hb.UpdateListingHandler)
		protected.PUT("/:id/active", hb.SetListingActiveHandler)

		protected.POST("/:id/tiers", hb.AddTierHandler)
		protected.DELETE("/:id/tiers/:tierID", hb.RemoveTierHandler)
		protected.POST("/:id/overrides", hb.SetOverrideHandler)
		protected.DELETE("/:id/overrides/:tierID", hb.RemoveOverrideHandler)

		protected.POST("/:id/blocks", hb.AddBlockHandler)
		protected.DELETE("/:id/blocks/:blockID", hb.RemoveBlockHandler)
		protected.POST("/:id/intervals", hb.AddAvailabilityHandler)
		protected.DELETE("/:id/intervals/:intervalID", hb.RemoveAvailabilityHandler)
	}
}

// RegisterReservationRoutes registers the booking engine endpoints.
func RegisterReservationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reservations")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/quote", hb.QuoteHandler)
		api.GET("/quote/:quoteID", hb.GetQuoteHandler)
		api.POST("", hb.CreateReservationHandler)
		api.GET("/:id", hb.GetReservationHandler)
		api.POST("/:id/cancel", hb.CancelReservationHandler)
		api.POST("/:id/confirm", hb.ConfirmReservationHandler)
		api.POST("/:id/complete", hb.CompleteReservationHandler)
	}
}

// RegisterPaymentRoutes registers gateway callbacks. The webhook is
// unauthenticated; the gateway signs its own calls.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.POST("/webhook", hb.PaymentWebhookHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Roomify"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterListingRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}
