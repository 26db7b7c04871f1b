// File: roomify/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomify/config"
	"roomify/cron"
	"roomify/database"
	availabilityRepoPkg "roomify/database/repository/availability"
	listingRepoPkg "roomify/database/repository/listing"
	paymentRepoPkg "roomify/database/repository/payment"
	pricingRepoPkg "roomify/database/repository/pricing"
	reservationRepoPkg "roomify/database/repository/reservation"
	"roomify/handlers"
	"roomify/models"
	"roomify/routes"
	"roomify/services/listing"
	"roomify/services/notification"
	"roomify/services/reservation"
	"roomify/services/tasks"
	"roomify/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	listRepo := listingRepoPkg.NewMongoListingRepo()
	priceRepo := pricingRepoPkg.NewMongoPricingRepo()
	availRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	resvRepo := reservationRepoPkg.NewMongoReservationRepo()
	payRepo := paymentRepoPkg.NewMongoPaymentRepo()

	for _, err := range []error{
		listRepo.EnsureIndexes(),
		priceRepo.EnsureIndexes(),
		availRepo.EnsureIndexes(),
		resvRepo.EnsureIndexes(),
		payRepo.EnsureIndexes(),
	} {
		if err != nil {
			logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}
	seedCancellationPolicies(listRepo)

	// services.
	events := notification.NewKafkaPublisher(config.AppConfig.KafkaBrokers, config.AppConfig.KafkaTopic)
	expiryScheduler := tasks.NewScheduler()
	defer expiryScheduler.Close()

	engine := &reservation.Engine{
		ListingRepo:      listRepo,
		PolicyRepo:       listRepo,
		PricingRepo:      priceRepo,
		AvailabilityRepo: availRepo,
		ReservationRepo:  resvRepo,
		PaymentRepo:      payRepo,
		Payments:         &reservation.StripeIntentCreator{},
		Expiry:           expiryScheduler,
		Events:           events,
		Fees: reservation.FeeConfig{
			CommissionRate:  config.AppConfig.CommissionRate,
			ServiceFeeRate:  config.AppConfig.ServiceFeeRate,
			DepositRate:     config.AppConfig.DepositRate,
			DepositDeadline: time.Duration(config.AppConfig.DepositDeadlineHrs) * time.Hour,
			MinSlotDuration: time.Duration(config.AppConfig.MinSlotMinutes) * time.Minute,
			DefaultPolicy:   config.AppConfig.DefaultCancelPolicy,
		},
	}

	catalog := &listing.CatalogService{
		ListingRepo:      listRepo,
		PolicyRepo:       listRepo,
		PricingRepo:      priceRepo,
		AvailabilityRepo: availRepo,
	}

	// Deposit-deadline worker.
	cron.InitExpiryWorker(engine)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Catalog:         catalog,
		Engine:          engine,
		ReservationRepo: resvRepo,
		CacheClient:     utils.GetCacheClient(),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// seedCancellationPolicies upserts the built-in refund policies so listings
// can reference them by name from day one.
func seedCancellationPolicies(repo listingRepoPkg.PolicyRepository) {
	policies := []models.CancellationPolicy{
		{Name: "flexible", RefundBeforeDays: 1, BeforePercentage: 100, AfterPercentage: 50},
		{Name: "moderate", RefundBeforeDays: 5, BeforePercentage: 100, AfterPercentage: 50},
		{Name: "strict", RefundBeforeDays: 14, BeforePercentage: 50, AfterPercentage: 0},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := range policies {
		policies[i].ID = uuid.New().String()
		if err := repo.UpsertPolicy(ctx, &policies[i]); err != nil {
			utils.GetLogger().Sugar().Warnf("main: failed to seed policy %q: %v", policies[i].Name, err)
		}
	}
}
