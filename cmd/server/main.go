package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/pawfect-care/service-marketplace/internal/application"
	"github.com/pawfect-care/service-marketplace/internal/config"
	"github.com/pawfect-care/service-marketplace/internal/events/consumer"
	"github.com/pawfect-care/service-marketplace/internal/handler"
	"github.com/pawfect-care/service-marketplace/internal/platform/auth"
	"github.com/pawfect-care/service-marketplace/internal/platform/clock"
	"github.com/pawfect-care/service-marketplace/internal/platform/database"
	"github.com/pawfect-care/service-marketplace/internal/platform/health"
	"github.com/pawfect-care/service-marketplace/internal/platform/kafka"
	"github.com/pawfect-care/service-marketplace/internal/platform/logger"
	"github.com/pawfect-care/service-marketplace/internal/platform/middleware"
	"github.com/pawfect-care/service-marketplace/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-marketplace")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-marketplace",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.ClientModel{},
			&repository.ProviderModel{},
			&repository.PetModel{},
			&repository.AdvertisementModel{},
			&repository.BookingModel{},
			&repository.BookingPetModel{},
			&repository.ReviewModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		15*time.Minute,
		7*24*time.Hour,
	)

	// Configure Stripe
	stripe.Key = cfg.StripeConfig.APIKey

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	identityRepo := repository.NewGormIdentityRepository(db)
	petRepo := repository.NewGormPetRepository(db)
	adRepo := repository.NewGormAdvertisementRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)

	clk := clock.System{}

	// Initialize application services
	identityService := application.NewIdentityService(identityRepo, clk, log)
	petService := application.NewPetService(petRepo, clk, log)
	adService := application.NewAdvertisementService(adRepo, identityRepo, clk, log)
	bookingService := application.NewBookingService(bookingRepo, petRepo, adRepo, identityRepo, kafkaProducer, clk, log)
	reviewService := application.NewReviewService(reviewRepo, bookingRepo, clk, log)
	paymentService := application.NewPaymentService(bookingRepo, application.PaymentConfig{
		SuccessURL: cfg.StripeConfig.SuccessURL,
		CancelURL:  cfg.StripeConfig.CancelURL,
	}, log)

	// Initialize and start payment event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "marketplace-service"
	paymentConsumer := consumer.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService, paymentService)
	petHandler := handler.NewPetHandler(petService)
	adHandler := handler.NewAdvertisementHandler(adService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	profileHandler := handler.NewProfileHandler(identityService)
	webhookHandler := handler.NewPaymentWebhookHandler(kafkaProducer, clk, log)
	adminHandler := handler.NewAdminHandler(bookingService, identityService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-marketplace")
	healthHandler.RegisterRoutes(router)

	// Register routes
	authMW := middleware.AuthMiddleware(jwtManager)
	actorMW := middleware.ActorMiddleware(identityService)

	bookingHandler.RegisterRoutes(&router.RouterGroup, authMW, actorMW)
	petHandler.RegisterRoutes(&router.RouterGroup, authMW, actorMW)
	adHandler.RegisterRoutes(&router.RouterGroup, authMW, actorMW)
	reviewHandler.RegisterRoutes(&router.RouterGroup, authMW, actorMW)
	profileHandler.RegisterRoutes(&router.RouterGroup, authMW, actorMW)
	webhookHandler.RegisterRoutes(&router.RouterGroup)
	adminHandler.RegisterRoutes(&router.RouterGroup, authMW)

	// Triage is optional, it only runs when an API key is configured
	if cfg.GeminiConfig.APIKey != "" {
		triageService, err := application.NewTriageService(ctx, cfg.GeminiConfig.APIKey, log)
		if err != nil {
			log.Fatal("failed to initialize triage service", zap.Error(err))
		}
		triageHandler := handler.NewTriageHandler(triageService)
		triageHandler.RegisterRoutes(&router.RouterGroup, authMW)
	} else {
		log.Warn("triage endpoint disabled, no Gemini API key configured")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-marketplace...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-marketplace stopped")
}
