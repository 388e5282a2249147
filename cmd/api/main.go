package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/config"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/handler"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/metrics"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/notifier"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/repository"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/service"
	appvalidator "github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/validator"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database schema")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Mail Route Booking Platform",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    8 * 1024 * 1024,   // Artwork uploads carry file metadata, not the blob
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator with the notblank rule
	validate := appvalidator.New()

	// Repositories
	campaignRepo := repository.NewCampaignRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	ruleRepo := repository.NewPricingRuleRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	routeRepo := repository.NewRouteRepository(pool)
	industryRepo := repository.NewIndustryRepository(pool)
	waitlistRepo := repository.NewWaitlistRepository(pool)
	designRepo := repository.NewDesignRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	// The waitlist notifier publishes to RabbitMQ when the broker is
	// enabled; in-app notification rows are written either way.
	var publisher notifier.Publisher = notifier.NopPublisher{}
	if cfg.Broker.Enabled {
		publisher = notifier.NewAMQPPublisher(cfg.Broker.URL)
	}

	// Services
	waitlistService := service.NewWaitlistService(waitlistRepo, notificationRepo, publisher)
	bookingService := service.NewBookingService(pool,
		service.BookingServiceConfig{
			Pricing: service.PricingConfig{
				DefaultBasePriceCents:       cfg.Booking.DefaultBasePriceCents,
				DefaultAdditionalPriceCents: cfg.Booking.DefaultAdditionalPriceCents,
				LoyaltyDiscountCents:        cfg.Booking.LoyaltyDiscountCents,
			},
			SlotsPerRoute:    cfg.Booking.SlotsPerRoute,
			RetryLimit:       cfg.Booking.PricingRetryLimit,
			LoyaltyThreshold: cfg.Booking.LoyaltySlotsThreshold,
		},
		service.BookingServiceDeps{
			Campaigns: campaignRepo,
			Bookings:  bookingRepo,
			Rules:     ruleRepo,
			Users:     userRepo,
			Routes:    routeRepo,
			Waitlist:  waitlistRepo,
			Designs:   designRepo,
			OnFreed:   waitlistService,
		})
	campaignService := service.NewCampaignService(campaignRepo)
	pricingService := service.NewPricingRuleService(ruleRepo)
	catalogService := service.NewCatalogService(routeRepo, industryRepo)
	userService := service.NewUserService(userRepo, bookingRepo, notificationRepo)

	// Handlers
	bookingHandler := handler.NewBookingHandler(bookingService, validate)
	artworkHandler := handler.NewArtworkHandler(bookingService, validate)
	campaignHandler := handler.NewCampaignHandler(campaignService, validate)
	pricingHandler := handler.NewPricingHandler(pricingService, validate)
	waitlistHandler := handler.NewWaitlistHandler(waitlistService, validate)
	catalogHandler := handler.NewCatalogHandler(catalogService, validate)
	userHandler := handler.NewUserHandler(userService, validate)

	// Health handler
	healthHandler := handler.NewHealthHandler(pool)
	app.Get("/health", healthHandler.Check)

	// Booking routes
	app.Post("/api/bookings", bookingHandler.CreateBooking)
	app.Get("/api/bookings/:id", bookingHandler.GetBooking)
	app.Post("/api/bookings/:id/cancel", bookingHandler.CancelBooking)
	app.Post("/api/bookings/:id/approval", bookingHandler.ReviewBooking)
	app.Post("/api/bookings/:id/payment", bookingHandler.PaymentCallback)
	app.Post("/api/bookings/:id/artwork", artworkHandler.SubmitArtwork)
	app.Post("/api/bookings/:id/artwork/review", artworkHandler.ReviewArtwork)
	app.Post("/api/bookings/:id/design/submit", artworkHandler.SubmitDesign)
	app.Post("/api/bookings/:id/design/review", artworkHandler.ReviewDesign)

	// Campaign routes
	app.Post("/api/campaigns", campaignHandler.CreateCampaign)
	app.Get("/api/campaigns", campaignHandler.ListCampaigns)
	app.Get("/api/campaigns/:id", campaignHandler.GetCampaign)
	app.Post("/api/campaigns/:id/status", campaignHandler.TransitionCampaign)

	// Pricing rule routes
	app.Post("/api/pricing-rules", pricingHandler.CreateRule)
	app.Get("/api/pricing-rules", pricingHandler.ListRules)
	app.Post("/api/pricing-rules/:id/deactivate", pricingHandler.DeactivateRule)
	app.Get("/api/pricing-rules/:id/applications", pricingHandler.ListApplications)

	// Waitlist routes
	app.Post("/api/waitlist/notify", waitlistHandler.Notify)

	// Catalog routes
	app.Post("/api/routes", catalogHandler.CreateRoute)
	app.Get("/api/routes", catalogHandler.ListRoutes)
	app.Get("/api/routes/:id", catalogHandler.GetRoute)
	app.Get("/api/industries", catalogHandler.ListIndustries)
	app.Get("/api/industries/:id/subcategories", catalogHandler.ListSubcategories)

	// User routes
	app.Post("/api/users", userHandler.RegisterUser)
	app.Get("/api/users/:id", userHandler.GetUser)
	app.Get("/api/users/:id/bookings", userHandler.ListUserBookings)
	app.Get("/api/users/:id/notifications", userHandler.ListUserNotifications)

	// Metrics listener on its own port
	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Port); err != nil {
				log.Error().Err(err).Msg("metrics listener stopped")
			}
		}()
	}

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
