package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "trailer-booking-backend/internal/api/http"
	"trailer-booking-backend/internal/config"
	"trailer-booking-backend/internal/logger"
	"trailer-booking-backend/internal/pricing"
	"trailer-booking-backend/internal/repository"
	"trailer-booking-backend/internal/repository/firestore"
	"trailer-booking-backend/internal/security"
	"trailer-booking-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Trailer Booking Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())

	// Initialize the rate card: configured rates override the defaults
	rates := loadRateCard(cfg)
	logger.Info("Rate card loaded", "models", len(rates))

	// Initialize the record store. The store is optional: without
	// credentials the service still takes bookings, it just cannot
	// persist them or serve the admin endpoints.
	ctx := context.Background()
	var store *firestore.Store
	if cfg.Firestore.Credentials != "" {
		store, err = firestore.NewStore(ctx, cfg.Firestore)
		if err != nil {
			logger.Error("Failed to connect to record store", "error", err)
			log.Fatalf("Failed to connect to record store: %v", err)
		}
		defer store.Close()
		logger.Info("Record store connected", "project_id", cfg.Firestore.ProjectID)
	} else {
		logger.Warn("Record store not configured; bookings will not be persisted")
	}

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SendGrid, cfg.Notify.Recipient)
	paymentSvc := service.NewPaymentService(cfg.Stripe)
	reviewSvc := service.NewReviewService(cfg.Reviews, emailSvc)

	var accountingSvc service.AccountingService
	if cfg.QuickBooks.ClientID != "" && store != nil {
		accountingSvc = service.NewAccountingService(cfg.QuickBooks, store.AccountingTokenRepository)
		logger.Info("Accounting integration enabled", "environment", cfg.QuickBooks.Environment)
	} else if cfg.QuickBooks.ClientID != "" {
		logger.Warn("Accounting integration needs the record store for token storage; disabled")
	}

	bookingSvc := service.NewBookingService(
		rates,
		paymentSvc,
		emailSvc,
		accountingSvc,
		bookingRepo(store),
		eventRepo(store),
	)

	// Initialize Security
	secrets := security.NewSecretChecker(cfg.Admin.Secret)
	tokens := security.NewTokenManager(cfg.Admin.TokenSecret, time.Duration(cfg.Admin.TokenExpiryMinutes)*time.Minute)

	// Assemble the HTTP surface
	router := httpapi.NewRouter(httpapi.Services{
		Bookings:   bookingSvc,
		Reviews:    reviewSvc,
		Accounting: accountingSvc,
		Secrets:    secrets,
		Tokens:     tokens,
	})

	server := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("HTTP server stopped. Goodbye!")
}

func loadRateCard(cfg *config.Config) pricing.RateCard {
	if len(cfg.Rates) == 0 {
		return pricing.DefaultRateCard()
	}
	rates := make(pricing.RateCard, len(cfg.Rates))
	for model, r := range cfg.Rates {
		rates[model] = pricing.Rate{
			Hourly:  r.Hourly,
			Daily:   r.Daily,
			Weekly:  r.Weekly,
			Monthly: r.Monthly,
		}
	}
	return rates
}

// bookingRepo and eventRepo unwrap the optional store so a disabled
// record store arrives at the service layer as a plain nil interface.
func bookingRepo(store *firestore.Store) repository.BookingRepository {
	if store == nil {
		return nil
	}
	return store.BookingRepository
}

func eventRepo(store *firestore.Store) repository.ProcessedEventRepository {
	if store == nil {
		return nil
	}
	return store.ProcessedEventRepository
}
