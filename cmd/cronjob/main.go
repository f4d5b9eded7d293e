package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"trailer-booking-backend/internal/config"
	"trailer-booking-backend/internal/jobs"
	"trailer-booking-backend/internal/logger"
	"trailer-booking-backend/internal/repository/firestore"
	"trailer-booking-backend/internal/scheduler"
	"trailer-booking-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'daily-booking-summary', 'all-daily')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Trailer Booking Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize the record store. Every job needs it.
	if cfg.Firestore.Credentials == "" {
		log.Fatal("Record store credentials are required for scheduled jobs")
	}
	store, err := firestore.NewStore(context.Background(), cfg.Firestore)
	if err != nil {
		logger.Error("Failed to connect to record store", "error", err)
		log.Fatalf("Failed to connect to record store: %v", err)
	}
	defer store.Close()
	logger.Info("Record store connected", "project_id", cfg.Firestore.ProjectID)

	// Initialize Services
	emailService := service.NewEmailService(cfg.SendGrid, cfg.Notify.Recipient)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(
		store.BookingRepository,
		store.ProcessedEventRepository,
		emailService,
		cfg,
	)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "daily-booking-summary":
		jobRunner.SendDailyBookingSummary()
	case "prune-processed-events":
		jobRunner.PruneProcessedEvents()
	case "all-daily":
		jobRunner.RunAllDailyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - daily-booking-summary\n")
		fmt.Printf("  - prune-processed-events\n")
		fmt.Printf("  - all-daily\n")
		os.Exit(1)
	}
}
