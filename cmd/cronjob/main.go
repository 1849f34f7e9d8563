package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"stableride-backend/internal/config"
	"stableride-backend/internal/jobs"
	"stableride-backend/internal/logger"
	"stableride-backend/internal/repository/postgres"
	"stableride-backend/internal/scheduler"
	"stableride-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'dedup-slots', 'rotate-leagues', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting StableRide Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	availabilitySvc := service.NewAvailabilityService(store.BookingRepository, store.SlotRepository,
		time.Duration(cfg.Booking.MinTurnaroundMinutes)*time.Minute)
	leagueSvc := service.NewLeagueService(store.LeagueRepository, store.UserRepository)

	jobServices := &jobs.Services{
		Availability: availabilitySvc,
		League:       leagueSvc,
	}

	// Initialize Job Runner (no metrics endpoint in the one-shot runner)
	jobRunner := jobs.NewJobRunner(db, store, jobServices, cfg, nil)

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
	case "dedup-slots":
		jobRunner.DeduplicateSlots()
	case "rotate-leagues":
		jobRunner.RotateLeagues()
	case "repair-memberships":
		jobRunner.RepairLeagueMemberships()
	case "all":
		jobRunner.RunAllMaintenanceJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - dedup-slots\n")
		fmt.Printf("  - rotate-leagues\n")
		fmt.Printf("  - repair-memberships\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
