package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "stableride-backend/internal/api/http"
	"stableride-backend/internal/config"
	"stableride-backend/internal/integrations/payments"
	"stableride-backend/internal/jobs"
	"stableride-backend/internal/logger"
	"stableride-backend/internal/metrics"
	"stableride-backend/internal/repository/postgres"
	"stableride-backend/internal/scheduler"
	"stableride-backend/internal/security"
	"stableride-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting StableRide Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
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

	// Apply pending migrations
	ctx := context.Background()
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Error("Failed to apply migrations", "error", err)
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryMinutes)*time.Minute)

	// Initialize outbound channels
	emailSvc := service.NewSendGridService(cfg.SendGrid)
	pushSvc, err := service.NewPushService(ctx, cfg.Push)
	if err != nil {
		logger.Error("Failed to initialize push service", "error", err)
		log.Fatalf("Failed to initialize push service: %v", err)
	}
	paymentProvider := payments.NewClient(cfg.Payments)

	// Initialize Services
	notify := service.NewNotifier(
		store.UserRepository,
		store.HorseRepository,
		store.StableRepository,
		store.NotificationRepository,
		emailSvc,
		pushSvc,
	)
	minTurnaround := time.Duration(cfg.Booking.MinTurnaroundMinutes) * time.Minute
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.HorseRepository,
		store.StableRepository,
		store.UserRepository,
		notify,
		minTurnaround,
	)
	availabilitySvc := service.NewAvailabilityService(store.BookingRepository, store.SlotRepository, minTurnaround)
	refundSvc := service.NewRefundService(store.BookingRepository, store.StableRepository, paymentProvider, notify)
	leagueSvc := service.NewLeagueService(store.LeagueRepository, store.UserRepository)
	scoringSvc := service.NewScoringService(
		store.BookingRepository,
		store.HorseRepository,
		store.StableRepository,
		store.UserRepository,
		store.ScoreRepository,
		leagueSvc,
	)
	notificationSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize metrics
	metricsCollector := metrics.New("stableride-backend")

	// Initialize HTTP surface
	handler := httpapi.NewHandler(bookingSvc, availabilitySvc, refundSvc, scoringSvc, leagueSvc, notificationSvc, metricsCollector)
	router := httpapi.NewRouter(handler, tokenManager, metricsCollector, db)

	// Initialize scheduler (in-process maintenance jobs)
	jobRunner := jobs.NewJobRunner(db, store, &jobs.Services{
		Availability: availabilitySvc,
		League:       leagueSvc,
	}, cfg, metricsCollector)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
