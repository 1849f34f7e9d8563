package jobs

import (
	"database/sql"
	"log/slog"
	"time"

	"stableride-backend/internal/config"
	"stableride-backend/internal/logger"
	"stableride-backend/internal/metrics"
	"stableride-backend/internal/repository/postgres"
	"stableride-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db       *sql.DB
	store    *postgres.Store
	services *Services
	config   *config.Config
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Availability service.AvailabilityService
	League       service.LeagueService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, store *postgres.Store, services *Services, cfg *config.Config, m *metrics.Metrics) *JobRunner {
	return &JobRunner{
		db:       db,
		store:    store,
		services: services,
		config:   cfg,
		metrics:  m,
		log:      logger.WithService("jobs"),
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func() error) {
	start := time.Now()
	outcome := "success"
	defer func() {
		if r := recover(); r != nil {
			outcome = "panic"
			jr.log.Error("Job panicked", "job", jobName, "panic", r)
		}
		if jr.metrics != nil {
			jr.metrics.JobRunsTotal.WithLabelValues(jobName, outcome).Inc()
			jr.metrics.JobDuration.WithLabelValues(jobName).Observe(time.Since(start).Seconds())
		}
	}()

	jr.log.Info("Starting job", "job", jobName)
	if err := jobFunc(); err != nil {
		outcome = "error"
		jr.log.Error("Job failed", "job", jobName, "error", err)
		return
	}
	jr.log.Info("Job completed", "job", jobName, "duration_ms", time.Since(start).Milliseconds())
}

// RunAllMaintenanceJobs runs every maintenance job once (for manual execution)
func (jr *JobRunner) RunAllMaintenanceJobs() {
	jr.DeduplicateSlots()
	jr.RotateLeagues()
	jr.RepairLeagueMemberships()
}
