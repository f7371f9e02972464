package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neurobloom/screener/internal/api"
	"github.com/neurobloom/screener/internal/config"
	"github.com/neurobloom/screener/internal/db"
	"github.com/neurobloom/screener/internal/jobs"
	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/repository/sqlite"
	"github.com/neurobloom/screener/internal/screening"
	"github.com/neurobloom/screener/internal/services"
	"github.com/neurobloom/screener/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(cfg.LogColors),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("NeuroBloom Screener Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("scoring_policy_path=%s", cfg.ScoringPolicyPath)
	log.Debug("maintenance_worker_count=%d", cfg.MaintenanceWorkerCount)
	log.Debug("maintenance_queue_size=%d", cfg.MaintenanceQueueSize)
	log.Debug("sweep_interval_minutes=%d", cfg.SweepIntervalMinutes)
	log.Debug("attempt_ttl_minutes=%d", cfg.AttemptTTLMinutes)

	// Load the scoring policy before anything else: a misconfigured policy
	// must keep the server from starting, not surface on the first submission.
	scoringCfg, err := screening.LoadPolicy(cfg.ScoringPolicyPath)
	if err != nil {
		log.Error("failed to load scoring policy: %v", err)
		os.Exit(1)
	}
	if cfg.ScoringPolicyPath != "" {
		log.Info("scoring policy loaded from %s", cfg.ScoringPolicyPath)
	}

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories
	studentRepo := sqlite.NewStudentRepository(database.DB)
	assessmentRepo := sqlite.NewAssessmentRepository(database.DB)
	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	reportRepo := sqlite.NewReportRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	// Initialize the maintenance worker pool and job queue
	maintenancePool := worker.NewPool(cfg.MaintenanceWorkerCount, cfg.MaintenanceQueueSize)
	queue := jobs.NewWorkerQueue(maintenancePool, progressRepo, attemptRepo)

	// Initialize services
	srv := &api.Server{
		DB:                database,
		StudentService:    services.NewStudentService(studentRepo),
		AssessmentService: services.NewAssessmentService(assessmentRepo),
		AttemptService:    services.NewAttemptService(attemptRepo, studentRepo, assessmentRepo, reportRepo, queue, scoringCfg),
		ProgressService:   services.NewProgressService(progressRepo, studentRepo, assessmentRepo),
		OverviewService:   services.NewOverviewService(statsRepo),
	}

	ctx, cancel := context.WithCancel(context.Background())
	maintenancePool.Start(ctx)

	// Sweep stale attempts on a timer so abandoned sessions stop blocking
	// their students from starting over.
	attemptTTL := time.Duration(cfg.AttemptTTLMinutes) * time.Minute
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.SweepIntervalMinutes) * time.Minute)
		defer ticker.Stop()

		if err := queue.EnqueueSweep(attemptTTL); err != nil {
			log.Warn("failed to enqueue startup sweep: %v", err)
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := queue.EnqueueSweep(attemptTTL); err != nil {
					log.Warn("failed to enqueue sweep: %v", err)
				}
			}
		}
	}()

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping background jobs")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping maintenance pool")
	maintenancePool.Stop()

	log.Info("===========================================")
	log.Info("NeuroBloom Screener Stopped")
	log.Info("===========================================")
}
