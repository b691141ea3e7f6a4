package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shift_notifier/internal/app"
	"shift_notifier/internal/domain/confirmation"
	"shift_notifier/internal/domain/employee"
	"shift_notifier/internal/infra/config"
	idb "shift_notifier/internal/infra/database"
	"shift_notifier/internal/infra/httpapi"
	"shift_notifier/internal/infra/line"
	"shift_notifier/internal/infra/logger"
	"shift_notifier/internal/infra/scheduler"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get()
	log.WithField("environment", cfg.Environment).Info("Shift Notifier starting")

	// Stores: Postgres when configured, process-local otherwise.
	var (
		employeeRepo employee.Repository
		directory    employee.Directory
		confRepo     confirmation.Repository
	)
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to database: %v", err)
		}
		defer db.Close()
		log.Info("Database connection established")

		pgEmployees := idb.NewPostgresEmployeeRepository(db)
		employeeRepo = pgEmployees
		directory = pgEmployees
		confRepo = idb.NewPostgresConfirmationRepository(db)
	} else {
		log.Warn("DATABASE_URL not set; using in-memory stores (state is lost on restart)")
		memEmployees := idb.NewMemoryEmployeeRepository()
		employeeRepo = memEmployees
		directory = memEmployees
		confRepo = idb.NewMemoryConfirmationRepository()
	}

	transport := line.NewClient(cfg.LineAPIURL, cfg.LineChannelToken, cfg.LineRatePerSec, &http.Client{})

	previewService := app.NewPreviewService()
	dispatchService := app.NewDispatchService(directory, transport, log, cfg.SendConcurrency, cfg.SendTimeout)
	confirmationService := app.NewConfirmationService(employeeRepo, confRepo, log)
	reminderService := app.NewReminderService(employeeRepo, confRepo, transport, log, cfg.SendTimeout)

	var reminderScheduler *scheduler.ReminderScheduler
	if cfg.ReminderEnabled {
		reminderScheduler = scheduler.NewReminderScheduler(reminderService, log, cfg.ReminderCronSpec)
		if err := reminderScheduler.Start(); err != nil {
			log.Fatalf("FATAL: Could not start reminder scheduler: %v", err)
		}
	}

	ginMode := gin.DebugMode
	if cfg.Environment == "production" || cfg.Environment == "staging" {
		ginMode = gin.ReleaseMode
	}
	handler := httpapi.NewHandler(previewService, dispatchService, confirmationService, log)
	router := httpapi.NewRouter(handler, ginMode)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	if reminderScheduler != nil {
		reminderScheduler.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown was not clean")
	}
	log.Info("Shut down gracefully")
}
