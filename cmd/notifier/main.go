package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seller_notification_service/internal/app"
	"seller_notification_service/internal/domain/tracking"
	"seller_notification_service/internal/infra/config"
	idb "seller_notification_service/internal/infra/database"
	"seller_notification_service/internal/infra/logger"
	"seller_notification_service/internal/infra/scheduler"
	"seller_notification_service/internal/infra/sheet"
	ismtp "seller_notification_service/internal/infra/smtp"
	"seller_notification_service/internal/infra/template"
	"seller_notification_service/internal/infra/web"
)

func main() {
	fmt.Println("Seller Notification Service starting...")

	mainLogger := log.New(os.Stdout, "MAIN: ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)

	mainLogger.Printf("INFO: Configuration loaded. LogLevel: %s, Environment: %s, Weekly cron: %s", cfg.LogLevel, cfg.Environment, cfg.CronSpecWeekly)

	// Initialize Tracking Store
	var trackRepo tracking.Repository
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
		}
		defer db.Close()
		trackRepo = idb.NewPostgresTrackingRepository(db)
		mainLogger.Println("INFO: Postgres tracking repository initialized.")
	} else {
		trackRepo = idb.NewMemoryTrackingRepository()
		mainLogger.Println("WARN: DATABASE_URL not set. Using in-memory tracking store; records are lost on restart.")
	}

	// Initialize Tracking and Stats services
	trackingLogger := log.New(os.Stdout, "TRACKING: ", log.LstdFlags|log.Lshortfile)
	trackingService := app.NewTrackingServiceImpl(trackRepo, cfg.TrackingBaseURL, trackingLogger)
	mainLogger.Println("INFO: Tracking service initialized.")

	statsLogger := log.New(os.Stdout, "STATS: ", log.LstdFlags|log.Lshortfile)
	statsService := app.NewStatsServiceImpl(trackRepo, statsLogger)
	mainLogger.Println("INFO: Stats service initialized.")

	// Initialize message templates. A parse failure is fatal: no run may
	// start with broken templates.
	renderer, err := template.NewRenderer()
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not load message templates: %v", err)
	}
	mainLogger.Println("INFO: Message templates loaded.")

	// Initialize Row Source and Mail Sender
	sheetLogger := log.New(os.Stdout, "SHEET: ", log.LstdFlags|log.Lshortfile)
	rowSource := sheet.NewCSVRowSource(cfg.SellersCSVPath, cfg.CSVHeaderRows, sheetLogger)
	mainLogger.Println("INFO: Seller row source initialized.")

	mailSender := ismtp.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	mainLogger.Println("INFO: SMTP mail sender initialized.")

	// Initialize NotificationService
	notifLogger := log.New(os.Stdout, "NOTIF_SVC: ", log.LstdFlags|log.Lshortfile)
	notificationService := app.NewNotificationServiceImpl(
		rowSource,
		trackingService,
		renderer,
		mailSender,
		notifLogger,
		cfg.MailSenderName,
		cfg.MailReplyTo,
	)
	mainLogger.Println("INFO: Notification service initialized.")

	// Initialize BatchScheduler
	schedulerLogger := log.New(os.Stdout, "SCHEDULER: ", log.LstdFlags|log.Lshortfile)
	batchScheduler := scheduler.NewBatchScheduler(notificationService, schedulerLogger, cfg.CronSpecWeekly)
	batchScheduler.Start() // Start the cron job

	// Initialize HTTP server for the tracking callback and stats endpoints
	webLogger := log.New(os.Stdout, "WEB: ", log.LstdFlags|log.Lshortfile)
	handler := web.NewHandler(trackingService, statsService, webLogger)
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		mainLogger.Printf("INFO: Tracking endpoint listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			mainLogger.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	mainLogger.Println("INFO: Application setup complete. Scheduler and HTTP server are running.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Println("INFO: Shutting down application...")
	batchScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		mainLogger.Printf("ERROR: HTTP server shutdown: %v", err)
	}
	// db.Close() is handled by defer
	mainLogger.Println("INFO: Application shut down gracefully.")
}
