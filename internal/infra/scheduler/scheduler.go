package scheduler

import (
	"context"
	"log"
	"time"

	"seller_notification_service/internal/app" // For NotificationService interface

	"github.com/robfig/cron/v3"
)

// BatchScheduler triggers the seller notification batch run on a cadence.
type BatchScheduler struct {
	cronEngine     *cron.Cron
	notifService   app.NotificationService // Using the interface
	logger         *log.Logger
	cronSpecWeekly string
}

func NewBatchScheduler(
	notifService app.NotificationService,
	logger *log.Logger,
	cronSpecWeekly string, // e.g., "0 9 * * 1" (9:00 AM every Monday)
) *BatchScheduler {
	return &BatchScheduler{
		cronEngine:     cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		notifService:   notifService,
		logger:         logger,
		cronSpecWeekly: cronSpecWeekly,
	}
}

func (s *BatchScheduler) Start() {
	s.logger.Println("INFO: Starting batch scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecWeekly, func() {
		s.logger.Println("INFO: Cron job triggered for weekly seller notification batch.")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute) // Context for the job
		defer cancel()
		summary, err := s.notifService.RunBatch(ctx)
		if err != nil {
			s.logger.Printf("ERROR: Weekly notification batch aborted: %v", err)
			return
		}
		s.logger.Printf("INFO: Weekly notification batch completed: %s", summary)
	})
	if err != nil {
		s.logger.Fatalf("FATAL: Could not add weekly notification cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Println("INFO: Batch scheduler started.")
}

func (s *BatchScheduler) Stop() {
	s.logger.Println("INFO: Stopping batch scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Println("INFO: Batch scheduler gracefully stopped.")
}
