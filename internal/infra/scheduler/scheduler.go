package scheduler

import (
	"context"
	"log"
	"time"

	"timetable_tracker_bot/internal/app"

	"github.com/robfig/cron/v3"
)

// ReminderScheduler drives the periodic reminder scan. The cron spec
// normally fires every minute; the scan itself decides what, if
// anything, is due.
type ReminderScheduler struct {
	cronEngine      *cron.Cron
	reminderService *app.ReminderService
	logger          *log.Logger
	cronSpecScan    string
}

func NewReminderScheduler(
	reminderService *app.ReminderService,
	logger *log.Logger,
	cronSpecScan string, // e.g. "* * * * *" (every minute)
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:      cron.New(cron.WithLocation(time.Local)), // wall-clock times are local
		reminderService: reminderService,
		logger:          logger,
		cronSpecScan:    cronSpecScan,
	}
}

func (s *ReminderScheduler) Start() {
	s.logger.Println("INFO: Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecScan, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()
		if err := s.reminderService.Scan(ctx); err != nil {
			s.logger.Printf("ERROR: Error during reminder scan: %v", err)
		}
	})
	if err != nil {
		s.logger.Fatalf("FATAL: Could not add reminder scan cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Println("INFO: Reminder scheduler started.")
}

func (s *ReminderScheduler) Stop() {
	s.logger.Println("INFO: Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Stops new runs, waits for in-flight jobs.
	<-ctx.Done()
	s.logger.Println("INFO: Reminder scheduler gracefully stopped.")
}
