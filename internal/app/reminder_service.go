package app

import (
	"context"
	"fmt"
	"time"

	"timetable_tracker_bot/internal/domain/account"
	"timetable_tracker_bot/internal/domain/schedule"
	domainTelegram "timetable_tracker_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// ReminderService runs the periodic pass over today's materialized
// events and notifies users about ones starting in exactly the
// configured lead. The match is minute-exact: a boundary crossed between
// scans silently skips the reminder, best effort rather than guaranteed
// delivery.
type ReminderService struct {
	planner        *PlannerService
	accountRepo    account.Repository
	telegramClient domainTelegram.Client
	logger         *logrus.Entry
	leadMinutes    int
	now            func() time.Time
}

func NewReminderService(
	planner *PlannerService,
	ar account.Repository,
	tc domainTelegram.Client,
	logger *logrus.Entry,
	leadMinutes int,
) *ReminderService {
	return &ReminderService{
		planner:        planner,
		accountRepo:    ar,
		telegramClient: tc,
		logger:         logger,
		leadMinutes:    leadMinutes,
		now:            time.Now,
	}
}

// Scan checks every account with reminders enabled. Accounts with the
// gate off are simply not visited; the scan itself runs regardless.
// Per-user failures are logged and do not abort the pass.
func (s *ReminderService) Scan(ctx context.Context) error {
	now := s.now()
	accounts, err := s.accountRepo.ListRemindersEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts for reminder scan: %w", err)
	}

	for _, a := range accounts {
		snap, err := s.planner.LoadSnapshot(ctx, a.UserID)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", a.UserID).Error("Reminder scan: could not load snapshot")
			continue
		}
		for _, e := range schedule.UpcomingAt(snap, now, s.leadMinutes) {
			text := fmt.Sprintf("Upcoming: %s\nStarts at %s", e.Title, schedule.FormatClockTime(e.StartTime))
			if err := s.telegramClient.SendMessage(a.UserID, text, nil); err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"user_id": a.UserID,
					"slot_id": e.SlotID,
				}).Error("Failed to send reminder")
				continue
			}
			s.logger.WithFields(logrus.Fields{
				"user_id":    a.UserID,
				"slot_id":    e.SlotID,
				"start_time": e.StartTime,
			}).Info("Reminder sent")
		}
	}
	return nil
}
