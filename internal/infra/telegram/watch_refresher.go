// internal/infra/telegram/watch_refresher.go
package telegram

import (
	"context"
	"fmt"
	"time"

	"timetable_tracker_bot/internal/app"
	"timetable_tracker_bot/internal/domain/schedule"
	domainTelegram "timetable_tracker_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// NewWatchRefresher builds the change-feed handler that re-sends today's
// schedule to watching users after each write reaches the store. This is
// the snapshot-driven re-render loop: nothing is patched in place, the
// view is always recomputed from a fresh read.
//
// userID 0 means the feed reconnected and changes may have been missed,
// so every watched user is refreshed.
func NewWatchRefresher(
	planner *app.PlannerService,
	client domainTelegram.Client,
	registry *WatchRegistry,
	logger *logrus.Entry,
) func(collection string, userID int64) {
	refresh := func(userID int64) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		now := time.Now()
		day := schedule.WeekdayOf(now)
		events, snap, err := planner.DayEvents(ctx, userID, day)
		if err != nil {
			logger.WithError(err).WithField("user_id", userID).Error("Watch refresh: could not materialize today")
			return
		}

		text := fmt.Sprintf("Schedule updated — %s:\n", day)
		if len(events) == 0 {
			text += "free day."
		}
		for _, e := range events {
			status := snap.StatusOf(e)
			text += fmt.Sprintf("\n%s %s — %s", e.StartTime, e.Title, status)
			if e.Rescheduled {
				text += " (shifted)"
			}
		}
		if err := client.SendMessage(userID, text, nil); err != nil {
			logger.WithError(err).WithField("user_id", userID).Error("Watch refresh: send failed")
		}
	}

	return func(collection string, userID int64) {
		// Called from the listener goroutine; the DB reads and sends
		// happen off it.
		if userID != 0 {
			if registry.IsWatched(userID) {
				go refresh(userID)
			}
			return
		}
		for _, id := range registry.List() {
			go refresh(id)
		}
	}
}
