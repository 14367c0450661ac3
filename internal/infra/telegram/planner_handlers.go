// internal/infra/telegram/planner_handlers.go
package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"timetable_tracker_bot/internal/app"
	"timetable_tracker_bot/internal/domain/schedule"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// targetStore remembers, per user, the occurrence the user last pressed
// Shift or Tasks on, so the follow-up /shift or /task command knows what
// it applies to.
type targetStore struct {
	mu sync.Mutex
	m  map[int64]schedule.OccurrenceKey
}

func newTargetStore() *targetStore {
	return &targetStore{m: make(map[int64]schedule.OccurrenceKey)}
}

func (ts *targetStore) set(userID int64, key schedule.OccurrenceKey) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.m[userID] = key
}

func (ts *targetStore) get(userID int64) (schedule.OccurrenceKey, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	key, ok := ts.m[userID]
	return key, ok
}

// RegisterPlannerHandlers registers the schedule commands and the inline
// button callbacks.
func RegisterPlannerHandlers(
	ctx context.Context,
	b *telebot.Bot,
	planner *app.PlannerService,
	watch *WatchRegistry,
	baseLogger *logrus.Entry,
) {
	targets := newTargetStore()
	registerPlannerCallbacks(ctx, b, planner, targets, baseLogger)

	b.Handle("/add", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/add",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		args := c.Args()
		// Expected format: /add <Day> <HH:MM>-<HH:MM> <class|study> <Title...>
		if len(args) < 4 {
			handlerLogger.WithField("args_count", len(args)).Warn("Invalid command format")
			return c.Send("Invalid format. Use: /add <Day> <HH:MM>-<HH:MM> <class|study> <Title>\nExample: /add Monday 09:00-10:30 class Linear Algebra")
		}

		times := strings.SplitN(args[1], "-", 2)
		if len(times) != 2 {
			return c.Send("Invalid time range. Use <HH:MM>-<HH:MM>, e.g. 09:00-10:30.")
		}

		params := app.SlotParams{
			Title:     strings.Join(args[3:], " "),
			Type:      args[2],
			Day:       args[0],
			StartTime: times[0],
			EndTime:   times[1],
		}

		slot, err := planner.AddSlot(ctx, c.Sender().ID, params)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			if err == app.ErrInvalidTimeRange {
				logWithError.Warn("Start time not before end time")
				return c.Send("Start time must be before end time.")
			}
			logWithError.Warn("Failed to add slot")
			return c.Send("Could not add that slot. Check the day name, the times (24-hour HH:MM), and the type (class or study).")
		}

		handlerLogger.WithField("slot_id", slot.ID).Info("Slot added successfully")
		return c.Send(fmt.Sprintf("Added: %s every %s, %s – %s.", slot.Title, slot.Day,
			schedule.FormatClockTime(slot.StartTime), schedule.FormatClockTime(slot.EndTime)))
	})

	b.Handle("/today", func(c telebot.Context) error {
		return sendDayView(ctx, c, planner, schedule.WeekdayOf(time.Now()),
			baseLogger.WithField("handler", "/today"))
	})

	b.Handle("/day", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/day",
			"sender_id": c.Sender().ID,
		})
		args := c.Args()
		if len(args) != 1 || !schedule.IsValidWeekday(args[0]) {
			handlerLogger.Warn("Invalid day argument")
			return c.Send("Use: /day <Day>, e.g. /day Wednesday")
		}
		return sendDayView(ctx, c, planner, schedule.Weekday(args[0]), handlerLogger)
	})

	b.Handle("/week", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/week",
			"sender_id": c.Sender().ID,
		})
		snap, err := planner.LoadSnapshot(ctx, c.Sender().ID)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to load snapshot")
			return c.Send("Could not load your schedule. Please try again later.")
		}
		return c.Send(renderWeekSummary(snap, time.Now()), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/stats", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/stats",
			"sender_id": c.Sender().ID,
		})
		stats, err := planner.WeekStats(ctx, c.Sender().ID)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to compute stats")
			return c.Send("Could not compute your stats. Please try again later.")
		}
		return c.Send(fmt.Sprintf(
			"Weekly stats\n\nClass attendance: %d%% (%d/%d)\nStudy goals: %d%% (%d/%d)",
			stats.ClassRate(), stats.PresentClasses, stats.TotalClasses,
			stats.StudyRate(), stats.CompletedStudy, stats.TotalStudy,
		))
	})

	b.Handle("/reminders", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/reminders",
			"sender_id": c.Sender().ID,
		})
		args := c.Args()
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return c.Send("Use: /reminders on or /reminders off")
		}
		enabled := args[0] == "on"
		// The account may not exist yet if the user skipped /start.
		if _, err := planner.Register(ctx, c.Sender().ID); err != nil {
			handlerLogger.WithError(err).Error("Failed to ensure account")
			return c.Send("Something went wrong. Please try again later.")
		}
		if err := planner.SetReminders(ctx, c.Sender().ID, enabled); err != nil {
			handlerLogger.WithError(err).Error("Failed to update reminders flag")
			return c.Send("Something went wrong. Please try again later.")
		}
		handlerLogger.WithField("enabled", enabled).Info("Reminders flag updated")
		if enabled {
			return c.Send("Reminders are on. I'll message you shortly before each event starts.")
		}
		return c.Send("Reminders are off.")
	})

	b.Handle("/watch", func(c telebot.Context) error {
		args := c.Args()
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return c.Send("Use: /watch on or /watch off")
		}
		watch.Set(c.Sender().ID, args[0] == "on")
		if args[0] == "on" {
			return c.Send("Watch mode on: I'll re-send today's schedule whenever it changes.")
		}
		return c.Send("Watch mode off.")
	})

	b.Handle("/shift", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/shift",
			"sender_id": c.Sender().ID,
		})
		key, ok := targets.get(c.Sender().ID)
		if !ok {
			return c.Send("Press Shift on an event first (/today), then send /shift <Day> <HH:MM>-<HH:MM> [new title].")
		}
		args := c.Args()
		if len(args) < 2 {
			return c.Send("Use: /shift <Day> <HH:MM>-<HH:MM> [new title]\nExample: /shift Thursday 16:00-17:00")
		}
		times := strings.SplitN(args[1], "-", 2)
		if len(times) != 2 {
			return c.Send("Invalid time range. Use <HH:MM>-<HH:MM>, e.g. 16:00-17:00.")
		}

		params := app.RescheduleParams{
			NewDay:       args[0],
			NewStartTime: times[0],
			NewEndTime:   times[1],
			NewTitle:     strings.Join(args[2:], " "),
		}
		override, err := planner.Reschedule(ctx, c.Sender().ID, key.SlotID, key.Date, params)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			if err == app.ErrInvalidTimeRange {
				logWithError.Warn("Start time not before end time")
				return c.Send("Start time must be before end time.")
			}
			logWithError.Warn("Failed to reschedule")
			return c.Send("Could not move that session. Check the day name and the times (24-hour HH:MM).")
		}

		handlerLogger.WithField("key", key.String()).Info("Occurrence rescheduled")
		return c.Send(fmt.Sprintf("Moved for this week only: %s now on %s, %s – %s.",
			override.SlotTitle, override.NewDay,
			schedule.FormatClockTime(override.NewStartTime), schedule.FormatClockTime(override.NewEndTime)))
	})

	b.Handle("/task", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/task",
			"sender_id": c.Sender().ID,
		})
		key, ok := targets.get(c.Sender().ID)
		if !ok {
			return c.Send("Press Tasks on a study session first (/today), then send /task <text>.")
		}
		task, err := planner.AddTask(ctx, c.Sender().ID, key, strings.Join(c.Args(), " "))
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to add task")
			return c.Send("Could not add the task. Please try again later.")
		}
		if task == nil {
			return c.Send("Task text is empty; nothing added.")
		}
		handlerLogger.WithField("key", key.String()).Info("Task added")
		return c.Send(fmt.Sprintf("Added task: %s", task.Text))
	})
}

// sendDayView sends the day header plus one message per event, each with
// its action buttons.
func sendDayView(ctx context.Context, c telebot.Context, planner *app.PlannerService, day schedule.Weekday, logCtx *logrus.Entry) error {
	now := time.Now()
	events, snap, err := planner.DayEvents(ctx, c.Sender().ID, day)
	if err != nil {
		logCtx.WithError(err).WithField("sender_id", c.Sender().ID).Error("Failed to materialize day")
		return c.Send("Could not load your schedule. Please try again later.")
	}

	header := fmt.Sprintf("%s — %s", day, schedule.DateForWeekday(day, now))
	if day == schedule.WeekdayOf(now) {
		header += " (today)"
	}
	if len(events) == 0 {
		return c.Send(header + "\n\nFree day.")
	}
	if err := c.Send(header); err != nil {
		return err
	}
	for _, e := range events {
		if err := c.Send(formatEventText(e, snap, now), eventKeyboard(e, snap, now)); err != nil {
			return err
		}
	}
	return nil
}
