// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"fmt"
	"strings"

	"timetable_tracker_bot/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	planner *app.PlannerService,
	baseLogger *logrus.Entry, // For contextual logging
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if _, err := planner.Register(ctx, senderID); err != nil {
			logCtx.WithError(err).Error("Error registering account for /start command")
			return c.Send("Something went wrong while setting up your planner. Please try again later.")
		}

		logCtx.Info("Account ready")
		return c.Send(fmt.Sprintf("Hi, %s! I track your weekly classes and study sessions.\n\nAdd a recurring slot with /add, see today with /today, and use /help for everything else.", c.Sender().FirstName))
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		var helpText strings.Builder
		helpText.WriteString("Available commands:\n\n")
		helpText.WriteString("`/add <Day> <HH:MM>-<HH:MM> <class|study> <Title>`\n - Add a recurring weekly slot.\n\n")
		helpText.WriteString("`/today` and `/day <Day>`\n - Show a day's schedule with action buttons.\n\n")
		helpText.WriteString("`/week`\n - Compact view of the whole week.\n\n")
		helpText.WriteString("`/stats`\n - Attendance and study completion for this week.\n\n")
		helpText.WriteString("`/shift <Day> <HH:MM>-<HH:MM> [title]`\n - Move the last selected session, this week only (press Shift on an event first).\n\n")
		helpText.WriteString("`/task <text>`\n - Add a to-do to the last selected session (press Tasks on an event first).\n\n")
		helpText.WriteString("`/reminders on|off`\n - Get a message shortly before each event starts.\n\n")
		helpText.WriteString("`/watch on|off`\n - Re-send today's schedule whenever your data changes.\n\n")
		helpText.WriteString("`/help`\n - Show this message.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}
