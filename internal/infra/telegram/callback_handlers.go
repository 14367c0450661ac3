// internal/infra/telegram/callback_handlers.go
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"timetable_tracker_bot/internal/app"
	"timetable_tracker_bot/internal/domain/schedule"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// registerPlannerCallbacks wires the inline buttons from day views:
// status changes, task toggles, and the two-step confirmations for the
// destructive actions (cancel week, permanent delete).
func registerPlannerCallbacks(
	ctx context.Context,
	b *telebot.Bot,
	planner *app.PlannerService,
	targets *targetStore,
	baseLogger *logrus.Entry,
) {
	callbackLogger := baseLogger.WithField("handler_group", "callbacks")

	b.Handle(telebot.OnCallback, func(c telebot.Context) error {
		data := strings.TrimPrefix(c.Callback().Data, "\f")
		parts := strings.Split(data, "|")
		action := parts[0]
		senderID := c.Sender().ID
		logCtx := callbackLogger.WithFields(logrus.Fields{
			"action":    action,
			"sender_id": senderID,
		})

		key := func(i int) (schedule.OccurrenceKey, bool) {
			if len(parts) <= i+1 {
				return schedule.OccurrenceKey{}, false
			}
			return schedule.OccurrenceKey{SlotID: parts[i], Date: parts[i+1]}, true
		}

		switch action {
		case cbStatus: // st|slotID|date|status
			occ, ok := key(1)
			if !ok || len(parts) != 4 {
				logCtx.WithField("data", data).Warn("Malformed status callback")
				return c.Respond(&telebot.CallbackResponse{Text: "Could not process that."})
			}
			status := schedule.Status(parts[3])
			if err := planner.SetStatus(ctx, senderID, occ, status); err != nil {
				logCtx.WithError(err).Error("Failed to set status")
				return c.Respond(&telebot.CallbackResponse{Text: "Something went wrong."})
			}
			logCtx.WithFields(logrus.Fields{"key": occ.String(), "status": status}).Info("Status recorded")
			return c.Respond(&telebot.CallbackResponse{Text: "Marked " + string(status) + "."})

		case cbUndo: // un|slotID|date
			occ, ok := key(1)
			if !ok {
				return c.Respond(&telebot.CallbackResponse{Text: "Could not process that."})
			}
			if err := planner.UndoCancel(ctx, senderID, occ); err != nil {
				logCtx.WithError(err).Error("Failed to undo cancellation")
				return c.Respond(&telebot.CallbackResponse{Text: "Something went wrong."})
			}
			return c.Respond(&telebot.CallbackResponse{Text: "Back to pending."})

		case cbTasks: // tk|slotID|date
			occ, ok := key(1)
			if !ok {
				return c.Respond(&telebot.CallbackResponse{Text: "Could not process that."})
			}
			targets.set(senderID, occ)
			tasks, err := planner.Tasks(ctx, senderID, occ)
			if err != nil {
				logCtx.WithError(err).Error("Failed to load tasks")
				return c.Respond(&telebot.CallbackResponse{Text: "Something went wrong."})
			}
			if len(tasks) == 0 {
				if err := c.Send("No tasks yet. Add one with /task <text>."); err != nil {
					return err
				}
				return c.Respond()
			}
			if err := c.Send("To-do list (tap to toggle). Add more with /task <text>.", taskKeyboard(occ, tasks)); err != nil {
				return err
			}
			return c.Respond()

		case cbToggleTask: // tg|slotID|date|index
			occ, ok := key(1)
			if !ok || len(parts) != 4 {
				return c.Respond(&telebot.CallbackResponse{Text: "Could not process that."})
			}
			// The button carries a position; resolve it to the task id
			// against a fresh read so a stale keyboard cannot toggle the
			// wrong item after the list shrank.
			idx, err := strconv.Atoi(parts[3])
			if err != nil || idx < 0 {
				logCtx.WithField("data", data).Warn("Malformed task toggle callback")
				return c.Respond(&telebot.CallbackResponse{Text: "Could not process that."})
			}
			tasks, err := planner.Tasks(ctx, senderID, occ)
			if err != nil {
				logCtx.WithError(err).Error("Failed to load tasks")
				return c.Respond(&telebot.CallbackResponse{Text: "Something went wrong."})
			}
			if idx >= len(tasks) {
				return c.Respond(&telebot.CallbackResponse{Text: "That task list is out of date."})
			}
			if err := planner.ToggleTask(ctx, senderID, occ, tasks[idx].ID); err != nil {
				logCtx.WithError(err).Error("Failed to toggle task")
				return c.Respond(&telebot.CallbackResponse{Text: "Something went wrong."})
			}
			tasks, err = planner.Tasks(ctx, senderID, occ)
			if err != nil {
				logCtx.WithError(err).Error("Failed to reload tasks")
				return c.Respond()
			}
			// Refresh the checkboxes in place.
			if err := c.Edit("To-do list (tap to toggle). Add more with /task <text>.", taskKeyboard(occ, tasks)); err != nil {
				logCtx.WithError(err).Debug("Could not edit task list message")
			}
			return c.Respond()

		case cbShift: // sh|slotID|date
			occ, ok := key(1)
			if !ok {
				return c.Respond(&telebot.CallbackResponse{Text: "Could not process that."})
			}
			targets.set(senderID, occ)
			msg := "Moving this session for this week only.\nSend: /shift <Day> <HH:MM>-<HH:MM> [new title]"
			existing, err := planner.OccurrenceOverride(ctx, senderID, occ)
			if err != nil {
				logCtx.WithError(err).Error("Failed to look up existing override")
			} else if existing != nil {
				msg = fmt.Sprintf("Currently moved to %s, %s – %s. A new /shift replaces that.\n%s",
					existing.NewDay, schedule.FormatClockTime(existing.NewStartTime),
					schedule.FormatClockTime(existing.NewEndTime), msg)
			}
			if err := c.Send(msg); err != nil {
				return err
			}
			return c.Respond()

		case cbCancelConfirm: // cxq|slotID|date
			occ, ok := key(1)
			if !ok {
				return c.Respond(&telebot.CallbackResponse{Text: "Could not process that."})
			}
			if err := c.Send("Cancel this session for this week?", confirmKeyboard(cbCancel, occ.SlotID, occ.Date)); err != nil {
				return err
			}
			return c.Respond()

		case cbCancel: // cx|slotID|date
			occ, ok := key(1)
			if !ok {
				return c.Respond(&telebot.CallbackResponse{Text: "Could not process that."})
			}
			if err := planner.CancelOccurrence(ctx, senderID, occ); err != nil {
				logCtx.WithError(err).Error("Failed to cancel occurrence")
				return c.Respond(&telebot.CallbackResponse{Text: "Something went wrong."})
			}
			logCtx.WithField("key", occ.String()).Info("Occurrence cancelled")
			return c.Edit("Cancelled for this week. Undo from the day view.")

		case cbDeleteConfirm: // dlq|slotID
			if len(parts) != 2 {
				return c.Respond(&telebot.CallbackResponse{Text: "Could not process that."})
			}
			prompt := "Delete this slot permanently from your schedule?"
			if slot, err := planner.Slot(ctx, senderID, parts[1]); err == nil {
				prompt = fmt.Sprintf("Delete %q permanently from your schedule?", slot.Title)
			}
			if err := c.Send(prompt, confirmKeyboard(cbDelete, parts[1])); err != nil {
				return err
			}
			return c.Respond()

		case cbDelete: // dl|slotID
			if len(parts) != 2 {
				return c.Respond(&telebot.CallbackResponse{Text: "Could not process that."})
			}
			if err := planner.DeleteSlot(ctx, senderID, parts[1]); err != nil {
				logCtx.WithError(err).Error("Failed to delete slot")
				return c.Respond(&telebot.CallbackResponse{Text: "Something went wrong."})
			}
			logCtx.WithField("slot_id", parts[1]).Info("Slot deleted")
			return c.Edit("Slot deleted permanently.")

		case cbDismiss:
			if err := c.Delete(); err != nil {
				logCtx.WithError(err).Debug("Could not delete confirmation message")
			}
			return c.Respond()
		}

		logCtx.WithField("data", data).Warn(fmt.Sprintf("Unhandled callback action %q", action))
		return c.Respond(&telebot.CallbackResponse{Text: "Unknown action."})
	})
}
