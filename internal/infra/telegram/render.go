// internal/infra/telegram/render.go
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"timetable_tracker_bot/internal/domain/schedule"

	"gopkg.in/telebot.v3"
)

// Callback action codes. Payloads are "\f<action>|<arg>|...", built via
// telebot's Data buttons and parsed in the OnCallback dispatcher.
const (
	cbStatus        = "st" // st|slotID|date|status
	cbUndo          = "un" // un|slotID|date
	cbTasks         = "tk" // tk|slotID|date
	cbToggleTask    = "tg" // tg|slotID|date|index
	cbShift         = "sh" // sh|slotID|date
	cbCancelConfirm = "cxq"
	cbCancel        = "cx" // cx|slotID|date
	cbDeleteConfirm = "dlq"
	cbDelete        = "dl" // dl|slotID
	cbDismiss       = "dis"
)

func formatEventText(e schedule.Event, snap schedule.Snapshot, now time.Time) string {
	status := snap.StatusOf(e)

	var b strings.Builder
	fmt.Fprintf(&b, "%s – %s  %s", schedule.FormatClockTime(e.StartTime), schedule.FormatClockTime(e.EndTime), e.Title)
	if e.Type == schedule.SlotTypeClass {
		b.WriteString(" [class]")
	} else {
		b.WriteString(" [study]")
	}
	if e.Rescheduled {
		b.WriteString(" (shifted)")
	}

	b.WriteString("\n")
	switch {
	case status == schedule.StatusCancelled:
		b.WriteString("Cancelled this week")
	case e.Missed(status, now):
		b.WriteString("Missed")
	default:
		b.WriteString("Status: " + string(status))
	}

	if l, ok := snap.Log(e); ok && len(l.Tasks) > 0 {
		fmt.Fprintf(&b, "\nTasks: %d/%d done", l.CompletedTasks(), len(l.Tasks))
	}
	return b.String()
}

// eventKeyboard builds the per-event action buttons shown in day views.
func eventKeyboard(e schedule.Event, snap schedule.Snapshot, now time.Time) *telebot.ReplyMarkup {
	status := snap.StatusOf(e)
	markup := &telebot.ReplyMarkup{}

	if status == schedule.StatusCancelled {
		markup.Inline(markup.Row(markup.Data("Undo cancel", cbUndo, e.SlotID, e.LogDate)))
		return markup
	}

	var rows []telebot.Row
	if status == schedule.StatusPending && !e.Missed(status, now) {
		if e.Type == schedule.SlotTypeClass {
			rows = append(rows, markup.Row(
				markup.Data("Present", cbStatus, e.SlotID, e.LogDate, string(schedule.StatusPresent)),
				markup.Data("Absent", cbStatus, e.SlotID, e.LogDate, string(schedule.StatusAbsent)),
			))
		} else {
			rows = append(rows, markup.Row(
				markup.Data("Mark done", cbStatus, e.SlotID, e.LogDate, string(schedule.StatusCompleted)),
			))
		}
	}
	if e.Type == schedule.SlotTypeStudy {
		rows = append(rows, markup.Row(markup.Data("Tasks", cbTasks, e.SlotID, e.LogDate)))
	}
	rows = append(rows, markup.Row(
		markup.Data("Shift", cbShift, e.SlotID, e.LogDate),
		markup.Data("Cancel week", cbCancelConfirm, e.SlotID, e.LogDate),
		markup.Data("Delete", cbDeleteConfirm, e.SlotID),
	))
	markup.Inline(rows...)
	return markup
}

// taskKeyboard lists the occurrence's tasks, one toggle button each.
// Buttons carry the task's position, not its id: callback_data is capped
// at 64 bytes and two UUIDs plus a date do not fit. The dispatcher
// resolves the position against a fresh read before toggling.
func taskKeyboard(key schedule.OccurrenceKey, tasks []schedule.Task) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(tasks))
	for i, t := range tasks {
		label := "◻ " + t.Text
		if t.Completed {
			label = "☑ " + t.Text
		}
		rows = append(rows, markup.Row(markup.Data(label, cbToggleTask, key.SlotID, key.Date, strconv.Itoa(i))))
	}
	markup.Inline(rows...)
	return markup
}

func confirmKeyboard(yesAction string, args ...string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("Yes", yesAction, args...),
		markup.Data("No", cbDismiss),
	))
	return markup
}

// renderWeekSummary builds the compact all-week view for /week.
func renderWeekSummary(snap schedule.Snapshot, now time.Time) string {
	var b strings.Builder
	today := schedule.WeekdayOf(now)
	for _, day := range schedule.Weekdays {
		if day == today {
			fmt.Fprintf(&b, "*%s* (today)\n", day)
		} else {
			fmt.Fprintf(&b, "*%s*\n", day)
		}
		events := schedule.MaterializeDay(day, snap, now)
		if len(events) == 0 {
			b.WriteString("  free day\n")
			continue
		}
		for _, e := range events {
			status := snap.StatusOf(e)
			fmt.Fprintf(&b, "  %s %s", e.StartTime, e.Title)
			if e.Rescheduled {
				b.WriteString(" (shifted)")
			}
			if status != schedule.StatusPending {
				fmt.Fprintf(&b, " — %s", status)
			} else if e.Missed(status, now) {
				b.WriteString(" — missed")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
