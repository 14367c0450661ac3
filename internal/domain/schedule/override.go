package schedule

import "time"

// Override is a one-off reschedule of a single occurrence: "this week
// only, the slot runs on NewDay at NewStartTime instead". The occurrence
// keeps its original key, so any log recorded for it survives the move.
// Corresponds to the 'timetable_overrides' table, keyed by
// (slot_id, original_date).
type Override struct {
	UserID       int64
	SlotID       string
	SlotTitle    string // override title, falls back to the slot title at creation
	OriginalDate string // "YYYY-MM-DD", the OccurrenceKey date
	NewDay       Weekday
	NewStartTime string // "HH:MM"
	NewEndTime   string // "HH:MM"
	WeekOf       string // week identifier (Monday's date) the override applies to
	CreatedAt    time.Time
}

// Key returns the occurrence key the override reschedules.
func (o Override) Key() OccurrenceKey {
	return OccurrenceKey{SlotID: o.SlotID, Date: o.OriginalDate}
}

// ActiveIn reports whether the override applies to the given week.
// Overrides from past weeks stay stored but never re-surface.
func (o Override) ActiveIn(weekID string) bool {
	return o.WeekOf == weekID
}
