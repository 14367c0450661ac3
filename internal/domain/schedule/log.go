package schedule

import (
	"fmt"
	"time"
)

// Status is the recorded outcome of a single occurrence.
// Any status may follow any other; there is no transition machine.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPresent   Status = "present"
	StatusAbsent    Status = "absent"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsValidStatus reports whether s is one of the five known statuses.
func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusPresent, StatusAbsent, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// OccurrenceKey identifies one instance of a slot on a specific calendar
// date. Date is always the original scheduled date, so the key survives
// the occurrence being rescheduled to another day.
type OccurrenceKey struct {
	SlotID string
	Date   string // "YYYY-MM-DD"
}

// String renders the key in the stored "{slotId}_{date}" form.
func (k OccurrenceKey) String() string {
	return fmt.Sprintf("%s_%s", k.SlotID, k.Date)
}

// Task is one to-do item attached to an occurrence.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// EntryLog is the mutable per-occurrence record: status and task list.
// It is created lazily on the first status change or task add and merged
// on subsequent writes, so Status and Tasks evolve independently.
// Corresponds to the 'timetable_logs' table, keyed by (slot_id, date).
type EntryLog struct {
	UserID    int64
	SlotID    string
	Date      string // occurrence date, matches OccurrenceKey.Date
	Status    Status // "" until a status has been recorded
	Tasks     []Task
	UpdatedAt time.Time
}

// Key returns the occurrence key this log belongs to.
func (l EntryLog) Key() OccurrenceKey {
	return OccurrenceKey{SlotID: l.SlotID, Date: l.Date}
}

// CompletedTasks counts the tasks marked done.
func (l EntryLog) CompletedTasks() int {
	n := 0
	for _, t := range l.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
