package schedule

import "time"

// SlotType distinguishes taught classes from self-study sessions.
type SlotType string

const (
	SlotTypeClass SlotType = "class"
	SlotTypeStudy SlotType = "study"
)

// Weekday is the long-form English day name used throughout the data model.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists the seven days Monday-first, the order the week is
// rendered and aggregated in.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// IsValidWeekday reports whether name is one of the seven day names.
func IsValidWeekday(name string) bool {
	for _, d := range Weekdays {
		if string(d) == name {
			return true
		}
	}
	return false
}

// Slot is a recurring weekly commitment. It repeats every week on Day
// between StartTime and EndTime until deleted.
// Corresponds to the 'timetable_slots' table.
type Slot struct {
	ID        string // UUID
	UserID    int64
	Title     string
	Type      SlotType
	Day       Weekday
	StartTime string // "HH:MM", 24-hour
	EndTime   string // "HH:MM", invariant StartTime < EndTime
	CreatedAt time.Time
}
