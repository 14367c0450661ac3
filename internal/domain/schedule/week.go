package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO date form used for all stored dates and keys.
const DateLayout = "2006-01-02"

// mondayIndex remaps Go's Sunday-first weekday to a Monday-first
// position: Monday=0 .. Sunday=6.
func mondayIndex(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

// WeekdayOf returns the Monday-first day name for the given instant.
func WeekdayOf(t time.Time) Weekday {
	return Weekdays[mondayIndex(t.Weekday())]
}

// DateForWeekday returns the calendar date, within the week containing
// today, on which the named day falls.
func DateForWeekday(day Weekday, today time.Time) string {
	current := mondayIndex(today.Weekday())
	target := 0
	for i, d := range Weekdays {
		if d == day {
			target = i
			break
		}
	}
	return today.AddDate(0, 0, target-current).Format(DateLayout)
}

// WeekIdentifier returns the date of the Monday of the week containing
// today. It is the stable key deciding whether a stored override is
// current or stale.
func WeekIdentifier(today time.Time) string {
	return today.AddDate(0, 0, -mondayIndex(today.Weekday())).Format(DateLayout)
}

// FormatClockTime renders a 24-hour "HH:MM" as "H:MM AM/PM".
// Empty input yields an empty string; anything unparseable is returned
// unchanged.
func FormatClockTime(hhmm string) string {
	if hhmm == "" {
		return ""
	}
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return hhmm
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return hhmm
	}
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h = h % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%s %s", h, parts[1], suffix)
}

// clockMinutes converts "HH:MM" into minutes since midnight.
func clockMinutes(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock time %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock time %q: %w", hhmm, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed clock time %q: %w", hhmm, err)
	}
	return h*60 + m, nil
}
