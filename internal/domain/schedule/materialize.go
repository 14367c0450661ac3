package schedule

import (
	"sort"
	"time"
)

// Event is one concrete occurrence on a day of the current week. It is a
// derived view, never persisted: a Slot lifted onto a date, or an active
// Override moved in from another day.
type Event struct {
	SlotID      string
	Title       string
	Type        SlotType
	Day         Weekday
	StartTime   string // "HH:MM"
	EndTime     string // "HH:MM"
	Date        string // calendar date the event appears on
	LogDate     string // original occurrence date; keys the log and override stores
	Rescheduled bool
}

// Key returns the occurrence key used to look up log and override state.
func (e Event) Key() OccurrenceKey {
	return OccurrenceKey{SlotID: e.SlotID, Date: e.LogDate}
}

// Missed reports whether a still-pending event's end time has already
// passed.
func (e Event) Missed(status Status, now time.Time) bool {
	if status != StatusPending {
		return false
	}
	end, err := time.ParseInLocation(DateLayout+" 15:04", e.Date+" "+e.EndTime, now.Location())
	if err != nil {
		return false
	}
	return now.After(end)
}

// Snapshot bundles one consistent read of a user's three collections.
// Logs and Overrides are keyed by OccurrenceKey.String(). Materialization
// is always recomputed from a fresh snapshot, never cached across
// mutations.
type Snapshot struct {
	Slots     []Slot
	Logs      map[string]EntryLog
	Overrides map[string]Override
}

// Log returns the log record for an event, if one exists.
func (s Snapshot) Log(e Event) (EntryLog, bool) {
	l, ok := s.Logs[e.Key().String()]
	return l, ok
}

// StatusOf resolves an event's recorded status, defaulting to pending
// when no log exists or no status has been written yet.
func (s Snapshot) StatusOf(e Event) Status {
	if l, ok := s.Logs[e.Key().String()]; ok && l.Status != "" {
		return l.Status
	}
	return StatusPending
}

// MaterializeDay computes the ordered event list for one day of the week
// containing today.
//
// Resident slots are excluded as soon as an override exists for their
// occurrence key on that date: the exclusion is keyed on the override's
// presence alone, not on its WeekOf matching the current week. A stale
// override therefore keeps suppressing the original day while no longer
// producing a moved-in event. Downstream stats count the same way, so
// both sides of the rule must stay in sync.
func MaterializeDay(day Weekday, snap Snapshot, today time.Time) []Event {
	date := DateForWeekday(day, today)
	weekID := WeekIdentifier(today)

	events := make([]Event, 0, len(snap.Slots))
	for _, s := range snap.Slots {
		if s.Day != day {
			continue
		}
		if _, moved := snap.Overrides[(OccurrenceKey{SlotID: s.ID, Date: date}).String()]; moved {
			continue
		}
		events = append(events, Event{
			SlotID:    s.ID,
			Title:     s.Title,
			Type:      s.Type,
			Day:       day,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Date:      date,
			LogDate:   date,
		})
	}

	for _, o := range snap.Overrides {
		if o.NewDay != day || !o.ActiveIn(weekID) {
			continue
		}
		// The slot may have been deleted after the override was created;
		// fall back to a study session rather than dropping the event.
		typ := SlotTypeStudy
		for _, s := range snap.Slots {
			if s.ID == o.SlotID {
				typ = s.Type
				break
			}
		}
		events = append(events, Event{
			SlotID:      o.SlotID,
			Title:       o.SlotTitle,
			Type:        typ,
			Day:         day,
			StartTime:   o.NewStartTime,
			EndTime:     o.NewEndTime,
			Date:        date,
			LogDate:     o.OriginalDate,
			Rescheduled: true,
		})
	}

	// Fixed-width "HH:MM" makes the lexicographic compare a time order.
	// Slot id breaks ties: moved-in events come out of map iteration,
	// so without it equal start times would reorder between calls.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].StartTime != events[j].StartTime {
			return events[i].StartTime < events[j].StartTime
		}
		return events[i].SlotID < events[j].SlotID
	})
	return events
}

// UpcomingAt returns today's events starting exactly leadMinutes from
// now. The comparison is minute-exact: a minute boundary crossed between
// scans silently skips the event.
func UpcomingAt(snap Snapshot, now time.Time, leadMinutes int) []Event {
	events := MaterializeDay(WeekdayOf(now), snap, now)
	nowMinutes := now.Hour()*60 + now.Minute()

	var upcoming []Event
	for _, e := range events {
		start, err := clockMinutes(e.StartTime)
		if err != nil {
			continue
		}
		if start-nowMinutes == leadMinutes {
			upcoming = append(upcoming, e)
		}
	}
	return upcoming
}
