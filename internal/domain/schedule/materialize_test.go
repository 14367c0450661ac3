package schedule

import (
	"testing"
	"time"
)

func testSlot(id string, day Weekday, start, end string, typ SlotType) Slot {
	return Slot{
		ID:        id,
		UserID:    42,
		Title:     "Slot " + id,
		Type:      typ,
		Day:       day,
		StartTime: start,
		EndTime:   end,
	}
}

func snapshotOf(slots []Slot, logs []EntryLog, overrides []Override) Snapshot {
	snap := Snapshot{
		Slots:     slots,
		Logs:      make(map[string]EntryLog, len(logs)),
		Overrides: make(map[string]Override, len(overrides)),
	}
	for _, l := range logs {
		snap.Logs[l.Key().String()] = l
	}
	for _, o := range overrides {
		snap.Overrides[o.Key().String()] = o
	}
	return snap
}

func TestMaterializeDayResidentSlot(t *testing.T) {
	snap := snapshotOf([]Slot{
		testSlot("a", Wednesday, "09:00", "10:00", SlotTypeClass),
	}, nil, nil)

	events := MaterializeDay(Wednesday, snap, midweek)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.SlotID != "a" || e.Date != "2026-01-21" || e.LogDate != "2026-01-21" {
		t.Fatalf("unexpected event %+v", e)
	}
	if e.Rescheduled {
		t.Fatalf("resident slot must not be marked rescheduled")
	}
	if got := MaterializeDay(Thursday, snap, midweek); len(got) != 0 {
		t.Fatalf("slot leaked onto another day: %+v", got)
	}
}

func TestMaterializeDaySortsByStartTime(t *testing.T) {
	snap := snapshotOf([]Slot{
		testSlot("late", Monday, "10:30", "11:30", SlotTypeClass),
		testSlot("mid", Monday, "09:00", "10:00", SlotTypeStudy),
		testSlot("early", Monday, "08:15", "09:00", SlotTypeClass),
	}, nil, nil)

	events := MaterializeDay(Monday, snap, midweek)
	want := []string{"08:15", "09:00", "10:30"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.StartTime != want[i] {
			t.Errorf("events[%d].StartTime = %q, want %q", i, e.StartTime, want[i])
		}
	}
}

func TestMaterializeDayActiveOverride(t *testing.T) {
	snap := snapshotOf([]Slot{
		testSlot("a", Wednesday, "09:00", "10:00", SlotTypeClass),
	}, nil, []Override{{
		UserID:       42,
		SlotID:       "a",
		SlotTitle:    "Slot a",
		OriginalDate: "2026-01-21",
		NewDay:       Friday,
		NewStartTime: "10:00",
		NewEndTime:   "11:00",
		WeekOf:       "2026-01-19",
	}})

	if got := MaterializeDay(Wednesday, snap, midweek); len(got) != 0 {
		t.Fatalf("overridden slot still materializes on its original day: %+v", got)
	}

	events := MaterializeDay(Friday, snap, midweek)
	if len(events) != 1 {
		t.Fatalf("got %d events on new day, want 1", len(events))
	}
	e := events[0]
	if !e.Rescheduled {
		t.Fatalf("moved-in event must be marked rescheduled")
	}
	if e.Date != "2026-01-23" {
		t.Errorf("Date = %q, want 2026-01-23", e.Date)
	}
	// The log key stays on the original date so recorded state survives
	// the move.
	if e.LogDate != "2026-01-21" {
		t.Errorf("LogDate = %q, want 2026-01-21", e.LogDate)
	}
	if e.Type != SlotTypeClass {
		t.Errorf("Type = %q, want class", e.Type)
	}
}

func TestMaterializeDayStaleOverrideStillSuppresses(t *testing.T) {
	// An override from a past week no longer produces a moved-in event,
	// but its presence alone keeps excluding the resident slot on the
	// matching date.
	snap := snapshotOf([]Slot{
		testSlot("a", Wednesday, "09:00", "10:00", SlotTypeClass),
	}, nil, []Override{{
		SlotID:       "a",
		SlotTitle:    "Slot a",
		OriginalDate: "2026-01-21",
		NewDay:       Friday,
		NewStartTime: "10:00",
		NewEndTime:   "11:00",
		WeekOf:       "2026-01-12",
	}})

	if got := MaterializeDay(Wednesday, snap, midweek); len(got) != 0 {
		t.Fatalf("stale override must still suppress the resident slot, got %+v", got)
	}
	if got := MaterializeDay(Friday, snap, midweek); len(got) != 0 {
		t.Fatalf("stale override must not move in, got %+v", got)
	}
}

func TestMaterializeDayDeletedSlotFallsBackToStudy(t *testing.T) {
	snap := snapshotOf(nil, nil, []Override{{
		SlotID:       "gone",
		SlotTitle:    "Orphaned session",
		OriginalDate: "2026-01-21",
		NewDay:       Thursday,
		NewStartTime: "16:00",
		NewEndTime:   "17:00",
		WeekOf:       "2026-01-19",
	}})

	events := MaterializeDay(Thursday, snap, midweek)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Type != SlotTypeStudy {
		t.Errorf("Type = %q, want study fallback", events[0].Type)
	}
	if events[0].Title != "Orphaned session" {
		t.Errorf("Title = %q, want override title", events[0].Title)
	}
}

func TestMaterializeDayTiesOrderedBySlotID(t *testing.T) {
	// Moved-in events come out of map iteration, so equal start times
	// must still render in a fixed order.
	overrideTo := func(slotID string) Override {
		return Override{
			SlotID:       slotID,
			SlotTitle:    "Session " + slotID,
			OriginalDate: "2026-01-19",
			NewDay:       Thursday,
			NewStartTime: "16:00",
			NewEndTime:   "17:00",
			WeekOf:       "2026-01-19",
		}
	}
	snap := snapshotOf(nil, nil, []Override{
		overrideTo("bbb"), overrideTo("aaa"), overrideTo("ccc"),
	})

	for i := 0; i < 20; i++ {
		events := MaterializeDay(Thursday, snap, midweek)
		if len(events) != 3 {
			t.Fatalf("got %d events, want 3", len(events))
		}
		for j, want := range []string{"aaa", "bbb", "ccc"} {
			if events[j].SlotID != want {
				t.Fatalf("run %d: events[%d].SlotID = %q, want %q", i, j, events[j].SlotID, want)
			}
		}
	}
}

func TestSnapshotStatusOf(t *testing.T) {
	e := Event{SlotID: "a", LogDate: "2026-01-21"}
	snap := snapshotOf(nil, []EntryLog{{SlotID: "a", Date: "2026-01-21", Status: StatusPresent}}, nil)

	if got := snap.StatusOf(e); got != StatusPresent {
		t.Fatalf("StatusOf = %q, want present", got)
	}
	if got := snap.StatusOf(Event{SlotID: "b", LogDate: "2026-01-21"}); got != StatusPending {
		t.Fatalf("StatusOf without log = %q, want pending", got)
	}
	// A log created by a task add carries no status yet.
	snap.Logs["c_2026-01-21"] = EntryLog{SlotID: "c", Date: "2026-01-21"}
	if got := snap.StatusOf(Event{SlotID: "c", LogDate: "2026-01-21"}); got != StatusPending {
		t.Fatalf("StatusOf with empty status = %q, want pending", got)
	}
}

func TestEventMissed(t *testing.T) {
	e := Event{Date: "2026-01-21", EndTime: "10:00"}
	after := time.Date(2026, time.January, 21, 10, 1, 0, 0, time.Local)
	before := time.Date(2026, time.January, 21, 9, 59, 0, 0, time.Local)

	if !e.Missed(StatusPending, after) {
		t.Fatalf("pending event past its end must be missed")
	}
	if e.Missed(StatusPending, before) {
		t.Fatalf("event still running must not be missed")
	}
	if e.Missed(StatusPresent, after) {
		t.Fatalf("resolved event must never be missed")
	}
}

func TestUpcomingAtExactLeadBoundary(t *testing.T) {
	snap := snapshotOf([]Slot{
		testSlot("a", Wednesday, "14:15", "15:45", SlotTypeClass),
	}, nil, nil)

	at := func(h, m int) time.Time {
		return time.Date(2026, time.January, 21, h, m, 0, 0, time.Local)
	}

	if got := UpcomingAt(snap, at(14, 0), 15); len(got) != 1 {
		t.Fatalf("at 14:00 got %d events, want 1", len(got))
	}
	if got := UpcomingAt(snap, at(13, 59), 15); len(got) != 0 {
		t.Fatalf("at 13:59 got %d events, want 0", len(got))
	}
	if got := UpcomingAt(snap, at(14, 1), 15); len(got) != 0 {
		t.Fatalf("at 14:01 got %d events, want 0", len(got))
	}
}
