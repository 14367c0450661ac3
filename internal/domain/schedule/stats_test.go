package schedule

import (
	"testing"
)

func TestRateRounding(t *testing.T) {
	tests := []struct {
		n, d, want int
	}{
		{0, 0, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
	}
	for _, tt := range tests {
		if got := rate(tt.n, tt.d); got != tt.want {
			t.Errorf("rate(%d, %d) = %d, want %d", tt.n, tt.d, got, tt.want)
		}
	}
}

func TestComputeWeekStatsPastAndRecorded(t *testing.T) {
	// Two classes on Monday, viewed Wednesday noon: both days past, so
	// both enter the denominator even though only one has a log.
	snap := snapshotOf([]Slot{
		testSlot("c1", Monday, "09:00", "10:00", SlotTypeClass),
		testSlot("c2", Monday, "10:30", "11:30", SlotTypeClass),
	}, []EntryLog{
		{SlotID: "c1", Date: "2026-01-19", Status: StatusPresent},
	}, nil)

	ws := ComputeWeekStats(snap, midweek)
	if ws.TotalClasses != 2 || ws.PresentClasses != 1 {
		t.Fatalf("classes = %d/%d, want 1/2", ws.PresentClasses, ws.TotalClasses)
	}
	if ws.ClassRate() != 50 {
		t.Fatalf("ClassRate = %d, want 50", ws.ClassRate())
	}
}

func TestComputeWeekStatsFutureNeedsStatus(t *testing.T) {
	snap := snapshotOf([]Slot{
		testSlot("f1", Friday, "09:00", "10:00", SlotTypeClass),
		testSlot("f2", Friday, "14:00", "15:00", SlotTypeStudy),
	}, []EntryLog{
		{SlotID: "f2", Date: "2026-01-23", Status: StatusCompleted},
	}, nil)

	ws := ComputeWeekStats(snap, midweek)
	if ws.TotalClasses != 0 {
		t.Fatalf("future class without status counted: %d", ws.TotalClasses)
	}
	// Recording a status ahead of time counts the event immediately.
	if ws.TotalStudy != 1 || ws.CompletedStudy != 1 {
		t.Fatalf("study = %d/%d, want 1/1", ws.CompletedStudy, ws.TotalStudy)
	}
	if ws.StudyRate() != 100 {
		t.Fatalf("StudyRate = %d, want 100", ws.StudyRate())
	}
}

func TestComputeWeekStatsCancelledExcluded(t *testing.T) {
	snap := snapshotOf([]Slot{
		testSlot("c1", Monday, "09:00", "10:00", SlotTypeClass),
		testSlot("c2", Monday, "10:30", "11:30", SlotTypeClass),
	}, []EntryLog{
		{SlotID: "c1", Date: "2026-01-19", Status: StatusPresent},
		{SlotID: "c2", Date: "2026-01-19", Status: StatusCancelled},
	}, nil)

	ws := ComputeWeekStats(snap, midweek)
	if ws.TotalClasses != 1 || ws.PresentClasses != 1 {
		t.Fatalf("classes = %d/%d, cancelled event must count toward nothing", ws.PresentClasses, ws.TotalClasses)
	}
	if ws.ClassRate() != 100 {
		t.Fatalf("ClassRate = %d, want 100", ws.ClassRate())
	}
}

func TestComputeWeekStatsFollowsOverrideKey(t *testing.T) {
	// A class moved from Monday to Friday keeps its Monday log key. The
	// status recorded under the original date must still be credited.
	snap := snapshotOf([]Slot{
		testSlot("c1", Monday, "09:00", "10:00", SlotTypeClass),
	}, []EntryLog{
		{SlotID: "c1", Date: "2026-01-19", Status: StatusPresent},
	}, []Override{{
		SlotID:       "c1",
		SlotTitle:    "Slot c1",
		OriginalDate: "2026-01-19",
		NewDay:       Friday,
		NewStartTime: "09:00",
		NewEndTime:   "10:00",
		WeekOf:       "2026-01-19",
	}})

	ws := ComputeWeekStats(snap, midweek)
	if ws.TotalClasses != 1 || ws.PresentClasses != 1 {
		t.Fatalf("classes = %d/%d, want 1/1", ws.PresentClasses, ws.TotalClasses)
	}
}

func TestEntryLogCompletedTasks(t *testing.T) {
	l := EntryLog{Tasks: []Task{
		{ID: "1", Text: "read", Completed: true},
		{ID: "2", Text: "exercises"},
		{ID: "3", Text: "review", Completed: true},
	}}
	if got := l.CompletedTasks(); got != 2 {
		t.Fatalf("CompletedTasks = %d, want 2", got)
	}
}
