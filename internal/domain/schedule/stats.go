package schedule

import (
	"math"
	"time"
)

// WeekStats aggregates attendance and completion over the current week.
type WeekStats struct {
	TotalClasses   int
	PresentClasses int
	TotalStudy     int
	CompletedStudy int
}

// ClassRate is the attendance percentage, rounded; 0 when no classes
// counted.
func (ws WeekStats) ClassRate() int {
	return rate(ws.PresentClasses, ws.TotalClasses)
}

// StudyRate is the completion percentage, rounded; 0 when no sessions
// counted.
func (ws WeekStats) StudyRate() int {
	return rate(ws.CompletedStudy, ws.TotalStudy)
}

func rate(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	return int(math.Round(100 * float64(numerator) / float64(denominator)))
}

// ComputeWeekStats walks all seven days' materialized events and their
// logs. Cancelled events count toward nothing. An event enters the
// denominator once its day has fully passed (23:59:59) or once any
// status has been recorded for it.
func ComputeWeekStats(snap Snapshot, now time.Time) WeekStats {
	var ws WeekStats
	for _, day := range Weekdays {
		dayEnd, err := time.ParseInLocation(DateLayout+" 15:04:05",
			DateForWeekday(day, now)+" 23:59:59", now.Location())
		if err != nil {
			continue
		}
		isPast := now.After(dayEnd)

		for _, e := range MaterializeDay(day, snap, now) {
			var status Status
			if l, ok := snap.Log(e); ok {
				status = l.Status
			}
			if status == StatusCancelled {
				continue
			}
			if !isPast && status == "" {
				continue
			}
			if e.Type == SlotTypeClass {
				ws.TotalClasses++
				if status == StatusPresent {
					ws.PresentClasses++
				}
			} else {
				ws.TotalStudy++
				if status == StatusCompleted {
					ws.CompletedStudy++
				}
			}
		}
	}
	return ws
}
