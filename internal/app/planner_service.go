package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"timetable_tracker_bot/internal/domain/account"
	"timetable_tracker_bot/internal/domain/schedule"
	idb "timetable_tracker_bot/internal/infra/database"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Custom application-level errors for the planner service
var ErrInvalidTimeRange = fmt.Errorf("start time must be before end time")
var ErrInvalidStatus = fmt.Errorf("unknown occurrence status")

var clockTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// SlotParams carries the input for creating a recurring slot.
type SlotParams struct {
	Title     string `validate:"required,max=120"`
	Type      string `validate:"required,oneof=class study"`
	Day       string `validate:"required,weekday"`
	StartTime string `validate:"required,clocktime"`
	EndTime   string `validate:"required,clocktime"`
}

// RescheduleParams carries the input for a one-week reschedule.
// NewTitle is optional; empty falls back to the slot's own title.
type RescheduleParams struct {
	NewDay       string `validate:"required,weekday"`
	NewStartTime string `validate:"required,clocktime"`
	NewEndTime   string `validate:"required,clocktime"`
	NewTitle     string `validate:"max=120"`
}

// PlannerService implements the schedule mutators and queries. All
// mutations are keyed writes to the store; every query re-reads a fresh
// snapshot and recomputes, nothing is cached across mutations.
type PlannerService struct {
	slotRepo     schedule.SlotRepository
	logRepo      schedule.LogRepository
	overrideRepo schedule.OverrideRepository
	accountRepo  account.Repository
	validate     *validator.Validate
	logger       *logrus.Entry
	now          func() time.Time
}

func NewPlannerService(
	sr schedule.SlotRepository,
	lr schedule.LogRepository,
	or schedule.OverrideRepository,
	ar account.Repository,
	logger *logrus.Entry,
) *PlannerService {
	v := validator.New()
	_ = v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		return clockTimePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return schedule.IsValidWeekday(fl.Field().String())
	})
	return &PlannerService{
		slotRepo:     sr,
		logRepo:      lr,
		overrideRepo: or,
		accountRepo:  ar,
		validate:     v,
		logger:       logger,
		now:          time.Now,
	}
}

// Register ensures an account exists for the user and returns it.
func (s *PlannerService) Register(ctx context.Context, userID int64) (*account.Account, error) {
	a, err := s.accountRepo.Ensure(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure account %d: %w", userID, err)
	}
	return a, nil
}

// SetReminders flips the per-user reminder gate.
func (s *PlannerService) SetReminders(ctx context.Context, userID int64, enabled bool) error {
	if err := s.accountRepo.SetRemindersEnabled(ctx, userID, enabled); err != nil {
		return fmt.Errorf("failed to set reminders for %d: %w", userID, err)
	}
	return nil
}

// AddSlot validates and creates a new recurring slot.
func (s *PlannerService) AddSlot(ctx context.Context, userID int64, p SlotParams) (*schedule.Slot, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid slot: %w", err)
	}
	// Fixed-width HH:MM, so the string compare is a time compare.
	if p.StartTime >= p.EndTime {
		return nil, ErrInvalidTimeRange
	}
	// Slots reference the account row; first contact may be /add.
	if _, err := s.accountRepo.Ensure(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure account %d: %w", userID, err)
	}
	slot := &schedule.Slot{
		UserID:    userID,
		Title:     strings.TrimSpace(p.Title),
		Type:      schedule.SlotType(p.Type),
		Day:       schedule.Weekday(p.Day),
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
	}
	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": userID, "slot_id": slot.ID, "day": slot.Day}).Info("Slot created")
	return slot, nil
}

// Slot fetches one slot, for handlers that need its details.
func (s *PlannerService) Slot(ctx context.Context, userID int64, slotID string) (*schedule.Slot, error) {
	return s.slotRepo.GetByID(ctx, userID, slotID)
}

// DeleteSlot permanently removes a slot and all its future occurrences.
// Logs and overrides referencing it become orphans and are never
// rendered again.
func (s *PlannerService) DeleteSlot(ctx context.Context, userID int64, slotID string) error {
	if err := s.slotRepo.Delete(ctx, userID, slotID); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", slotID, err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": userID, "slot_id": slotID}).Info("Slot deleted permanently")
	return nil
}

// SetStatus merge-upserts the occurrence's status. Any status may follow
// any other; setting the same status twice is idempotent.
func (s *PlannerService) SetStatus(ctx context.Context, userID int64, key schedule.OccurrenceKey, status schedule.Status) error {
	if !schedule.IsValidStatus(string(status)) {
		return ErrInvalidStatus
	}
	if err := s.logRepo.UpsertStatus(ctx, userID, key, status); err != nil {
		return fmt.Errorf("failed to set status for %s: %w", key, err)
	}
	return nil
}

// CancelOccurrence cancels this week's instance. No override is written;
// cancellation is a log status like any other.
func (s *PlannerService) CancelOccurrence(ctx context.Context, userID int64, key schedule.OccurrenceKey) error {
	return s.SetStatus(ctx, userID, key, schedule.StatusCancelled)
}

// UndoCancel restores a cancelled occurrence to pending.
func (s *PlannerService) UndoCancel(ctx context.Context, userID int64, key schedule.OccurrenceKey) error {
	return s.SetStatus(ctx, userID, key, schedule.StatusPending)
}

// AddTask appends a to-do item to the occurrence's log, creating the log
// if none exists. Whitespace-only text is a silent no-op returning
// (nil, nil). Returns the created task.
//
// The read-append-write below has no concurrency guard; two concurrent
// appends to the same key can lose one. Accepted limitation for a
// single-user planner.
func (s *PlannerService) AddTask(ctx context.Context, userID int64, key schedule.OccurrenceKey, text string) (*schedule.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	var tasks []schedule.Task
	current, err := s.logRepo.Get(ctx, userID, key)
	if err != nil && err != idb.ErrLogNotFound {
		return nil, fmt.Errorf("failed to read log for %s: %w", key, err)
	}
	if current != nil {
		tasks = current.Tasks
	}
	task := schedule.Task{ID: uuid.NewString(), Text: text}
	tasks = append(tasks, task)
	if err := s.logRepo.UpsertTasks(ctx, userID, key, tasks); err != nil {
		return nil, fmt.Errorf("failed to append task for %s: %w", key, err)
	}
	return &task, nil
}

// ToggleTask flips the completion of one task by identity. Missing log
// or missing task are silent no-ops.
func (s *PlannerService) ToggleTask(ctx context.Context, userID int64, key schedule.OccurrenceKey, taskID string) error {
	current, err := s.logRepo.Get(ctx, userID, key)
	if err != nil {
		if err == idb.ErrLogNotFound {
			return nil
		}
		return fmt.Errorf("failed to read log for %s: %w", key, err)
	}
	found := false
	tasks := make([]schedule.Task, len(current.Tasks))
	for i, t := range current.Tasks {
		if t.ID == taskID {
			t.Completed = !t.Completed
			found = true
		}
		tasks[i] = t
	}
	if !found {
		return nil
	}
	if err := s.logRepo.UpsertTasks(ctx, userID, key, tasks); err != nil {
		return fmt.Errorf("failed to toggle task for %s: %w", key, err)
	}
	return nil
}

// Tasks returns the occurrence's task list; empty when no log exists.
func (s *PlannerService) Tasks(ctx context.Context, userID int64, key schedule.OccurrenceKey) ([]schedule.Task, error) {
	current, err := s.logRepo.Get(ctx, userID, key)
	if err != nil {
		if err == idb.ErrLogNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read log for %s: %w", key, err)
	}
	return current.Tasks, nil
}

// OccurrenceOverride returns the stored override for an occurrence, or
// nil when it was never rescheduled.
func (s *PlannerService) OccurrenceOverride(ctx context.Context, userID int64, key schedule.OccurrenceKey) (*schedule.Override, error) {
	o, err := s.overrideRepo.Get(ctx, userID, key)
	if err != nil {
		if err == idb.ErrOverrideNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read override for %s: %w", key, err)
	}
	return o, nil
}

// Reschedule writes (or replaces) the override moving one occurrence to
// a new day and time for the current week only.
func (s *PlannerService) Reschedule(ctx context.Context, userID int64, slotID, originalDate string, p RescheduleParams) (*schedule.Override, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid reschedule: %w", err)
	}
	if p.NewStartTime >= p.NewEndTime {
		return nil, ErrInvalidTimeRange
	}
	title := strings.TrimSpace(p.NewTitle)
	if title == "" {
		slot, err := s.slotRepo.GetByID(ctx, userID, slotID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve slot %s for reschedule: %w", slotID, err)
		}
		title = slot.Title
	}
	override := &schedule.Override{
		UserID:       userID,
		SlotID:       slotID,
		SlotTitle:    title,
		OriginalDate: originalDate,
		NewDay:       schedule.Weekday(p.NewDay),
		NewStartTime: p.NewStartTime,
		NewEndTime:   p.NewEndTime,
		WeekOf:       schedule.WeekIdentifier(s.now()),
	}
	if err := s.overrideRepo.Put(ctx, override); err != nil {
		return nil, fmt.Errorf("failed to store override for %s: %w", override.Key(), err)
	}
	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"key":     override.Key().String(),
		"new_day": override.NewDay,
	}).Info("Occurrence rescheduled for this week")
	return override, nil
}

// LoadSnapshot reads one consistent view of the user's three collections.
func (s *PlannerService) LoadSnapshot(ctx context.Context, userID int64) (schedule.Snapshot, error) {
	slots, err := s.slotRepo.ListByUser(ctx, userID)
	if err != nil {
		return schedule.Snapshot{}, fmt.Errorf("failed to list slots: %w", err)
	}
	logs, err := s.logRepo.ListByUser(ctx, userID)
	if err != nil {
		return schedule.Snapshot{}, fmt.Errorf("failed to list logs: %w", err)
	}
	overrides, err := s.overrideRepo.ListByUser(ctx, userID)
	if err != nil {
		return schedule.Snapshot{}, fmt.Errorf("failed to list overrides: %w", err)
	}
	return schedule.Snapshot{Slots: slots, Logs: logs, Overrides: overrides}, nil
}

// DayEvents materializes one day of the current week together with the
// snapshot it was computed from.
func (s *PlannerService) DayEvents(ctx context.Context, userID int64, day schedule.Weekday) ([]schedule.Event, schedule.Snapshot, error) {
	snap, err := s.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, schedule.Snapshot{}, err
	}
	return schedule.MaterializeDay(day, snap, s.now()), snap, nil
}

// WeekStats aggregates attendance and completion over the current week.
func (s *PlannerService) WeekStats(ctx context.Context, userID int64) (schedule.WeekStats, error) {
	snap, err := s.LoadSnapshot(ctx, userID)
	if err != nil {
		return schedule.WeekStats{}, err
	}
	return schedule.ComputeWeekStats(snap, s.now()), nil
}
