package schedule

import "context"

// SlotRepository defines persistence for recurring slots. Slots are
// mutated only by full replacement; there is no partial edit.
type SlotRepository interface {
	Create(ctx context.Context, slot *Slot) error
	GetByID(ctx context.Context, userID int64, id string) (*Slot, error)
	ListByUser(ctx context.Context, userID int64) ([]Slot, error)
	// Delete permanently removes the slot. Logs and overrides that
	// reference it are left in place as orphans; the materializer simply
	// never renders them again.
	Delete(ctx context.Context, userID int64, id string) error
}

// LogRepository defines keyed upsert-merge persistence for per-occurrence
// logs. Status and task writes merge into the existing record rather than
// replacing it, so the two evolve independently.
type LogRepository interface {
	Get(ctx context.Context, userID int64, key OccurrenceKey) (*EntryLog, error)
	ListByUser(ctx context.Context, userID int64) (map[string]EntryLog, error)
	UpsertStatus(ctx context.Context, userID int64, key OccurrenceKey, status Status) error
	UpsertTasks(ctx context.Context, userID int64, key OccurrenceKey, tasks []Task) error
}

// OverrideRepository defines persistence for one-off reschedules. Put
// replaces any existing override at the same occurrence key. Overrides
// are never deleted; stale ones stay as history.
type OverrideRepository interface {
	Get(ctx context.Context, userID int64, key OccurrenceKey) (*Override, error)
	ListByUser(ctx context.Context, userID int64) (map[string]Override, error)
	Put(ctx context.Context, override *Override) error
}
