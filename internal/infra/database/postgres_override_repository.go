package database

import (
	"context"
	"database/sql"
	"fmt"

	"timetable_tracker_bot/internal/domain/schedule"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrOverrideNotFound = fmt.Errorf("override not found")

type PostgresOverrideRepository struct {
	db *sql.DB
}

func NewPostgresOverrideRepository(db *sql.DB) *PostgresOverrideRepository {
	return &PostgresOverrideRepository{db: db}
}

func (r *PostgresOverrideRepository) Get(ctx context.Context, userID int64, key schedule.OccurrenceKey) (*schedule.Override, error) {
	query := `SELECT user_id, slot_id, original_date, slot_title, new_day, new_start_time, new_end_time, week_of, created_at
               FROM timetable_overrides WHERE user_id = $1 AND slot_id = $2 AND original_date = $3`
	o := &schedule.Override{}
	err := r.db.QueryRowContext(ctx, query, userID, key.SlotID, key.Date).
		Scan(&o.UserID, &o.SlotID, &o.OriginalDate, &o.SlotTitle, &o.NewDay, &o.NewStartTime, &o.NewEndTime, &o.WeekOf, &o.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOverrideNotFound
		}
		return nil, fmt.Errorf("error getting override: %w", err)
	}
	return o, nil
}

func (r *PostgresOverrideRepository) ListByUser(ctx context.Context, userID int64) (map[string]schedule.Override, error) {
	query := `SELECT user_id, slot_id, original_date, slot_title, new_day, new_start_time, new_end_time, week_of, created_at
               FROM timetable_overrides WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]schedule.Override)
	for rows.Next() {
		var o schedule.Override
		if err := rows.Scan(&o.UserID, &o.SlotID, &o.OriginalDate, &o.SlotTitle, &o.NewDay, &o.NewStartTime, &o.NewEndTime, &o.WeekOf, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning override: %w", err)
		}
		overrides[o.Key().String()] = o
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overrides: %w", err)
	}
	return overrides, nil
}

// Put writes the override, replacing any existing record at the same
// occurrence key.
func (r *PostgresOverrideRepository) Put(ctx context.Context, o *schedule.Override) error {
	query := `INSERT INTO timetable_overrides (user_id, slot_id, original_date, slot_title, new_day, new_start_time, new_end_time, week_of)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
               ON CONFLICT (user_id, slot_id, original_date)
               DO UPDATE SET slot_title = EXCLUDED.slot_title,
                             new_day = EXCLUDED.new_day,
                             new_start_time = EXCLUDED.new_start_time,
                             new_end_time = EXCLUDED.new_end_time,
                             week_of = EXCLUDED.week_of,
                             created_at = NOW()
               RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, o.UserID, o.SlotID, o.OriginalDate, o.SlotTitle, o.NewDay, o.NewStartTime, o.NewEndTime, o.WeekOf).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("error putting override: %w", err)
	}
	return nil
}
