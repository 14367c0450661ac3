package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"timetable_tracker_bot/internal/domain/schedule"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrLogNotFound = fmt.Errorf("occurrence log not found")

// PostgresLogRepository persists per-occurrence logs keyed by
// (user_id, slot_id, occurrence_date). Status and task writes merge via
// ON CONFLICT upserts so that the two fields never clobber each other.
type PostgresLogRepository struct {
	db *sql.DB
}

func NewPostgresLogRepository(db *sql.DB) *PostgresLogRepository {
	return &PostgresLogRepository{db: db}
}

func (r *PostgresLogRepository) Get(ctx context.Context, userID int64, key schedule.OccurrenceKey) (*schedule.EntryLog, error) {
	query := `SELECT user_id, slot_id, occurrence_date, status, tasks, updated_at
               FROM timetable_logs WHERE user_id = $1 AND slot_id = $2 AND occurrence_date = $3`
	l := &schedule.EntryLog{}
	var rawTasks []byte
	err := r.db.QueryRowContext(ctx, query, userID, key.SlotID, key.Date).Scan(&l.UserID, &l.SlotID, &l.Date, &l.Status, &rawTasks, &l.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("error getting occurrence log: %w", err)
	}
	if err := json.Unmarshal(rawTasks, &l.Tasks); err != nil {
		return nil, fmt.Errorf("error decoding tasks for log %s: %w", key, err)
	}
	return l, nil
}

func (r *PostgresLogRepository) ListByUser(ctx context.Context, userID int64) (map[string]schedule.EntryLog, error) {
	query := `SELECT user_id, slot_id, occurrence_date, status, tasks, updated_at
               FROM timetable_logs WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing occurrence logs: %w", err)
	}
	defer rows.Close()

	logs := make(map[string]schedule.EntryLog)
	for rows.Next() {
		var l schedule.EntryLog
		var rawTasks []byte
		if err := rows.Scan(&l.UserID, &l.SlotID, &l.Date, &l.Status, &rawTasks, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning occurrence log: %w", err)
		}
		if err := json.Unmarshal(rawTasks, &l.Tasks); err != nil {
			return nil, fmt.Errorf("error decoding tasks for log %s: %w", l.Key(), err)
		}
		logs[l.Key().String()] = l
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating occurrence logs: %w", err)
	}
	return logs, nil
}

func (r *PostgresLogRepository) UpsertStatus(ctx context.Context, userID int64, key schedule.OccurrenceKey, status schedule.Status) error {
	query := `INSERT INTO timetable_logs (user_id, slot_id, occurrence_date, status, tasks)
               VALUES ($1, $2, $3, $4, '[]'::jsonb)
               ON CONFLICT (user_id, slot_id, occurrence_date)
               DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, userID, key.SlotID, key.Date, status); err != nil {
		return fmt.Errorf("error upserting status for log %s: %w", key, err)
	}
	return nil
}

func (r *PostgresLogRepository) UpsertTasks(ctx context.Context, userID int64, key schedule.OccurrenceKey, tasks []schedule.Task) error {
	if tasks == nil {
		tasks = []schedule.Task{}
	}
	rawTasks, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("error encoding tasks for log %s: %w", key, err)
	}
	query := `INSERT INTO timetable_logs (user_id, slot_id, occurrence_date, status, tasks)
               VALUES ($1, $2, $3, '', $4)
               ON CONFLICT (user_id, slot_id, occurrence_date)
               DO UPDATE SET tasks = EXCLUDED.tasks, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, userID, key.SlotID, key.Date, rawTasks); err != nil {
		return fmt.Errorf("error upserting tasks for log %s: %w", key, err)
	}
	return nil
}
