package database

import (
	"context"
	"database/sql"
	"fmt"

	"timetable_tracker_bot/internal/domain/schedule"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrSlotNotFound = fmt.Errorf("slot not found")

type PostgresSlotRepository struct {
	db *sql.DB
}

func NewPostgresSlotRepository(db *sql.DB) *PostgresSlotRepository {
	return &PostgresSlotRepository{db: db}
}

func (r *PostgresSlotRepository) Create(ctx context.Context, s *schedule.Slot) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `INSERT INTO timetable_slots (id, user_id, title, slot_type, day, start_time, end_time)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, s.ID, s.UserID, s.Title, s.Type, s.Day, s.StartTime, s.EndTime).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating slot: %w", err)
	}
	return nil
}

func (r *PostgresSlotRepository) GetByID(ctx context.Context, userID int64, id string) (*schedule.Slot, error) {
	query := `SELECT id, user_id, title, slot_type, day, start_time, end_time, created_at
               FROM timetable_slots WHERE user_id = $1 AND id = $2`
	s := &schedule.Slot{}
	err := r.db.QueryRowContext(ctx, query, userID, id).Scan(&s.ID, &s.UserID, &s.Title, &s.Type, &s.Day, &s.StartTime, &s.EndTime, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("error getting slot by ID: %w", err)
	}
	return s, nil
}

func (r *PostgresSlotRepository) ListByUser(ctx context.Context, userID int64) ([]schedule.Slot, error) {
	query := `SELECT id, user_id, title, slot_type, day, start_time, end_time, created_at
               FROM timetable_slots WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing slots: %w", err)
	}
	defer rows.Close()

	slots := make([]schedule.Slot, 0)
	for rows.Next() {
		var s schedule.Slot
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Type, &s.Day, &s.StartTime, &s.EndTime, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slots: %w", err)
	}
	return slots, nil
}

func (r *PostgresSlotRepository) Delete(ctx context.Context, userID int64, id string) error {
	query := `DELETE FROM timetable_slots WHERE user_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("error deleting slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted slot: %w", err)
	}
	if affected == 0 {
		return ErrSlotNotFound
	}
	return nil
}
