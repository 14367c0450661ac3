package database

import (
	"context"
	"database/sql"
	"fmt"

	"timetable_tracker_bot/internal/domain/account"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrAccountNotFound = fmt.Errorf("account not found")

type PostgresAccountRepository struct {
	db *sql.DB
}

func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// Ensure creates the account on first contact; repeat calls are no-ops.
func (r *PostgresAccountRepository) Ensure(ctx context.Context, userID int64) (*account.Account, error) {
	insert := `INSERT INTO planner_accounts (user_id) VALUES ($1)
               ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, insert, userID); err != nil {
		return nil, fmt.Errorf("error ensuring account: %w", err)
	}
	return r.Get(ctx, userID)
}

func (r *PostgresAccountRepository) Get(ctx context.Context, userID int64) (*account.Account, error) {
	query := `SELECT user_id, reminders_enabled, created_at, updated_at
               FROM planner_accounts WHERE user_id = $1`
	a := &account.Account{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&a.UserID, &a.RemindersEnabled, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("error getting account: %w", err)
	}
	return a, nil
}

func (r *PostgresAccountRepository) SetRemindersEnabled(ctx context.Context, userID int64, enabled bool) error {
	query := `UPDATE planner_accounts
               SET reminders_enabled = $1, updated_at = NOW()
               WHERE user_id = $2`
	res, err := r.db.ExecContext(ctx, query, enabled, userID)
	if err != nil {
		return fmt.Errorf("error updating reminders flag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking reminders flag update: %w", err)
	}
	if affected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) ListRemindersEnabled(ctx context.Context) ([]account.Account, error) {
	query := `SELECT user_id, reminders_enabled, created_at, updated_at
               FROM planner_accounts WHERE reminders_enabled = TRUE ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing reminder accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]account.Account, 0)
	for rows.Next() {
		var a account.Account
		if err := rows.Scan(&a.UserID, &a.RemindersEnabled, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning reminder account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminder accounts: %w", err)
	}
	return accounts, nil
}
